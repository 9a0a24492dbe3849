package system

import (
	"procread/procerr"
	"procread/token"
)

const nodevMarker = "nodev"

// Filesystem is one line of /proc/filesystems. NoDev marks types that need
// no backing block device.
type Filesystem struct {
	NoDev bool   `json:"nodev" yaml:"nodev"`
	Type  string `json:"type" yaml:"type"`
}

func ParseFilesystem(line string) (Filesystem, error) {
	toks := token.Fields(line)
	nodev := len(toks) > 0 && toks[0] == nodevMarker
	if nodev {
		toks = toks.From(1)
	}
	if err := toks.Expect(1, "type"); err != nil {
		if len(toks) == 2 && !nodev {
			return Filesystem{}, procerr.Malformed("nodev", toks[0], "expected %q marker", nodevMarker)
		}
		return Filesystem{}, err
	}
	return Filesystem{NoDev: nodev, Type: toks[0]}, nil
}

// ParseFilesystems decodes /proc/filesystems.
func ParseFilesystems(text string) ([]Filesystem, error) {
	lines := token.Lines(text)
	out := make([]Filesystem, 0, len(lines))
	for i, line := range lines {
		f, err := ParseFilesystem(line)
		if err != nil {
			return nil, procerr.At(err, "filesystems", i+1)
		}
		out = append(out, f)
	}
	return out, nil
}

// BlockDevice lists the types that mount from a block device.
func BlockDevice(fss []Filesystem) []string {
	var out []string
	for _, f := range fss {
		if !f.NoDev {
			out = append(out, f.Type)
		}
	}
	return out
}
