package system

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Mount is one line of /proc/mounts (fstab(5) layout). Spaces in the device
// and mount point are octal escaped by the kernel and kept that way.
type Mount struct {
	Device     string   `json:"device" yaml:"device"`
	MountPoint string   `json:"mount_point" yaml:"mount_point"`
	FSType     string   `json:"fs_type" yaml:"fs_type"`
	Options    []string `json:"options" yaml:"options"`
	Dump       uint32   `json:"dump" yaml:"dump"`
	Pass       uint32   `json:"pass" yaml:"pass"`
}

// HasOption reports whether opt (e.g. "ro" or "nosuid") is set.
func (m Mount) HasOption(opt string) bool {
	for _, o := range m.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Option returns the value of a key=value option.
func (m Mount) Option(key string) (string, bool) {
	for _, o := range m.Options {
		if k, v, ok := strings.Cut(o, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

func parseMount(line string) (Mount, error) {
	toks := token.Fields(line)
	if err := toks.Expect(6, "mounts"); err != nil {
		return Mount{}, err
	}
	m := Mount{
		Device:     toks[0],
		MountPoint: toks[1],
		FSType:     toks[2],
		Options:    token.Split(toks[3], ','),
	}
	var err error
	if m.Dump, err = field.Uint32(toks[4], "dump"); err != nil {
		return Mount{}, err
	}
	if m.Pass, err = field.Uint32(toks[5], "pass"); err != nil {
		return Mount{}, err
	}
	return m, nil
}

// ParseMounts decodes /proc/mounts or /proc/[pid]/mounts.
func ParseMounts(text string) ([]Mount, error) {
	lines := token.Lines(text)
	out := make([]Mount, 0, len(lines))
	for i, line := range lines {
		m, err := parseMount(line)
		if err != nil {
			return nil, procerr.At(err, "mounts", i+1)
		}
		out = append(out, m)
	}
	return out, nil
}
