package memory_map

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

const deletedSuffix = " (deleted)"

// ParseLine decodes one maps line, e.g.
//
//	7f0f79147000-7f0f79149000 rw-p 001eb000 fc:01 131498    /lib/x86_64-linux-gnu/libc-2.27.so
//
// Everything after the inode column is the pathname, internal spaces included.
func ParseLine(line string) (MemoryMapping, error) {
	cols, rest := token.Head(line, 5)
	if err := cols.Expect(5, "inode"); err != nil {
		return MemoryMapping{}, err
	}

	var m MemoryMapping
	var err error

	addrs := token.Split(cols[0], '-')
	if err := addrs.Expect(2, "address"); err != nil {
		return MemoryMapping{}, err
	}
	if m.Start, err = field.Hex64(addrs[0], "start"); err != nil {
		return MemoryMapping{}, err
	}
	if m.End, err = field.Hex64(addrs[1], "end"); err != nil {
		return MemoryMapping{}, err
	}
	if m.Start > m.End {
		return MemoryMapping{}, procerr.Malformed("address", cols[0], "start above end")
	}

	if m.Perms, err = ParsePerms(cols[1]); err != nil {
		return MemoryMapping{}, err
	}

	if m.Offset, err = field.Hex64(cols[2], "offset"); err != nil {
		return MemoryMapping{}, err
	}

	dev := token.Split(cols[3], ':')
	if err := dev.Expect(2, "dev"); err != nil {
		return MemoryMapping{}, err
	}
	major, err := field.Uint(dev[0], 16, 32, "dev_major")
	if err != nil {
		return MemoryMapping{}, err
	}
	minor, err := field.Uint(dev[1], 16, 32, "dev_minor")
	if err != nil {
		return MemoryMapping{}, err
	}
	m.Device = Device{Major: uint32(major), Minor: uint32(minor)}

	if m.Inode, err = field.Uint64(cols[4], "inode"); err != nil {
		return MemoryMapping{}, err
	}

	if p, ok := strings.CutSuffix(rest, deletedSuffix); ok && p != "" {
		m.Deleted = true
		rest = p
	}
	if m.Path, err = ClassifyPath(rest); err != nil {
		return MemoryMapping{}, err
	}

	return m, nil
}

// Parse decodes a whole maps file. The first bad line fails the decode and no
// partial result is returned.
func Parse(text string) (Maps, error) {
	lines := token.Lines(text)
	mm := make(Maps, 0, len(lines))
	for i, line := range lines {
		m, err := ParseLine(line)
		if err != nil {
			return nil, procerr.At(err, "maps", i+1)
		}
		mm = append(mm, m)
	}
	return mm, nil
}
