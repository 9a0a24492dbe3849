package system

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

// MemUnit is the unit suffix of a meminfo value. Counters such as
// HugePages_Total carry none.
type MemUnit string

const (
	UnitNone     MemUnit = ""
	UnitKilobyte MemUnit = "kB"
)

var memUnits = field.Vocabulary[MemUnit]{"kB": UnitKilobyte}

// MemEntry is one "Key:   value [kB]" line.
type MemEntry struct {
	Key   string  `json:"key" yaml:"key"`
	Value uint64  `json:"value" yaml:"value"`
	Unit  MemUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Bytes converts a kB value to bytes; unitless values are returned unchanged.
func (e MemEntry) Bytes() uint64 {
	if e.Unit == UnitKilobyte {
		return e.Value * 1024
	}
	return e.Value
}

// MemInfo is /proc/meminfo in file order.
type MemInfo []MemEntry

func (m MemInfo) Lookup(key string) (MemEntry, bool) {
	for _, e := range m {
		if e.Key == key {
			return e, true
		}
	}
	return MemEntry{}, false
}

// ParseMemInfo decodes /proc/meminfo.
func ParseMemInfo(text string) (MemInfo, error) {
	lines := token.Lines(text)
	out := make(MemInfo, 0, len(lines))
	for i, line := range lines {
		e, err := parseMemLine(line)
		if err != nil {
			return nil, procerr.At(err, "meminfo", i+1)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseMemLine(line string) (MemEntry, error) {
	key, value, err := token.KeyValue(line, ':', "meminfo")
	if err != nil {
		return MemEntry{}, err
	}
	if key == "" {
		return MemEntry{}, procerr.Malformed("meminfo", line, "empty key")
	}
	toks := token.Fields(value)
	if err := toks.AtLeast(1, key); err != nil {
		return MemEntry{}, err
	}
	if len(toks) > 2 {
		return MemEntry{}, procerr.Malformed(key, toks[2], "unexpected trailing tokens")
	}
	e := MemEntry{Key: key}
	if e.Value, err = field.Uint64(toks[0], key); err != nil {
		return MemEntry{}, err
	}
	if len(toks) == 2 {
		if e.Unit, err = memUnits.Parse(toks[1], key); err != nil {
			return MemEntry{}, err
		}
	}
	return e, nil
}
