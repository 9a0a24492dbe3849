package system

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

type SwapType string

const (
	SwapPartition SwapType = "partition"
	SwapFile      SwapType = "file"
)

var swapTypes = field.Vocabulary[SwapType]{
	"partition": SwapPartition,
	"file":      SwapFile,
}

// Swap is one row of /proc/swaps. Sizes are in KiB. Filename keeps the
// kernel's octal escapes.
type Swap struct {
	Filename string   `json:"filename" yaml:"filename"`
	Type     SwapType `json:"type" yaml:"type"`
	SizeKB   uint64   `json:"size_kb" yaml:"size_kb"`
	UsedKB   uint64   `json:"used_kb" yaml:"used_kb"`
	Priority int32    `json:"priority" yaml:"priority"`
}

// Free returns the unused part of the area in KiB.
func (s Swap) Free() uint64 {
	if s.UsedKB > s.SizeKB {
		return 0
	}
	return s.SizeKB - s.UsedKB
}

func ParseSwap(line string) (Swap, error) {
	r := field.NewReader(token.Fields(line), 0)
	s := Swap{
		Filename: r.Next("filename"),
		Type:     field.Take(r, "type", swapTypes.Parse),
		SizeKB:   r.Uint64("size"),
		UsedKB:   r.Uint64("used"),
		Priority: r.Int32("priority"),
	}
	if err := r.Done("swaps"); err != nil {
		return Swap{}, err
	}
	return s, nil
}

// ParseSwaps decodes /proc/swaps. A header with no rows means no swap is
// active.
func ParseSwaps(text string) ([]Swap, error) {
	rows, err := headed(text, "swaps", "Filename", "Type", "Size", "Used", "Priority")
	if err != nil {
		return nil, err
	}
	out := make([]Swap, 0, len(rows))
	for i, row := range rows {
		s, err := ParseSwap(row)
		if err != nil {
			return nil, procerr.At(err, "swaps", i+2)
		}
		out = append(out, s)
	}
	return out, nil
}
