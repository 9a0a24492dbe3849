package process

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Statm is /proc/[pid]/statm. Every value is a count of pages.
type Statm struct {
	Size     uint64 `json:"size" yaml:"size"`         // total program size
	Resident uint64 `json:"resident" yaml:"resident"` // resident set size
	Shared   uint64 `json:"shared" yaml:"shared"`     // resident file-backed pages
	Text     uint64 `json:"text" yaml:"text"`
	Lib      uint64 `json:"lib" yaml:"lib"` // unused since 2.6, always 0
	Data     uint64 `json:"data" yaml:"data"`
	Dt       uint64 `json:"dt" yaml:"dt"` // unused since 2.6, always 0
}

// ParseStatm decodes the single statm line.
func ParseStatm(text string) (Statm, error) {
	lines := token.Lines(text)
	if len(lines) != 1 {
		return Statm{}, &procerr.Error{Kind: procerr.KindMalformed, Format: "statm", Field: "line", Expected: 1, Found: len(lines), Msg: "expected exactly one line"}
	}

	toks := token.Fields(lines[0])
	if err := toks.Expect(7, "statm"); err != nil {
		return Statm{}, procerr.At(err, "statm", 1)
	}

	r := field.NewReader(toks, 0)
	s := Statm{
		Size:     r.Uint64("size"),
		Resident: r.Uint64("resident"),
		Shared:   r.Uint64("shared"),
		Text:     r.Uint64("text"),
		Lib:      r.Uint64("lib"),
		Data:     r.Uint64("data"),
		Dt:       r.Uint64("dt"),
	}
	if err := r.Err(); err != nil {
		return Statm{}, procerr.At(err, "statm", 1)
	}
	return s, nil
}

// Bytes converts every page count to bytes.
func (s Statm) Bytes(pageSize uint64) Statm {
	return Statm{
		Size:     s.Size * pageSize,
		Resident: s.Resident * pageSize,
		Shared:   s.Shared * pageSize,
		Text:     s.Text * pageSize,
		Lib:      s.Lib * pageSize,
		Data:     s.Data * pageSize,
		Dt:       s.Dt * pageSize,
	}
}
