package system

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

// LoadAvg is /proc/loadavg, e.g. "0.00 0.03 0.05 1/248 19480".
type LoadAvg struct {
	One       float64 `json:"one" yaml:"one"`
	Five      float64 `json:"five" yaml:"five"`
	Fifteen   float64 `json:"fifteen" yaml:"fifteen"`
	Running   int64   `json:"running" yaml:"running"`
	Total     int64   `json:"total" yaml:"total"`
	LatestPID int32   `json:"latest_pid" yaml:"latest_pid"`
}

// ParseLoadAvg splits the single line on spaces and the slash between the
// running and total scheduling entity counts.
func ParseLoadAvg(text string) (LoadAvg, error) {
	lines := token.Lines(text)
	if len(lines) != 1 {
		return LoadAvg{}, &procerr.Error{Kind: procerr.KindMalformed, Format: "loadavg", Field: "line", Expected: 1, Found: len(lines), Msg: "expected exactly one line"}
	}
	toks := token.SplitAny(lines[0], " /")
	if err := toks.Expect(6, "loadavg"); err != nil {
		return LoadAvg{}, procerr.At(err, "loadavg", 1)
	}

	r := field.NewReader(toks, 0)
	l := LoadAvg{
		One:       r.Float64("one"),
		Five:      r.Float64("five"),
		Fifteen:   r.Float64("fifteen"),
		Running:   r.Int64("running"),
		Total:     r.Int64("total"),
		LatestPID: r.Int32("latest_pid"),
	}
	if err := r.Err(); err != nil {
		return LoadAvg{}, procerr.At(err, "loadavg", 1)
	}
	return l, nil
}
