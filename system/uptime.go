package system

import (
	"time"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Uptime is /proc/uptime: seconds since boot and the summed idle seconds of
// all cores.
type Uptime struct {
	Total float64 `json:"total" yaml:"total"`
	Idle  float64 `json:"idle" yaml:"idle"`
}

// IdleRatio is Idle/Total. On SMP machines it can exceed 1.
func (u Uptime) IdleRatio() float64 {
	if u.Total == 0 {
		return 0
	}
	return u.Idle / u.Total
}

func (u Uptime) Duration() time.Duration {
	return time.Duration(u.Total * float64(time.Second))
}

func ParseUptime(text string) (Uptime, error) {
	lines := token.Lines(text)
	if len(lines) != 1 {
		return Uptime{}, &procerr.Error{Kind: procerr.KindMalformed, Format: "uptime", Field: "line", Expected: 1, Found: len(lines), Msg: "expected exactly one line"}
	}
	toks := token.Fields(lines[0])
	if err := toks.Expect(2, "uptime"); err != nil {
		return Uptime{}, procerr.At(err, "uptime", 1)
	}
	r := field.NewReader(toks, 0)
	u := Uptime{Total: r.Float64("total"), Idle: r.Float64("idle")}
	if err := r.Err(); err != nil {
		return Uptime{}, procerr.At(err, "uptime", 1)
	}
	return u, nil
}
