package system

import (
	"strconv"
	"strings"
	"time"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// CpuTally is one "cpu" or "cpuN" line of /proc/stat, in USER_HZ ticks.
// The first four columns are printed by every kernel; the rest were added
// over time and are absent, not zero, when the kernel does not print them.
type CpuTally struct {
	User      uint64              `json:"user" yaml:"user"`
	Nice      uint64              `json:"nice" yaml:"nice"`
	System    uint64              `json:"system" yaml:"system"`
	Idle      uint64              `json:"idle" yaml:"idle"`
	IOWait    field.Maybe[uint64] `json:"iowait" yaml:"iowait"`         // 2.5.41
	IRQ       field.Maybe[uint64] `json:"irq" yaml:"irq"`               // 2.6.0
	SoftIRQ   field.Maybe[uint64] `json:"softirq" yaml:"softirq"`       // 2.6.0
	Steal     field.Maybe[uint64] `json:"steal" yaml:"steal"`           // 2.6.11
	Guest     field.Maybe[uint64] `json:"guest" yaml:"guest"`           // 2.6.24
	GuestNice field.Maybe[uint64] `json:"guest_nice" yaml:"guest_nice"` // 2.6.33
}

func (c *CpuTally) optional() []field.Slot {
	return []field.Slot{
		field.Into(&c.IOWait, "iowait", field.Uint64),
		field.Into(&c.IRQ, "irq", field.Uint64),
		field.Into(&c.SoftIRQ, "softirq", field.Uint64),
		field.Into(&c.Steal, "steal", field.Uint64),
		field.Into(&c.Guest, "guest", field.Uint64),
		field.Into(&c.GuestNice, "guest_nice", field.Uint64),
	}
}

// ParseCpuTally decodes the counters after the "cpu"/"cpuN" label.
func ParseCpuTally(toks token.List) (CpuTally, error) {
	var c CpuTally
	r := field.NewReader(toks, 0)
	c.User = r.Uint64("user")
	c.Nice = r.Uint64("nice")
	c.System = r.Uint64("system")
	c.Idle = r.Uint64("idle")
	if err := r.Err(); err != nil {
		return CpuTally{}, err
	}
	if _, err := field.Tail(r.Rest(), "cpu", c.optional()...); err != nil {
		return CpuTally{}, err
	}
	return c, nil
}

// Columns reports how many counters the kernel printed.
func (c CpuTally) Columns() int {
	n := 4
	for _, m := range []field.Maybe[uint64]{c.IOWait, c.IRQ, c.SoftIRQ, c.Steal, c.Guest, c.GuestNice} {
		if m.Valid {
			n++
		}
	}
	return n
}

// CpuTime is the sum of every printed column.
func (c CpuTally) CpuTime() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.IOWait.Or(0) + c.IRQ.Or(0) +
		c.SoftIRQ.Or(0) + c.Steal.Or(0) + c.Guest.Or(0) + c.GuestNice.Or(0)
}

func (c CpuTally) UserTime() uint64 { return c.User + c.Nice }

func (c CpuTally) SystemTime() uint64 { return c.System + c.IRQ.Or(0) + c.SoftIRQ.Or(0) }

// Counts is an "intr" or "softirq" sequence: element 0 is the total, the rest
// are per source.
type Counts []uint64

func (c Counts) Total() uint64 {
	if len(c) == 0 {
		return 0
	}
	return c[0]
}

func (c Counts) PerSource() []uint64 {
	if len(c) == 0 {
		return nil
	}
	return c[1:]
}

// SystemStat is /proc/stat.
type SystemStat struct {
	Cpu          CpuTally   `json:"cpu" yaml:"cpu"`
	Cores        []CpuTally `json:"cores" yaml:"cores"`
	Intr         Counts     `json:"intr" yaml:"intr"`
	Ctxt         uint64     `json:"ctxt" yaml:"ctxt"`
	BootTime     uint64     `json:"btime" yaml:"btime"`
	Processes    uint64     `json:"processes" yaml:"processes"`
	ProcsRunning uint64     `json:"procs_running" yaml:"procs_running"`
	ProcsBlocked uint64     `json:"procs_blocked" yaml:"procs_blocked"`
	SoftIRQ      Counts     `json:"softirq" yaml:"softirq"`
}

// BootTimeAt converts btime (seconds since the epoch) to a time.Time.
func (s SystemStat) BootTimeAt() time.Time {
	return time.Unix(int64(s.BootTime), 0)
}

// statScanner walks the lines of /proc/stat in their fixed order.
type statScanner struct {
	lines []string
	pos   int
}

func (sc *statScanner) peek() (string, token.List) {
	if sc.pos >= len(sc.lines) {
		return "", nil
	}
	toks := token.Fields(sc.lines[sc.pos])
	if len(toks) == 0 {
		return "", toks
	}
	return toks[0], toks.From(1)
}

// expect consumes the next line, which must start with label.
func (sc *statScanner) expect(label string) (token.List, error) {
	got, rest := sc.peek()
	if sc.pos >= len(sc.lines) {
		return nil, procerr.At(&procerr.Error{Kind: procerr.KindMalformed, Field: label, Msg: "line missing"}, "stat", sc.pos+1)
	}
	if got != label {
		return nil, procerr.At(procerr.Malformed(label, got, "expected %q line", label), "stat", sc.pos+1)
	}
	sc.pos++
	return rest, nil
}

func (sc *statScanner) scalar(label string) (uint64, error) {
	rest, err := sc.expect(label)
	if err != nil {
		return 0, err
	}
	if err := rest.Expect(1, label); err != nil {
		return 0, procerr.At(err, "stat", sc.pos)
	}
	v, err := field.Uint64(rest[0], label)
	return v, procerr.At(err, "stat", sc.pos)
}

func (sc *statScanner) counts(label string) (Counts, error) {
	rest, err := sc.expect(label)
	if err != nil {
		return nil, err
	}
	if err := rest.AtLeast(1, label); err != nil {
		return nil, procerr.At(err, "stat", sc.pos)
	}
	out := make(Counts, len(rest))
	for i, tok := range rest {
		if out[i], err = field.Uint64(tok, label); err != nil {
			return nil, procerr.At(err, "stat", sc.pos)
		}
	}
	return out, nil
}

// ParseSystemStat decodes /proc/stat. Lines must appear in the order the
// kernel prints them, per-core lines numbered from 0 without gaps.
func ParseSystemStat(text string) (SystemStat, error) {
	sc := &statScanner{lines: token.Lines(text)}
	var s SystemStat

	rest, err := sc.expect("cpu")
	if err != nil {
		return SystemStat{}, err
	}
	if s.Cpu, err = ParseCpuTally(rest); err != nil {
		return SystemStat{}, procerr.At(err, "stat", sc.pos)
	}

	for {
		label, rest := sc.peek()
		if !strings.HasPrefix(label, "cpu") {
			break
		}
		n, err := strconv.Atoi(strings.TrimPrefix(label, "cpu"))
		if err != nil || n != len(s.Cores) {
			return SystemStat{}, procerr.At(procerr.Malformed("cpu", label, "expected cpu%d", len(s.Cores)), "stat", sc.pos+1)
		}
		sc.pos++
		core, err := ParseCpuTally(rest)
		if err != nil {
			return SystemStat{}, procerr.At(err, "stat", sc.pos)
		}
		s.Cores = append(s.Cores, core)
	}

	if s.Intr, err = sc.counts("intr"); err != nil {
		return SystemStat{}, err
	}
	for _, f := range []struct {
		label string
		dst   *uint64
	}{
		{"ctxt", &s.Ctxt},
		{"btime", &s.BootTime},
		{"processes", &s.Processes},
		{"procs_running", &s.ProcsRunning},
		{"procs_blocked", &s.ProcsBlocked},
	} {
		if *f.dst, err = sc.scalar(f.label); err != nil {
			return SystemStat{}, err
		}
	}
	if s.SoftIRQ, err = sc.counts("softirq"); err != nil {
		return SystemStat{}, err
	}

	if sc.pos != len(sc.lines) {
		label, _ := sc.peek()
		return SystemStat{}, procerr.At(procerr.Malformed("softirq", label, "unexpected line after softirq"), "stat", sc.pos+1)
	}
	return s, nil
}
