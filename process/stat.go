package process

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// MandatoryStatColumns is the number of columns every supported kernel prints
// in /proc/[pid]/stat, pid and comm included (up to cguest_time).
const MandatoryStatColumns = 44

// StatTail holds the columns that only newer kernels print. They are filled
// left to right; a line may be short at the tail, never in the middle.
type StatTail struct {
	StartData field.Maybe[uint64] `json:"start_data" yaml:"start_data"` // 3.3
	EndData   field.Maybe[uint64] `json:"end_data" yaml:"end_data"`     // 3.3
	StartBrk  field.Maybe[uint64] `json:"start_brk" yaml:"start_brk"`   // 3.3
	ArgStart  field.Maybe[uint64] `json:"arg_start" yaml:"arg_start"`   // 3.5
	ArgEnd    field.Maybe[uint64] `json:"arg_end" yaml:"arg_end"`       // 3.5
	EnvStart  field.Maybe[uint64] `json:"env_start" yaml:"env_start"`   // 3.5
	EnvEnd    field.Maybe[uint64] `json:"env_end" yaml:"env_end"`       // 3.5
	ExitCode  field.Maybe[int32]  `json:"exit_code" yaml:"exit_code"`   // 3.5
}

func (t *StatTail) slots() []field.Slot {
	return []field.Slot{
		field.Into(&t.StartData, "start_data", field.Uint64),
		field.Into(&t.EndData, "end_data", field.Uint64),
		field.Into(&t.StartBrk, "start_brk", field.Uint64),
		field.Into(&t.ArgStart, "arg_start", field.Uint64),
		field.Into(&t.ArgEnd, "arg_end", field.Uint64),
		field.Into(&t.EnvStart, "env_start", field.Uint64),
		field.Into(&t.EnvEnd, "env_end", field.Uint64),
		field.Into(&t.ExitCode, "exit_code", field.Int32),
	}
}

// StatusLine is the single line of /proc/[pid]/stat or /proc/[pid]/task/[tid]/stat.
// See proc(5) for the meaning of each column.
type StatusLine struct {
	PID                 int32        `json:"pid" yaml:"pid"`
	Comm                string       `json:"comm" yaml:"comm"`
	State               ProcessState `json:"state" yaml:"state"`
	PPID                int32        `json:"ppid" yaml:"ppid"`
	PGRP                int32        `json:"pgrp" yaml:"pgrp"`
	Session             int32        `json:"session" yaml:"session"`
	TTYNr               int32        `json:"tty_nr" yaml:"tty_nr"`
	TPGID               int32        `json:"tpgid" yaml:"tpgid"`
	Flags               uint32       `json:"flags" yaml:"flags"`
	MinFlt              uint64       `json:"minflt" yaml:"minflt"`
	CMinFlt             uint64       `json:"cminflt" yaml:"cminflt"`
	MajFlt              uint64       `json:"majflt" yaml:"majflt"`
	CMajFlt             uint64       `json:"cmajflt" yaml:"cmajflt"`
	UTime               uint64       `json:"utime" yaml:"utime"`
	STime               uint64       `json:"stime" yaml:"stime"`
	CUTime              int64        `json:"cutime" yaml:"cutime"`
	CSTime              int64        `json:"cstime" yaml:"cstime"`
	Priority            int64        `json:"priority" yaml:"priority"`
	Nice                int64        `json:"nice" yaml:"nice"`
	NumThreads          int64        `json:"num_threads" yaml:"num_threads"`
	ItRealValue         int64        `json:"itrealvalue" yaml:"itrealvalue"`
	StartTime           uint64       `json:"starttime" yaml:"starttime"`
	VSize               uint64       `json:"vsize" yaml:"vsize"`
	RSS                 int64        `json:"rss" yaml:"rss"`
	RSSLim              uint64       `json:"rsslim" yaml:"rsslim"`
	StartCode           uint64       `json:"startcode" yaml:"startcode"`
	EndCode             uint64       `json:"endcode" yaml:"endcode"`
	StartStack          uint64       `json:"startstack" yaml:"startstack"`
	KStkESP             uint64       `json:"kstkesp" yaml:"kstkesp"`
	KStkEIP             uint64       `json:"kstkeip" yaml:"kstkeip"`
	Signal              uint64       `json:"signal" yaml:"signal"`
	Blocked             uint64       `json:"blocked" yaml:"blocked"`
	SigIgnore           uint64       `json:"sigignore" yaml:"sigignore"`
	SigCatch            uint64       `json:"sigcatch" yaml:"sigcatch"`
	WChan               uint64       `json:"wchan" yaml:"wchan"`
	NSwap               uint64       `json:"nswap" yaml:"nswap"`
	CNSwap              uint64       `json:"cnswap" yaml:"cnswap"`
	ExitSignal          int32        `json:"exit_signal" yaml:"exit_signal"`
	Processor           int32        `json:"processor" yaml:"processor"`
	RTPriority          uint32       `json:"rt_priority" yaml:"rt_priority"`
	Policy              uint32       `json:"policy" yaml:"policy"`
	DelayAcctBlkioTicks uint64       `json:"delayacct_blkio_ticks" yaml:"delayacct_blkio_ticks"`
	GuestTime           uint64       `json:"guest_time" yaml:"guest_time"`
	CGuestTime          int64        `json:"cguest_time" yaml:"cguest_time"`

	Tail StatTail `json:"tail" yaml:"tail"`
}

// ParseStatusLine decodes a stat line. The command name is everything between
// the first '(' and the last ')', so names containing spaces or parentheses
// survive intact.
func ParseStatusLine(line string) (StatusLine, error) {
	line = strings.TrimSpace(line)
	before, comm, after, ok := token.Enclosed(line, '(', ')')
	if !ok {
		return StatusLine{}, procerr.Malformed("comm", line, "command name is not enclosed in parentheses")
	}

	pid := token.Fields(before)
	if err := pid.Expect(1, "pid"); err != nil {
		return StatusLine{}, err
	}

	var s StatusLine
	var err error
	if s.PID, err = field.Int32(pid[0], "pid"); err != nil {
		return StatusLine{}, err
	}
	s.Comm = comm

	r := field.NewReader(token.Fields(after), 2)
	s.State = field.Take(r, "state", stateVocabulary.Parse)
	s.PPID = r.Int32("ppid")
	s.PGRP = r.Int32("pgrp")
	s.Session = r.Int32("session")
	s.TTYNr = r.Int32("tty_nr")
	s.TPGID = r.Int32("tpgid")
	s.Flags = r.Uint32("flags")
	s.MinFlt = r.Uint64("minflt")
	s.CMinFlt = r.Uint64("cminflt")
	s.MajFlt = r.Uint64("majflt")
	s.CMajFlt = r.Uint64("cmajflt")
	s.UTime = r.Uint64("utime")
	s.STime = r.Uint64("stime")
	s.CUTime = r.Int64("cutime")
	s.CSTime = r.Int64("cstime")
	s.Priority = r.Int64("priority")
	s.Nice = r.Int64("nice")
	s.NumThreads = r.Int64("num_threads")
	s.ItRealValue = r.Int64("itrealvalue")
	s.StartTime = r.Uint64("starttime")
	s.VSize = r.Uint64("vsize")
	s.RSS = r.Int64("rss")
	s.RSSLim = r.Uint64("rsslim")
	s.StartCode = r.Uint64("startcode")
	s.EndCode = r.Uint64("endcode")
	s.StartStack = r.Uint64("startstack")
	s.KStkESP = r.Uint64("kstkesp")
	s.KStkEIP = r.Uint64("kstkeip")
	s.Signal = r.Uint64("signal")
	s.Blocked = r.Uint64("blocked")
	s.SigIgnore = r.Uint64("sigignore")
	s.SigCatch = r.Uint64("sigcatch")
	s.WChan = r.Uint64("wchan")
	s.NSwap = r.Uint64("nswap")
	s.CNSwap = r.Uint64("cnswap")
	s.ExitSignal = r.Int32("exit_signal")
	s.Processor = r.Int32("processor")
	s.RTPriority = r.Uint32("rt_priority")
	s.Policy = r.Uint32("policy")
	s.DelayAcctBlkioTicks = r.Uint64("delayacct_blkio_ticks")
	s.GuestTime = r.Uint64("guest_time")
	s.CGuestTime = r.Int64("cguest_time")
	if err := r.Err(); err != nil {
		return StatusLine{}, err
	}

	if _, err := field.Tail(r.Rest(), "stat_tail", s.Tail.slots()...); err != nil {
		return StatusLine{}, err
	}
	return s, nil
}

// ParseStat decodes a whole stat file, which holds exactly one line.
func ParseStat(text string) (StatusLine, error) {
	lines := token.Lines(text)
	if len(lines) != 1 {
		return StatusLine{}, &procerr.Error{Kind: procerr.KindMalformed, Format: "stat", Field: "line", Expected: 1, Found: len(lines), Msg: "expected exactly one line"}
	}
	s, err := ParseStatusLine(lines[0])
	if err != nil {
		return StatusLine{}, procerr.At(err, "stat", 1)
	}
	return s, nil
}

// TailColumns reports how many version-optional columns the kernel printed.
func (s StatusLine) TailColumns() int {
	n := 0
	for _, valid := range []bool{
		s.Tail.StartData.Valid, s.Tail.EndData.Valid, s.Tail.StartBrk.Valid,
		s.Tail.ArgStart.Valid, s.Tail.ArgEnd.Valid, s.Tail.EnvStart.Valid,
		s.Tail.EnvEnd.Valid, s.Tail.ExitCode.Valid,
	} {
		if valid {
			n++
		}
	}
	return n
}
