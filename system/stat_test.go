package system

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

const sampleStat = `cpu  3321955 860 1356594 496669212 37722 0 19000 0 0 0
cpu0 1663503 446 679198 248162881 18470 0 11461 0 0 0
cpu1 1658451 413 677395 248506330 19252 0 7539 0 0 0
intr 265018021 51 4 0 0 0 0 0 0 0 0 0 0 6 0 0 0 0 38498825 0
ctxt 331738534
btime 1572024946
processes 3312700
procs_running 1
procs_blocked 0
softirq 298297245 3 133941424 620453 5325395 1833481 0 38653917 73984142 0 43938430
`

func TestParseSystemStat(t *testing.T) {
	got, err := ParseSystemStat(sampleStat)
	if err != nil {
		t.Fatalf("ParseSystemStat: %v", err)
	}

	want := SystemStat{
		Cpu: fullTally(3321955, 860, 1356594, 496669212, 37722, 0, 19000, 0, 0, 0),
		Cores: []CpuTally{
			fullTally(1663503, 446, 679198, 248162881, 18470, 0, 11461, 0, 0, 0),
			fullTally(1658451, 413, 677395, 248506330, 19252, 0, 7539, 0, 0, 0),
		},
		Intr:         Counts{265018021, 51, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 6, 0, 0, 0, 0, 38498825, 0},
		Ctxt:         331738534,
		BootTime:     1572024946,
		Processes:    3312700,
		ProcsRunning: 1,
		ProcsBlocked: 0,
		SoftIRQ:      Counts{298297245, 3, 133941424, 620453, 5325395, 1833481, 0, 38653917, 73984142, 0, 43938430},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if got.Intr.Total() != 265018021 || len(got.Intr.PerSource()) != 19 {
		t.Errorf("intr total/per-source = %d/%d", got.Intr.Total(), len(got.Intr.PerSource()))
	}
	if !got.BootTimeAt().Equal(time.Unix(1572024946, 0)) {
		t.Errorf("BootTimeAt = %v", got.BootTimeAt())
	}
	if got.Cpu.UserTime() != 3321955+860 {
		t.Errorf("UserTime = %d", got.Cpu.UserTime())
	}
	if got.Cpu.SystemTime() != 1356594+19000 {
		t.Errorf("SystemTime = %d", got.Cpu.SystemTime())
	}
	if got.Cpu.CpuTime() != 3321955+860+1356594+496669212+37722+19000 {
		t.Errorf("CpuTime = %d", got.Cpu.CpuTime())
	}
}

func fullTally(user, nice, system, idle, iowait, irq, softirq, steal, guest, guestNice uint64) CpuTally {
	return CpuTally{
		User: user, Nice: nice, System: system, Idle: idle,
		IOWait:    field.Some(iowait),
		IRQ:       field.Some(irq),
		SoftIRQ:   field.Some(softirq),
		Steal:     field.Some(steal),
		Guest:     field.Some(guest),
		GuestNice: field.Some(guestNice),
	}
}

func TestParseCpuTallyColumns(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		columns int
		wantErr bool
	}{
		{name: "2.4 kernel", line: "1 2 3 4", columns: 4},
		{name: "without guest", line: "1 2 3 4 5 6 7 8", columns: 8},
		{name: "all", line: "1 2 3 4 5 6 7 8 9 10", columns: 10},
		{name: "too few", line: "1 2 3", wantErr: true},
		{name: "too many", line: "1 2 3 4 5 6 7 8 9 10 11", wantErr: true},
		{name: "negative", line: "1 2 -3 4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCpuTally(token.Fields(tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Columns() != tt.columns {
				t.Errorf("Columns = %d, want %d", got.Columns(), tt.columns)
			}
		})
	}
}

func TestCpuTallyAbsentColumns(t *testing.T) {
	old, err := ParseCpuTally(token.Fields("10 20 30 40"))
	if err != nil {
		t.Fatal(err)
	}
	if old.IOWait.Valid || old.Steal.Valid || old.GuestNice.Valid {
		t.Errorf("columns the kernel did not print decoded as present: %+v", old)
	}

	zero, err := ParseCpuTally(token.Fields("10 20 30 40 0 0 0 0"))
	if err != nil {
		t.Fatal(err)
	}
	if !zero.IOWait.Valid || zero.IOWait.Value != 0 || !zero.Steal.Valid {
		t.Errorf("printed zero decoded as absent: %+v", zero)
	}
	if zero.Guest.Valid || zero.GuestNice.Valid {
		t.Errorf("guest columns should be absent: %+v", zero)
	}
	if old.CpuTime() != 100 || zero.CpuTime() != 100 {
		t.Errorf("CpuTime = %d / %d", old.CpuTime(), zero.CpuTime())
	}
}

func TestParseSystemStatOrder(t *testing.T) {
	lines := token.Lines(sampleStat)

	tests := []struct {
		name      string
		text      string
		wantLine  int
		wantField string
	}{
		{
			name:      "core gap",
			text:      strings.Replace(sampleStat, "cpu1 ", "cpu2 ", 1),
			wantLine:  3,
			wantField: "cpu",
		},
		{
			name:      "cores out of order",
			text:      strings.Join([]string{lines[0], lines[2], lines[1]}, "\n"),
			wantLine:  2,
			wantField: "cpu",
		},
		{
			name:      "softirq missing",
			text:      strings.Join(lines[:len(lines)-1], "\n"),
			wantField: "softirq",
		},
		{
			name:      "procs lines swapped",
			text:      strings.Join(append(append(append([]string{}, lines[:7]...), lines[8], lines[7]), lines[9]), "\n"),
			wantLine:  8,
			wantField: "procs_running",
		},
		{
			name:      "line after softirq",
			text:      sampleStat + "extra 1\n",
			wantLine:  11,
			wantField: "softirq",
		},
		{
			name:      "no cpu line",
			text:      strings.Join(lines[1:], "\n"),
			wantLine:  1,
			wantField: "cpu",
		},
		{
			name:      "bad ctxt",
			text:      strings.Replace(sampleStat, "ctxt 331738534", "ctxt x", 1),
			wantLine:  5,
			wantField: "ctxt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSystemStat(tt.text)
			var pe *procerr.Error
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *procerr.Error", err)
			}
			if pe.Field != tt.wantField {
				t.Errorf("field = %q, want %q", pe.Field, tt.wantField)
			}
			if tt.wantLine != 0 && pe.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", pe.Line, tt.wantLine)
			}
			if got.Cores != nil || got.Intr != nil {
				t.Error("partial result returned")
			}
		})
	}
}
