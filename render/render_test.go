package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"procread/field"
	"procread/process/memory_map"
	"procread/system"
)

func TestTableAlignment(t *testing.T) {
	tb := NewTable(Column{Header: "NAME"}, Column{Header: "N", Right: true}, Column{Header: "NOTE"})
	tb.AddRow("sda", "12")
	tb.AddRow("nvme0n1", "3", "boot")

	var buf bytes.Buffer
	if err := tb.Render(&buf); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"NAME    N  NOTE",
		"------- -- ----",
		"sda     12 -",
		"nvme0n1  3 boot",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if tb.Len() != 2 {
		t.Errorf("Len = %d", tb.Len())
	}
}

func TestVisibleLength(t *testing.T) {
	if n := visibleLength("\033[31mred\033[0m"); n != 3 {
		t.Errorf("visibleLength = %d, want 3", n)
	}
}

func TestFlatten(t *testing.T) {
	b := system.BuddyInfo{NodeZone: system.NodeZone{Node: 1, Zone: "Normal"}, Free: []uint64{1, 2, 3}}
	want := []Cell{{"node", "1"}, {"zone", "Normal"}, {"free", "1 2 3"}}
	if diff := cmp.Diff(want, Flatten(b)); diff != "" {
		t.Errorf("embedded struct mismatch (-want +got):\n%s", diff)
	}

	m := memory_map.MemoryMapping{
		Start: 0x1000, End: 0x2000,
		Perms:  memory_map.Perms{Read: true, Execute: true},
		Device: memory_map.Device{Major: 8, Minor: 1},
		Path:   memory_map.Heap{},
	}
	got := map[string]string{}
	for _, c := range Flatten(m) {
		got[c.Name] = c.Value
	}
	if got["perms"] != "r-xp" || got["path"] != "[heap]" || got["device"] != "08:01" {
		t.Errorf("stringer fields = %v", got)
	}

	d := system.DiskStat{Name: "sda", DiscardsCompleted: field.Some[uint64](4)}
	got = map[string]string{}
	for _, c := range Flatten(d) {
		got[c.Name] = c.Value
	}
	if got["discards_completed"] != "4" || got["flush_time_ms"] != "-" {
		t.Errorf("optional fields = %q / %q", got["discards_completed"], got["flush_time_ms"])
	}
}

func TestRecordsUnion(t *testing.T) {
	in, err := system.ParseInterrupts("  CPU0\n  0: 5 IO-APIC 2-edge timer\nNMI: 7 Non-maskable interrupts\n")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Records(&buf, in.Rows, Options{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for _, h := range []string{"IRQ", "COUNTS", "TYPE_OF", "DEVICE", "NAME", "DETAIL"} {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header %q missing from %q", h, lines[0])
		}
	}
	if !strings.Contains(lines[3], "Non-maskable interrupts") {
		t.Errorf("internal row = %q", lines[3])
	}

	if err := Records(&buf, 3, Options{}); err == nil {
		t.Error("Records on a non-slice should fail")
	}
}

func TestRecordColor(t *testing.T) {
	var plain, colored bytes.Buffer
	v := system.LoadAvg{One: 0.5, Running: 1}
	if err := Record(&plain, v, Options{}); err != nil {
		t.Fatal(err)
	}
	if err := Record(&colored, v, Options{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\033[") {
		t.Error("plain output carries escapes")
	}
	if colored.String() == plain.String() {
		t.Error("colored output is not decorated")
	}
	if !strings.Contains(plain.String(), "one") || !strings.Contains(plain.String(), "0.5") {
		t.Errorf("output = %q", plain.String())
	}
}
