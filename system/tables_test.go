package system

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"procread/procerr"
)

func TestParseSwaps(t *testing.T) {
	text := "Filename\t\t\t\tType\t\tSize\t\tUsed\t\tPriority\n" +
		"/dev/sda3                               partition\t8388604\t\t1024\t\t-2\n" +
		"/swap\\040file                           file\t\t969964\t\t0\t\t10\n"
	got, err := ParseSwaps(text)
	if err != nil {
		t.Fatalf("ParseSwaps: %v", err)
	}
	want := []Swap{
		{Filename: "/dev/sda3", Type: SwapPartition, SizeKB: 8388604, UsedKB: 1024, Priority: -2},
		{Filename: `/swap\040file`, Type: SwapFile, SizeKB: 969964, UsedKB: 0, Priority: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if free := got[0].Free(); free != 8388604-1024 {
		t.Errorf("Free = %d", free)
	}

	none, err := ParseSwaps("Filename Type Size Used Priority\n")
	if err != nil || len(none) != 0 {
		t.Errorf("header only = %v, %v", none, err)
	}

	tests := []struct {
		name string
		text string
		line int
	}{
		{"no header", "", 1},
		{"wrong header", "Name Type Size Used Priority\n", 1},
		{"unknown type", "Filename Type Size Used Priority\n/dev/zram0 zram 10 0 100\n", 2},
		{"short row", "Filename Type Size Used Priority\n/dev/sda3 partition 10 0\n", 2},
		{"bad priority", "Filename Type Size Used Priority\n/dev/sda3 partition 10 0 high\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSwaps(tt.text)
			var pe *procerr.Error
			if !errors.As(err, &pe) || !errors.Is(err, procerr.ErrMalformed) {
				t.Fatalf("err = %v, want malformed", err)
			}
			if pe.Format != "swaps" || pe.Line != tt.line {
				t.Errorf("location = %s:%d, want swaps:%d", pe.Format, pe.Line, tt.line)
			}
		})
	}
}

func TestParsePartitions(t *testing.T) {
	text := `major minor  #blocks  name

 259        0  500107608 nvme0n1
 259        1     524288 nvme0n1p1
   8       16 1953514584 sdb
`
	got, err := ParsePartitions(text)
	if err != nil {
		t.Fatalf("ParsePartitions: %v", err)
	}
	want := []Partition{
		{Major: 259, Minor: 0, Blocks: 500107608, Name: "nvme0n1"},
		{Major: 259, Minor: 1, Blocks: 524288, Name: "nvme0n1p1"},
		{Major: 8, Minor: 16, Blocks: 1953514584, Name: "sdb"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{
		"major minor blocks name\n\n8 0 1 sda\n",
		"major minor  #blocks  name\n8 0 1 sda\n",
		"major minor  #blocks  name\n\n8 0 1\n",
		"major minor  #blocks  name\n\n8 0 -1 sda\n",
	} {
		if _, err := ParsePartitions(bad); !errors.Is(err, procerr.ErrMalformed) {
			t.Errorf("ParsePartitions(%q) = %v, want malformed", bad, err)
		}
	}
}

func TestParseFilesystems(t *testing.T) {
	text := "nodev\tsysfs\nnodev\ttmpfs\n\text4\n\tvfat\nnodev\tfuse\n"
	got, err := ParseFilesystems(text)
	if err != nil {
		t.Fatalf("ParseFilesystems: %v", err)
	}
	want := []Filesystem{
		{NoDev: true, Type: "sysfs"},
		{NoDev: true, Type: "tmpfs"},
		{Type: "ext4"},
		{Type: "vfat"},
		{NoDev: true, Type: "fuse"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ext4", "vfat"}, BlockDevice(got)); diff != "" {
		t.Errorf("BlockDevice mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"nodev\n", "dev\tsysfs\n", "nodev sysfs extra\n", "\t\n"} {
		if _, err := ParseFilesystems(bad); !errors.Is(err, procerr.ErrMalformed) {
			t.Errorf("ParseFilesystems(%q) = %v, want malformed", bad, err)
		}
	}
}

func TestParseDevices(t *testing.T) {
	text := `Character devices:
  1 mem
  4 /dev/vc/0
 10 misc

Block devices:
  8 sd
259 blkext
`
	got, err := ParseDevices(text)
	if err != nil {
		t.Fatalf("ParseDevices: %v", err)
	}
	want := Devices{
		Character: []Device{{Major: 1, Name: "mem"}, {Major: 4, Name: "/dev/vc/0"}, {Major: 10, Name: "misc"}},
		Block:     []Device{{Major: 8, Name: "sd"}, {Major: 259, Name: "blkext"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		text string
		line int
	}{
		{"one section", "Character devices:\n  1 mem\n", 0},
		{"block title", "Character devices:\n  1 mem\n\nDisk devices:\n  8 sd\n", 4},
		{"bad major", "Character devices:\n  x mem\n\nBlock devices:\n  8 sd\n", 2},
		{"missing name", "Character devices:\n  1 mem\n\nBlock devices:\n  8\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDevices(tt.text)
			var pe *procerr.Error
			if !errors.As(err, &pe) || !errors.Is(err, procerr.ErrMalformed) {
				t.Fatalf("err = %v, want malformed", err)
			}
			if pe.Line != tt.line {
				t.Errorf("line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestParseModules(t *testing.T) {
	text := "hid 110592 2 hid_generic,usbhid, Live 0x0000000000000000\n" +
		"usbhid 53248 0 - Live 0xffffffffc0a4f000\n" +
		"vboxdrv 483328 2 vboxnetadp,vboxnetflt, Live 0x0000000000000000 (OE)\n" +
		"nf_nat 49152 1 - Unloading 0x0000000000000000\n"
	got, err := ParseModules(text)
	if err != nil {
		t.Fatalf("ParseModules: %v", err)
	}
	want := []Module{
		{Name: "hid", Size: 110592, Instances: 2, UsedBy: []string{"hid_generic", "usbhid"}, State: ModuleLive},
		{Name: "usbhid", Size: 53248, Instances: 0, UsedBy: []string{}, State: ModuleLive, Offset: 0xffffffffc0a4f000},
		{Name: "vboxdrv", Size: 483328, Instances: 2, UsedBy: []string{"vboxnetadp", "vboxnetflt"}, State: ModuleLive, Taints: "OE"},
		{Name: "nf_nat", Size: 49152, Instances: 1, UsedBy: []string{}, State: ModuleUnloading},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hid"}, DependenciesOf(got, "usbhid")); diff != "" {
		t.Errorf("DependenciesOf mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"unknown state", "hid 1 0 - Dead 0x0", "state"},
		{"no trailing comma", "hid 1 2 a,b Live 0x0", "used_by"},
		{"empty dependency", "hid 1 2 a,,b, Live 0x0", "used_by"},
		{"offset without prefix", "hid 1 0 - Live ffff", "offset"},
		{"bad taint", "hid 1 0 - Live 0x0 OE", "taints"},
		{"extra column", "hid 1 0 - Live 0x0 (O) x", "modules_tail"},
		{"short", "hid 1 0 -", "state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModule(tt.line)
			var pe *procerr.Error
			if !errors.As(err, &pe) || !errors.Is(err, procerr.ErrMalformed) {
				t.Fatalf("err = %v, want malformed", err)
			}
			if pe.Field != tt.field {
				t.Errorf("field = %q, want %q", pe.Field, tt.field)
			}
		})
	}
}
