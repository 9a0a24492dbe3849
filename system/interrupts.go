package system

import (
	"strconv"
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// InterruptRow is either a DeviceInterrupt or an InternalInterrupt.
type InterruptRow interface {
	PerCore() []uint64
	interruptRow()
}

// DeviceInterrupt is a numbered IRQ line such as
// "4:  10  20  IO-APIC-edge  ttyS0".
type DeviceInterrupt struct {
	IRQ    uint64   `json:"irq" yaml:"irq"`
	Counts []uint64 `json:"counts" yaml:"counts"`
	TypeOf string   `json:"type_of" yaml:"type_of"` // controller, pin and trigger mode
	Device string   `json:"device" yaml:"device"`
}

// InternalInterrupt is an architecture-specific row named by a symbol such as
// NMI or LOC.
type InternalInterrupt struct {
	Name   string   `json:"name" yaml:"name"`
	Counts []uint64 `json:"counts" yaml:"counts"`
	Detail string   `json:"detail" yaml:"detail"`
}

func (d DeviceInterrupt) PerCore() []uint64   { return d.Counts }
func (i InternalInterrupt) PerCore() []uint64 { return i.Counts }

func (DeviceInterrupt) interruptRow()   {}
func (InternalInterrupt) interruptRow() {}

// TypeDevice is the whole free-text tail, type and device rejoined.
func (d DeviceInterrupt) TypeDevice() string {
	return strings.TrimSpace(d.TypeOf + " " + d.Device)
}

// singleCountRows are the internal rows that print one system-wide counter
// regardless of the core count.
var singleCountRows = map[string]bool{"ERR": true, "MIS": true}

// ParseInterruptRow decodes one row of /proc/interrupts for a file whose
// header declared cores CPU columns.
func ParseInterruptRow(line string, cores int) (InterruptRow, error) {
	toks := token.Fields(line)
	label, err := toks.At(0, "irq")
	if err != nil {
		return nil, err
	}
	label = strings.TrimSuffix(label, ":")
	rest := toks.From(1)

	if irq, err := strconv.ParseUint(label, 10, 64); err == nil {
		counts, err := perCore(rest, cores, label)
		if err != nil {
			return nil, err
		}
		typeOf, device := splitDevice(rest.From(cores))
		return DeviceInterrupt{IRQ: irq, Counts: counts, TypeOf: typeOf, Device: device}, nil
	}

	if label == "" {
		return nil, procerr.Malformed("irq", toks[0], "empty interrupt name")
	}
	n := cores
	if singleCountRows[label] {
		n = 1
	}
	counts, err := perCore(rest, n, label)
	if err != nil {
		return nil, err
	}
	return InternalInterrupt{Name: label, Counts: counts, Detail: rest.From(n).Join()}, nil
}

func perCore(toks token.List, n int, name string) ([]uint64, error) {
	if err := toks.AtLeast(n, name); err != nil {
		return nil, err
	}
	counts := make([]uint64, n)
	for i := range counts {
		v, err := field.Uint64(toks[i], name)
		if err != nil {
			return nil, err
		}
		counts[i] = v
	}
	return counts, nil
}

// splitDevice takes the last token as the device name, extended backwards
// over comma-separated shared handlers ("ehci_hcd:usb1, uhci_hcd:usb2").
// A device name with spaces can't be told apart from the type, so only its
// last word lands in device: "IO-APIC-edge PS/2 Mouse" splits into type
// "IO-APIC-edge PS/2" and device "Mouse". TypeDevice rejoins the two.
func splitDevice(tail token.List) (typeOf, device string) {
	if len(tail) == 0 {
		return "", ""
	}
	start := len(tail) - 1
	for start > 1 && strings.HasSuffix(tail[start-1], ",") {
		start--
	}
	return tail[:start].Join(), tail.From(start).Join()
}

// Interrupts is /proc/interrupts.
type Interrupts struct {
	Cores int            `json:"cores" yaml:"cores"`
	Rows  []InterruptRow `json:"rows" yaml:"rows"`
}

// Devices returns the numbered rows in file order.
func (in Interrupts) Devices() []DeviceInterrupt {
	var out []DeviceInterrupt
	for _, r := range in.Rows {
		if d, ok := r.(DeviceInterrupt); ok {
			out = append(out, d)
		}
	}
	return out
}

// Internals returns the symbolic rows in file order.
func (in Interrupts) Internals() []InternalInterrupt {
	var out []InternalInterrupt
	for _, r := range in.Rows {
		if i, ok := r.(InternalInterrupt); ok {
			out = append(out, i)
		}
	}
	return out
}

// ParseInterrupts decodes /proc/interrupts. The header line names one column
// per online CPU.
func ParseInterrupts(text string) (Interrupts, error) {
	lines := token.Lines(text)
	if len(lines) == 0 {
		return Interrupts{}, &procerr.Error{Kind: procerr.KindMalformed, Format: "interrupts", Field: "header", Msg: "empty source"}
	}

	header := token.Fields(lines[0])
	if len(header) == 0 {
		return Interrupts{}, &procerr.Error{Kind: procerr.KindMalformed, Format: "interrupts", Line: 1, Field: "header", Msg: "no cpu columns"}
	}
	for _, col := range header {
		if !strings.HasPrefix(col, "CPU") {
			return Interrupts{}, procerr.At(procerr.Malformed("header", col, "expected CPUn column"), "interrupts", 1)
		}
	}

	in := Interrupts{Cores: len(header), Rows: make([]InterruptRow, 0, len(lines)-1)}
	for i, line := range lines[1:] {
		row, err := ParseInterruptRow(line, in.Cores)
		if err != nil {
			return Interrupts{}, procerr.At(err, "interrupts", i+2)
		}
		in.Rows = append(in.Rows, row)
	}
	return in, nil
}
