package system

import (
	"strconv"
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Processor is one "processor : N" block of /proc/cpuinfo. The typed fields
// follow the x86 layout; every key the decoder has no field for is kept in
// Other in file order.
type Processor struct {
	Index     uint32               `json:"processor" yaml:"processor"`
	VendorID  string               `json:"vendor_id,omitempty" yaml:"vendor_id,omitempty"`
	Family    field.Maybe[uint32]  `json:"cpu_family" yaml:"cpu_family"`
	Model     field.Maybe[uint32]  `json:"model" yaml:"model"`
	ModelName string               `json:"model_name,omitempty" yaml:"model_name,omitempty"`
	Stepping  field.Maybe[uint32]  `json:"stepping" yaml:"stepping"`
	Microcode field.Maybe[uint64]  `json:"microcode" yaml:"microcode"`
	MHz       field.Maybe[float64] `json:"cpu_mhz" yaml:"cpu_mhz"`
	CacheKB   field.Maybe[uint64]  `json:"cache_size_kb" yaml:"cache_size_kb"`

	PhysicalID    field.Maybe[uint32] `json:"physical_id" yaml:"physical_id"`
	Siblings      field.Maybe[uint32] `json:"siblings" yaml:"siblings"`
	CoreID        field.Maybe[uint32] `json:"core_id" yaml:"core_id"`
	CpuCores      field.Maybe[uint32] `json:"cpu_cores" yaml:"cpu_cores"`
	APICID        field.Maybe[uint32] `json:"apicid" yaml:"apicid"`
	InitialAPICID field.Maybe[uint32] `json:"initial_apicid" yaml:"initial_apicid"`

	FPU          field.Maybe[bool]  `json:"fpu" yaml:"fpu"`
	FPUException field.Maybe[bool]  `json:"fpu_exception" yaml:"fpu_exception"`
	CpuidLevel   field.Maybe[int64] `json:"cpuid_level" yaml:"cpuid_level"`
	WP           field.Maybe[bool]  `json:"wp" yaml:"wp"`

	Flags    []string             `json:"flags" yaml:"flags"`
	Bugs     []string             `json:"bugs" yaml:"bugs"`
	BogoMIPS field.Maybe[float64] `json:"bogomips" yaml:"bogomips"`

	ClflushSize     field.Maybe[uint32]       `json:"clflush_size" yaml:"clflush_size"`
	CacheAlignment  field.Maybe[uint32]       `json:"cache_alignment" yaml:"cache_alignment"`
	AddressSizes    field.Maybe[AddressSizes] `json:"address_sizes" yaml:"address_sizes"`
	PowerManagement []string                  `json:"power_management" yaml:"power_management"`

	Other []Entry `json:"other,omitempty" yaml:"other,omitempty"`
}

// HasFlag reports whether the processor lists flag in its flags line.
func (p Processor) HasFlag(flag string) bool {
	for _, f := range p.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddressSizes is "39 bits physical, 48 bits virtual".
type AddressSizes struct {
	Physical uint32 `json:"physical" yaml:"physical"`
	Virtual  uint32 `json:"virtual" yaml:"virtual"`
}

func (a AddressSizes) String() string {
	return strconv.FormatUint(uint64(a.Physical), 10) + "/" + strconv.FormatUint(uint64(a.Virtual), 10)
}

// CpuInfo is /proc/cpuinfo. Machine collects the entries of blocks without a
// processor key, such as the Hardware/Revision/Serial trailer on ARM.
type CpuInfo struct {
	Processors []Processor `json:"processors" yaml:"processors"`
	Machine    []Entry     `json:"machine,omitempty" yaml:"machine,omitempty"`
}

// Packages counts the distinct physical ids. Processors without one are
// counted as a single package.
func (c CpuInfo) Packages() int {
	ids := map[uint32]bool{}
	unknown := false
	for _, p := range c.Processors {
		if id, ok := p.PhysicalID.Get(); ok {
			ids[id] = true
		} else {
			unknown = true
		}
	}
	if unknown && len(ids) == 0 {
		return 1
	}
	return len(ids)
}

func textSlot(dst *string) field.Slot {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func wordsSlot(dst *[]string) field.Slot {
	return func(v string) error {
		*dst = strings.Fields(v)
		return nil
	}
}

// parsePrefixedHex decodes a 0x-prefixed hex number.
func parsePrefixedHex(tok, name string) (uint64, error) {
	hex, ok := strings.CutPrefix(tok, "0x")
	if !ok {
		return 0, procerr.Malformed(name, tok, "expected 0x prefix")
	}
	return field.Hex64(hex, name)
}

// parseCacheSize decodes "512 KB".
func parseCacheSize(tok, name string) (uint64, error) {
	toks := token.Fields(tok)
	if err := toks.Expect(2, name); err != nil {
		return 0, err
	}
	if toks[1] != "KB" {
		return 0, procerr.Malformed(name, toks[1], "expected unit KB")
	}
	return field.Uint64(toks[0], name)
}

func parseAddressSizes(tok, name string) (AddressSizes, error) {
	toks := token.Fields(tok)
	if err := toks.Expect(6, name); err != nil {
		return AddressSizes{}, err
	}
	if got := strings.Join(toks[1:3], " ") + " " + strings.Join(toks[4:], " "); got != "bits physical, bits virtual" {
		return AddressSizes{}, procerr.Malformed(name, tok, "expected \"N bits physical, M bits virtual\"")
	}
	phys, err := field.Uint32(toks[0], name)
	if err != nil {
		return AddressSizes{}, err
	}
	virt, err := field.Uint32(toks[3], name)
	if err != nil {
		return AddressSizes{}, err
	}
	return AddressSizes{Physical: phys, Virtual: virt}, nil
}

func (p *Processor) slots() map[string]field.Slot {
	return map[string]field.Slot{
		"vendor_id":  textSlot(&p.VendorID),
		"cpu family": field.Into(&p.Family, "cpu_family", field.Uint32),
		"model":      field.Into(&p.Model, "model", field.Uint32),
		"model name": textSlot(&p.ModelName),
		"stepping": func(v string) error {
			if v == "unknown" {
				return nil
			}
			return field.Into(&p.Stepping, "stepping", field.Uint32)(v)
		},
		"microcode":  field.Into(&p.Microcode, "microcode", parsePrefixedHex),
		"cpu MHz":    field.Into(&p.MHz, "cpu_mhz", field.Float64),
		"cache size": field.Into(&p.CacheKB, "cache_size", parseCacheSize),

		"physical id":    field.Into(&p.PhysicalID, "physical_id", field.Uint32),
		"siblings":       field.Into(&p.Siblings, "siblings", field.Uint32),
		"core id":        field.Into(&p.CoreID, "core_id", field.Uint32),
		"cpu cores":      field.Into(&p.CpuCores, "cpu_cores", field.Uint32),
		"apicid":         field.Into(&p.APICID, "apicid", field.Uint32),
		"initial apicid": field.Into(&p.InitialAPICID, "initial_apicid", field.Uint32),

		"fpu":           field.Into(&p.FPU, "fpu", field.YesNo.Parse),
		"fpu_exception": field.Into(&p.FPUException, "fpu_exception", field.YesNo.Parse),
		"cpuid level":   field.Into(&p.CpuidLevel, "cpuid_level", field.Int64),
		"wp":            field.Into(&p.WP, "wp", field.YesNo.Parse),

		"flags":    wordsSlot(&p.Flags),
		"bugs":     wordsSlot(&p.Bugs),
		"bogomips": field.Into(&p.BogoMIPS, "bogomips", field.Float64),

		"clflush size":     field.Into(&p.ClflushSize, "clflush_size", field.Uint32),
		"cache_alignment":  field.Into(&p.CacheAlignment, "cache_alignment", field.Uint32),
		"address sizes":    field.Into(&p.AddressSizes, "address_sizes", parseAddressSizes),
		"power management": wordsSlot(&p.PowerManagement),
	}
}

// parseProcessor decodes one block and returns the index of the failing
// entry on error.
func parseProcessor(entries []Entry) (Processor, int, error) {
	var p Processor
	slots := p.slots()
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if seen[e.Key] {
			return Processor{}, i, procerr.Malformed("key", e.Key, "duplicate key")
		}
		seen[e.Key] = true

		if e.Key == "processor" {
			idx, err := field.Uint32(e.Value, "processor")
			if err != nil {
				return Processor{}, i, err
			}
			p.Index = idx
			continue
		}
		if slot, ok := slots[e.Key]; ok {
			if err := slot(e.Value); err != nil {
				return Processor{}, i, err
			}
			continue
		}
		p.Other = append(p.Other, e)
	}
	return p, 0, nil
}

// ParseCpuInfo decodes /proc/cpuinfo. At least one processor block is
// required.
func ParseCpuInfo(text string) (CpuInfo, error) {
	blocks, err := entryBlocks(text, ':', "cpuinfo")
	if err != nil {
		return CpuInfo{}, err
	}
	var c CpuInfo
	for _, b := range blocks {
		if _, ok := lookup(b.entries, "processor"); !ok {
			c.Machine = append(c.Machine, b.entries...)
			continue
		}
		p, n, err := parseProcessor(b.entries)
		if err != nil {
			return CpuInfo{}, procerr.At(err, "cpuinfo", b.line+n)
		}
		c.Processors = append(c.Processors, p)
	}
	if len(c.Processors) == 0 {
		return CpuInfo{}, &procerr.Error{Kind: procerr.KindMalformed, Format: "cpuinfo", Field: "processor", Msg: "no processor block"}
	}
	return c, nil
}
