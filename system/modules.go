package system

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

type ModuleState string

const (
	ModuleLive      ModuleState = "Live"
	ModuleLoading   ModuleState = "Loading"
	ModuleUnloading ModuleState = "Unloading"
)

var moduleStates = field.Vocabulary[ModuleState]{
	"Live":      ModuleLive,
	"Loading":   ModuleLoading,
	"Unloading": ModuleUnloading,
}

// Module is one line of /proc/modules. UsedBy lists the loaded modules that
// depend on this one. Offset reads as zero without CAP_SYSLOG. Taints holds
// the letters between the parentheses of the optional last column ("OE" for
// "(OE)").
type Module struct {
	Name      string      `json:"name" yaml:"name"`
	Size      uint64      `json:"size" yaml:"size"`
	Instances uint64      `json:"instances" yaml:"instances"`
	UsedBy    []string    `json:"used_by" yaml:"used_by"`
	State     ModuleState `json:"state" yaml:"state"`
	Offset    uint64      `json:"offset" yaml:"offset"`
	Taints    string      `json:"taints,omitempty" yaml:"taints,omitempty"`
}

// parseUsedBy splits "a,b," into its names. "-" means none.
func parseUsedBy(tok, name string) ([]string, error) {
	if tok == "-" {
		return []string{}, nil
	}
	list, ok := strings.CutSuffix(tok, ",")
	if !ok {
		return nil, procerr.Malformed(name, tok, "expected trailing comma")
	}
	deps := strings.Split(list, ",")
	for _, d := range deps {
		if d == "" {
			return nil, procerr.Malformed(name, tok, "empty dependency")
		}
	}
	return deps, nil
}

func parseTaints(tok, name string) (string, error) {
	before, inner, after, ok := token.Enclosed(tok, '(', ')')
	if !ok || before != "" || after != "" || inner == "" {
		return "", procerr.Malformed(name, tok, "expected (FLAGS)")
	}
	return inner, nil
}

func ParseModule(line string) (Module, error) {
	r := field.NewReader(token.Fields(line), 0)
	m := Module{
		Name:      r.Next("name"),
		Size:      r.Uint64("size"),
		Instances: r.Uint64("instances"),
		UsedBy:    field.Take(r, "used_by", parseUsedBy),
		State:     field.Take(r, "state", moduleStates.Parse),
		Offset:    field.Take(r, "offset", parsePrefixedHex),
	}
	if err := r.Err(); err != nil {
		return Module{}, err
	}
	var taints field.Maybe[string]
	if _, err := field.Tail(r.Rest(), "modules_tail", field.Into(&taints, "taints", parseTaints)); err != nil {
		return Module{}, err
	}
	m.Taints = taints.Or("")
	return m, nil
}

// ParseModules decodes /proc/modules.
func ParseModules(text string) ([]Module, error) {
	lines := token.Lines(text)
	out := make([]Module, 0, len(lines))
	for i, line := range lines {
		m, err := ParseModule(line)
		if err != nil {
			return nil, procerr.At(err, "modules", i+1)
		}
		out = append(out, m)
	}
	return out, nil
}

// DependenciesOf lists the modules that name uses, found through their
// used-by columns.
func DependenciesOf(mods []Module, name string) []string {
	var out []string
	for _, m := range mods {
		for _, u := range m.UsedBy {
			if u == name {
				out = append(out, m.Name)
				break
			}
		}
	}
	return out
}
