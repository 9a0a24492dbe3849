package system

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Resource is one "start-end : name" line of /proc/ioports or /proc/iomem.
// Depth is the nesting level given by two spaces of indentation per level
// and Parent the index of the enclosing range, -1 at the top level. Without
// CAP_SYS_ADMIN iomem prints every range as zeros.
type Resource struct {
	Start  uint64 `json:"start" yaml:"start"`
	End    uint64 `json:"end" yaml:"end"`
	Name   string `json:"name" yaml:"name"`
	Depth  int    `json:"depth" yaml:"depth"`
	Parent int    `json:"parent" yaml:"parent"`
}

// Size is the inclusive length of the range.
func (r Resource) Size() uint64 {
	return r.End - r.Start + 1
}

func (r Resource) Contains(addr uint64) bool {
	return addr >= r.Start && addr <= r.End
}

// Resources is a resource tree flattened in file order.
type Resources []Resource

// Children returns the indices of the ranges directly nested in entry i.
func (rs Resources) Children(i int) []int {
	var out []int
	for j := i + 1; j < len(rs) && rs[j].Depth > rs[i].Depth; j++ {
		if rs[j].Parent == i {
			out = append(out, j)
		}
	}
	return out
}

// Find returns the innermost range holding addr.
func (rs Resources) Find(addr uint64) (Resource, bool) {
	best := -1
	for i, r := range rs {
		if r.Contains(addr) && (best < 0 || r.Depth > rs[best].Depth) {
			best = i
		}
	}
	if best < 0 {
		return Resource{}, false
	}
	return rs[best], true
}

const resourceIndent = 2

// ParseResource decodes one line without checking its place in the tree.
// The name is everything after the first " : " and may contain colons.
func ParseResource(line string) (Resource, error) {
	body := strings.TrimLeft(line, " ")
	indent := len(line) - len(body)
	if indent%resourceIndent != 0 {
		return Resource{}, procerr.Malformed("indent", line, "indentation of %d spaces is not a multiple of %d", indent, resourceIndent)
	}
	span, name, ok := strings.Cut(body, " : ")
	if !ok {
		return Resource{}, procerr.Malformed("range", body, "missing \" : \" separator")
	}
	bounds := token.Split(span, '-')
	if err := bounds.Expect(2, "range"); err != nil {
		return Resource{}, err
	}
	start, err := field.Hex64(bounds[0], "start")
	if err != nil {
		return Resource{}, err
	}
	end, err := field.Hex64(bounds[1], "end")
	if err != nil {
		return Resource{}, err
	}
	if end < start {
		return Resource{}, procerr.Malformed("end", bounds[1], "range ends before %s", bounds[0])
	}
	return Resource{Start: start, End: end, Name: strings.TrimSpace(name), Depth: indent / resourceIndent, Parent: -1}, nil
}

// ParseResources decodes /proc/ioports or /proc/iomem, named by format. A
// line may nest at most one level deeper than the line before it and must
// lie inside its parent's range.
func ParseResources(text, format string) (Resources, error) {
	lines := token.Lines(text)
	out := make(Resources, 0, len(lines))
	var stack []int
	for i, line := range lines {
		r, err := ParseResource(line)
		if err != nil {
			return nil, procerr.At(err, format, i+1)
		}
		if r.Depth > len(stack) {
			return nil, procerr.At(procerr.Malformed("indent", line, "indented %d levels, at most %d allowed", r.Depth, len(stack)), format, i+1)
		}
		stack = stack[:r.Depth]
		if r.Depth > 0 {
			p := stack[r.Depth-1]
			if !out[p].Contains(r.Start) || !out[p].Contains(r.End) {
				return nil, procerr.At(procerr.Malformed("range", line, "outside parent range %x-%x", out[p].Start, out[p].End), format, i+1)
			}
			r.Parent = p
		}
		stack = append(stack, len(out))
		out = append(out, r)
	}
	return out, nil
}
