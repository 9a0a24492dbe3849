package system

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

// SlabCache is one row of /proc/slabinfo (version 2.1).
type SlabCache struct {
	Name         string `json:"name" yaml:"name"`
	ActiveObjs   uint64 `json:"active_objs" yaml:"active_objs"`
	NumObjs      uint64 `json:"num_objs" yaml:"num_objs"`
	ObjSize      uint64 `json:"objsize" yaml:"objsize"`
	ObjPerSlab   uint64 `json:"objperslab" yaml:"objperslab"`
	PagesPerSlab uint64 `json:"pagesperslab" yaml:"pagesperslab"`

	Limit        uint64 `json:"limit" yaml:"limit"`
	BatchCount   uint64 `json:"batchcount" yaml:"batchcount"`
	SharedFactor uint64 `json:"sharedfactor" yaml:"sharedfactor"`

	ActiveSlabs uint64 `json:"active_slabs" yaml:"active_slabs"`
	NumSlabs    uint64 `json:"num_slabs" yaml:"num_slabs"`
	SharedAvail uint64 `json:"sharedavail" yaml:"sharedavail"`
}

// Bytes is the memory held by the cache's objects.
func (c SlabCache) Bytes() uint64 {
	return c.NumObjs * c.ObjSize
}

var slabVersions = field.Vocabulary[string]{"2.1": "2.1"}

var slabColumns = []string{
	"#", "name", "<active_objs>", "<num_objs>", "<objsize>", "<objperslab>", "<pagesperslab>",
	":", "tunables", "<limit>", "<batchcount>", "<sharedfactor>",
	":", "slabdata", "<active_slabs>", "<num_slabs>", "<sharedavail>",
}

// literal consumes a fixed separator token.
func literal(r *field.Reader, want string) {
	field.Take(r, want, func(tok, name string) (struct{}, error) {
		if tok != want {
			return struct{}{}, procerr.Malformed(name, tok, "expected %q", want)
		}
		return struct{}{}, nil
	})
}

func ParseSlabCache(line string) (SlabCache, error) {
	r := field.NewReader(token.Fields(line), 0)
	c := SlabCache{
		Name:         r.Next("name"),
		ActiveObjs:   r.Uint64("active_objs"),
		NumObjs:      r.Uint64("num_objs"),
		ObjSize:      r.Uint64("objsize"),
		ObjPerSlab:   r.Uint64("objperslab"),
		PagesPerSlab: r.Uint64("pagesperslab"),
	}
	literal(r, ":")
	literal(r, "tunables")
	c.Limit = r.Uint64("limit")
	c.BatchCount = r.Uint64("batchcount")
	c.SharedFactor = r.Uint64("sharedfactor")
	literal(r, ":")
	literal(r, "slabdata")
	c.ActiveSlabs = r.Uint64("active_slabs")
	c.NumSlabs = r.Uint64("num_slabs")
	c.SharedAvail = r.Uint64("sharedavail")
	if err := r.Done("slabinfo"); err != nil {
		return SlabCache{}, err
	}
	return c, nil
}

// ParseSlabInfo decodes /proc/slabinfo, which is readable by root only. The
// version line must name a layout this decoder knows.
func ParseSlabInfo(text string) ([]SlabCache, error) {
	lines := token.Lines(text)
	if len(lines) < 2 {
		return nil, &procerr.Error{Kind: procerr.KindMalformed, Format: "slabinfo", Field: "header", Expected: 2, Found: len(lines), Msg: "header lines missing"}
	}
	r := field.NewReader(token.Fields(lines[0]), 0)
	literal(r, "slabinfo")
	literal(r, "-")
	literal(r, "version:")
	field.Take(r, "version", slabVersions.Parse)
	if err := r.Done("version"); err != nil {
		return nil, procerr.At(err, "slabinfo", 1)
	}
	if got := token.Fields(lines[1]); got.Join() != token.List(slabColumns).Join() {
		return nil, procerr.At(procerr.Malformed("header", lines[1], "unexpected column titles"), "slabinfo", 2)
	}

	out := make([]SlabCache, 0, len(lines)-2)
	for i, line := range lines[2:] {
		c, err := ParseSlabCache(line)
		if err != nil {
			return nil, procerr.At(err, "slabinfo", i+3)
		}
		out = append(out, c)
	}
	return out, nil
}
