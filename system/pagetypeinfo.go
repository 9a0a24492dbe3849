package system

import (
	"errors"
	"strconv"
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// MigrateType is the page mobility class of a pageblock.
type MigrateType string

const (
	Unmovable   MigrateType = "Unmovable"
	Movable     MigrateType = "Movable"
	Reclaimable MigrateType = "Reclaimable"
	HighAtomic  MigrateType = "HighAtomic"
	Reserve     MigrateType = "Reserve" // removed in 4.4
	CMA         MigrateType = "CMA"
	Isolate     MigrateType = "Isolate"
)

var migrateTypes = field.Vocabulary[MigrateType]{
	"Unmovable":   Unmovable,
	"Movable":     Movable,
	"Reclaimable": Reclaimable,
	"HighAtomic":  HighAtomic,
	"Reserve":     Reserve,
	"CMA":         CMA,
	"Isolate":     Isolate,
}

// FreeCount is one cell of the free page table. Since 5.5 the kernel stops
// counting at 100000 and prints ">100000"; AtLeast marks such a lower bound.
type FreeCount struct {
	Count   uint64 `json:"count" yaml:"count"`
	AtLeast bool   `json:"at_least,omitempty" yaml:"at_least,omitempty"`
}

func (c FreeCount) String() string {
	s := strconv.FormatUint(c.Count, 10)
	if c.AtLeast {
		return ">" + s
	}
	return s
}

// ParseFreeCount decodes a count with an optional single leading '>'.
func ParseFreeCount(tok, name string) (FreeCount, error) {
	digits, capped := strings.CutPrefix(tok, ">")
	n, err := field.Uint64(digits, name)
	if err != nil {
		return FreeCount{}, procerr.Numeric(name, tok, errors.Unwrap(err))
	}
	return FreeCount{Count: n, AtLeast: capped}, nil
}

// PageTypeBlock is one row of the free page table: free chunk counts indexed
// by allocation order, 0 being a single page.
type PageTypeBlock struct {
	NodeZone `yaml:",inline"`
	Type     MigrateType `json:"type" yaml:"type"`
	Free     []FreeCount `json:"free" yaml:"free"`
}

// BlockTypeCount is one row of the pageblock count table. Counts follow the
// order of PageTypeInfo.BlockTypes.
type BlockTypeCount struct {
	NodeZone `yaml:",inline"`
	Counts   []uint64 `json:"counts" yaml:"counts"`
}

// PageTypeInfo is /proc/pagetypeinfo.
type PageTypeInfo struct {
	PageBlockOrder uint64           `json:"page_block_order" yaml:"page_block_order"`
	PagesPerBlock  uint64           `json:"pages_per_block" yaml:"pages_per_block"`
	Orders         int              `json:"orders" yaml:"orders"`
	FreePages      []PageTypeBlock  `json:"free_pages" yaml:"free_pages"`
	BlockTypes     []MigrateType    `json:"block_types" yaml:"block_types"`
	BlockCounts    []BlockTypeCount `json:"block_counts" yaml:"block_counts"`
}

// Count returns the pageblock count of t in nz.
func (p PageTypeInfo) Count(nz NodeZone, t MigrateType) (uint64, bool) {
	col := -1
	for i, bt := range p.BlockTypes {
		if bt == t {
			col = i
		}
	}
	if col < 0 {
		return 0, false
	}
	for _, row := range p.BlockCounts {
		if row.NodeZone == nz {
			return row.Counts[col], true
		}
	}
	return 0, false
}

const (
	pageTypeBlocks = 3
	freePagesTitle = "Free pages count per migrate type at order"
	blockTypeTitle = "Number of blocks type"
)

// ParsePageTypeInfo decodes /proc/pagetypeinfo: a two line header block, the
// free page table and the pageblock count table, separated by blank lines.
// Both tables must enumerate the same (node, zone) pairs in the same order.
func ParsePageTypeInfo(text string) (PageTypeInfo, error) {
	blocks := token.Blocks(text)
	if len(blocks) != pageTypeBlocks {
		return PageTypeInfo{}, &procerr.Error{
			Kind: procerr.KindMalformed, Format: "pagetypeinfo", Field: "blocks",
			Expected: pageTypeBlocks, Found: len(blocks),
			Msg: "expected " + strconv.Itoa(pageTypeBlocks) + " blank-line separated blocks, found " + strconv.Itoa(len(blocks)),
		}
	}

	for i, b := range blocks {
		if len(b) == 0 {
			return PageTypeInfo{}, &procerr.Error{
				Kind: procerr.KindMalformed, Format: "pagetypeinfo", Field: "blocks",
				Msg: "block " + strconv.Itoa(i+1) + " is empty",
			}
		}
	}

	var p PageTypeInfo
	line := 1
	if n, err := p.parseHeader(blocks[0]); err != nil {
		return PageTypeInfo{}, procerr.At(err, "pagetypeinfo", line+n)
	}
	line += len(blocks[0]) + 1

	if n, err := p.parseFreePages(blocks[1]); err != nil {
		return PageTypeInfo{}, procerr.At(err, "pagetypeinfo", line+n)
	}
	line += len(blocks[1]) + 1

	if n, err := p.parseBlockCounts(blocks[2]); err != nil {
		return PageTypeInfo{}, procerr.At(err, "pagetypeinfo", line+n)
	}

	if err := p.checkZones(); err != nil {
		return PageTypeInfo{}, err
	}
	return p, nil
}

// parseHeader and the two table parsers return the offset of the failing
// line within their block.
func (p *PageTypeInfo) parseHeader(block []string) (int, error) {
	if len(block) != 2 {
		return 0, &procerr.Error{Kind: procerr.KindMalformed, Field: "header", Expected: 2, Found: len(block), Msg: "header block must have two lines"}
	}
	for i, f := range []struct {
		key string
		dst *uint64
	}{
		{"Page block order", &p.PageBlockOrder},
		{"Pages per block", &p.PagesPerBlock},
	} {
		key, value, err := token.KeyValue(block[i], ':', "header")
		if err != nil {
			return i, err
		}
		if key != f.key {
			return i, procerr.Malformed("header", key, "expected %q", f.key)
		}
		if *f.dst, err = field.Uint64(value, f.key); err != nil {
			return i, err
		}
	}
	return 0, nil
}

func (p *PageTypeInfo) parseFreePages(block []string) (int, error) {
	title, orders, ok := strings.Cut(block[0], "order")
	if !ok || strings.Join(strings.Fields(title), " ")+" order" != freePagesTitle {
		return 0, procerr.Malformed("free_pages", block[0], "expected %q header", freePagesTitle)
	}
	cols := token.Fields(orders)
	if len(cols) == 0 {
		return 0, procerr.TooFew("order", 1, 0)
	}
	for i, tok := range cols {
		if tok != strconv.Itoa(i) {
			return 0, procerr.Malformed("order", tok, "expected order %d", i)
		}
	}
	p.Orders = len(cols)

	p.FreePages = make([]PageTypeBlock, 0, len(block)-1)
	for i, row := range block[1:] {
		b, err := parseFreePageRow(row, p.Orders)
		if err != nil {
			return i + 1, err
		}
		p.FreePages = append(p.FreePages, b)
	}
	return 0, nil
}

// parseFreePageRow decodes "Node 0, zone DMA, type Unmovable c0 .. cN".
func parseFreePageRow(row string, orders int) (PageTypeBlock, error) {
	toks := token.Fields(row)
	if err := toks.Expect(6+orders, "free_pages"); err != nil {
		return PageTypeBlock{}, err
	}
	nz, err := parseNodeZone(toks, true)
	if err != nil {
		return PageTypeBlock{}, err
	}
	if toks[4] != "type" {
		return PageTypeBlock{}, procerr.Malformed("type", toks[4], "expected literal type")
	}
	mt, err := migrateTypes.Parse(toks[5], "type")
	if err != nil {
		return PageTypeBlock{}, err
	}
	free := make([]FreeCount, 0, orders)
	for _, tok := range toks.From(6) {
		c, err := ParseFreeCount(tok, "free")
		if err != nil {
			return PageTypeBlock{}, err
		}
		free = append(free, c)
	}
	return PageTypeBlock{NodeZone: nz, Type: mt, Free: free}, nil
}

func (p *PageTypeInfo) parseBlockCounts(block []string) (int, error) {
	title, types, ok := strings.Cut(block[0], "type")
	if !ok || strings.Join(strings.Fields(title), " ")+" type" != blockTypeTitle {
		return 0, procerr.Malformed("block_counts", block[0], "expected %q header", blockTypeTitle)
	}
	cols := token.Fields(types)
	if len(cols) == 0 {
		return 0, procerr.TooFew("block_types", 1, 0)
	}
	p.BlockTypes = make([]MigrateType, len(cols))
	for i, tok := range cols {
		mt, err := migrateTypes.Parse(tok, "block_types")
		if err != nil {
			return 0, err
		}
		p.BlockTypes[i] = mt
	}

	p.BlockCounts = make([]BlockTypeCount, 0, len(block)-1)
	for i, row := range block[1:] {
		toks := token.Fields(row)
		if err := toks.Expect(4+len(cols), "block_counts"); err != nil {
			return i + 1, err
		}
		nz, err := parseNodeZone(toks, false)
		if err != nil {
			return i + 1, err
		}
		counts, err := uintColumns(toks.From(4), "block_counts")
		if err != nil {
			return i + 1, err
		}
		p.BlockCounts = append(p.BlockCounts, BlockTypeCount{NodeZone: nz, Counts: counts})
	}
	return 0, nil
}

// checkZones compares the distinct (node, zone) pairs of the free page table,
// in first-seen order, with the rows of the count table.
func (p *PageTypeInfo) checkZones() error {
	var zones []NodeZone
	for _, b := range p.FreePages {
		if len(zones) == 0 || zones[len(zones)-1] != b.NodeZone {
			zones = append(zones, b.NodeZone)
		}
	}
	if len(zones) != len(p.BlockCounts) {
		return &procerr.Error{
			Kind: procerr.KindMalformed, Format: "pagetypeinfo", Field: "zones",
			Expected: len(zones), Found: len(p.BlockCounts),
			Msg: "free page and block count tables list different zones",
		}
	}
	for i, nz := range zones {
		if p.BlockCounts[i].NodeZone != nz {
			return procerr.Malformed("zones", p.BlockCounts[i].NodeZone.Label(), "block count row %d does not match %s", i+1, nz.Label())
		}
	}
	return nil
}
