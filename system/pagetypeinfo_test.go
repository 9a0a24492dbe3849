package system

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"procread/procerr"
)

const samplePageTypeInfo = `Page block order: 9
Pages per block:  512

Free pages count per migrate type at order       0      1      2      3      4      5      6      7      8      9     10 
Node    0, zone      DMA, type    Unmovable      2     10     13      8      4      1      2      2      0      0      0 
Node    0, zone      DMA, type  Reclaimable      3      1      2      2      1      0      1      1      1      0      0 
Node    0, zone      DMA, type      Movable      2      1      1      0      1      1      0      1      2      0      0 
Node    0, zone      DMA, type      Reserve      0      0      0      0      0      0      0      0      0      0      0 
Node    0, zone      DMA, type          CMA      0      0      0      0      0      0      0      0      0      0      0 
Node    0, zone      DMA, type      Isolate      0      0      0      0      0      0      0      0      0      0      0 
Node    0, zone    DMA32, type    Unmovable    148     77    109    136     20      7      0      0      0      0      0 
Node    0, zone    DMA32, type  Reclaimable     31    135    247    159     31     11      3      0      0      0      0 
Node    0, zone    DMA32, type      Movable    452    198    246   1628    565     17     18     16     11      1      0 
Node    0, zone    DMA32, type      Reserve      0      0      0      0      0      0      0      0      0      0      0 
Node    0, zone    DMA32, type          CMA      0      0      0      0      0      0      0      0      0      0      0 
Node    0, zone    DMA32, type      Isolate      0      0      0      0      0      0      0      0      0      0      0 

Number of blocks type     Unmovable  Reclaimable      Movable      Reserve          CMA      Isolate 
Node 0, zone      DMA            2            1            5            0            0            0 
Node 0, zone    DMA32           74           42          756            0            0            0 
`

func TestParsePageTypeInfo(t *testing.T) {
	p, err := ParsePageTypeInfo(samplePageTypeInfo)
	if err != nil {
		t.Fatalf("ParsePageTypeInfo: %v", err)
	}
	if p.PageBlockOrder != 9 || p.PagesPerBlock != 512 {
		t.Errorf("header = %d/%d", p.PageBlockOrder, p.PagesPerBlock)
	}
	if p.Orders != 11 {
		t.Errorf("Orders = %d, want 11", p.Orders)
	}
	if len(p.FreePages) != 12 {
		t.Fatalf("free page rows = %d, want 12", len(p.FreePages))
	}

	dma := NodeZone{Node: 0, Zone: "DMA"}
	dma32 := NodeZone{Node: 0, Zone: "DMA32"}
	wantFirst := PageTypeBlock{NodeZone: dma, Type: Unmovable, Free: freeCounts(2, 10, 13, 8, 4, 1, 2, 2, 0, 0, 0)}
	if diff := cmp.Diff(wantFirst, p.FreePages[0]); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}
	wantMovable := PageTypeBlock{NodeZone: dma32, Type: Movable, Free: freeCounts(452, 198, 246, 1628, 565, 17, 18, 16, 11, 1, 0)}
	if diff := cmp.Diff(wantMovable, p.FreePages[8]); diff != "" {
		t.Errorf("DMA32 movable mismatch (-want +got):\n%s", diff)
	}

	wantTypes := []MigrateType{Unmovable, Reclaimable, Movable, Reserve, CMA, Isolate}
	if diff := cmp.Diff(wantTypes, p.BlockTypes); diff != "" {
		t.Errorf("block types mismatch:\n%s", diff)
	}
	wantCounts := []BlockTypeCount{
		{NodeZone: dma, Counts: []uint64{2, 1, 5, 0, 0, 0}},
		{NodeZone: dma32, Counts: []uint64{74, 42, 756, 0, 0, 0}},
	}
	if diff := cmp.Diff(wantCounts, p.BlockCounts); diff != "" {
		t.Errorf("block counts mismatch:\n%s", diff)
	}

	if n, ok := p.Count(dma32, Movable); !ok || n != 756 {
		t.Errorf("Count(DMA32, Movable) = %d, %v", n, ok)
	}
	if _, ok := p.Count(dma32, HighAtomic); ok {
		t.Error("HighAtomic is not a column in this sample")
	}
}

func freeCounts(vals ...uint64) []FreeCount {
	out := make([]FreeCount, len(vals))
	for i, v := range vals {
		out[i] = FreeCount{Count: v}
	}
	return out
}

// A 5.15 layout cut to three orders. Orders 0 and 1 of the Movable row hit
// the kernel's 100000 cap.
const cappedPageTypeInfo = `Page block order: 9
Pages per block:  512

Free pages count per migrate type at order       0      1      2 
Node    0, zone   Normal, type    Unmovable    310    122     51 
Node    0, zone   Normal, type      Movable >100000 >100000  50000 
Node    0, zone   Normal, type  Reclaimable     40     13      2 
Node    0, zone   Normal, type   HighAtomic      0      0      0 
Node    0, zone   Normal, type      Isolate      0      0      0 

Number of blocks type     Unmovable      Movable  Reclaimable   HighAtomic      Isolate 
Node 0, zone   Normal          320        15712           67            0            0 
`

func TestParsePageTypeInfoCappedCounts(t *testing.T) {
	p, err := ParsePageTypeInfo(cappedPageTypeInfo)
	if err != nil {
		t.Fatalf("ParsePageTypeInfo: %v", err)
	}
	want := []FreeCount{{Count: 100000, AtLeast: true}, {Count: 100000, AtLeast: true}, {Count: 50000}}
	if diff := cmp.Diff(want, p.FreePages[1].Free); diff != "" {
		t.Errorf("movable row mismatch (-want +got):\n%s", diff)
	}
	if got := p.FreePages[1].Free[0].String(); got != ">100000" {
		t.Errorf("String() = %q", got)
	}
	if got := p.FreePages[1].Free[2].String(); got != "50000" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseFreeCount(t *testing.T) {
	tests := []struct {
		tok     string
		want    FreeCount
		wantErr bool
	}{
		{"0", FreeCount{}, false},
		{"1628", FreeCount{Count: 1628}, false},
		{">100000", FreeCount{Count: 100000, AtLeast: true}, false},
		{">", FreeCount{}, true},
		{">>5", FreeCount{}, true},
		{"<5", FreeCount{}, true},
		{"-1", FreeCount{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			got, err := ParseFreeCount(tt.tok, "free")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var pe *procerr.Error
				if !errors.As(err, &pe) || pe.Token != tt.tok || !errors.Is(err, procerr.ErrNumeric) {
					t.Errorf("err = %v, want numeric error on %q", err, tt.tok)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePageTypeInfoBlockCount(t *testing.T) {
	blocks := strings.SplitN(samplePageTypeInfo, "\n\n", 3)
	twoBlocks := blocks[0] + "\n\n" + blocks[1]

	tests := []struct {
		name  string
		text  string
		found int
	}{
		{"missing third block", twoBlocks, 2},
		{"single block", blocks[0], 1},
		{"empty", "", 0},
		{"extra block", samplePageTypeInfo + "\nstray\n", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageTypeInfo(tt.text)
			var pe *procerr.Error
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *procerr.Error", err)
			}
			if pe.Expected != 3 || pe.Found != tt.found {
				t.Errorf("counts = %d/%d, want 3/%d", pe.Expected, pe.Found, tt.found)
			}
			if !strings.Contains(err.Error(), "expected 3") {
				t.Errorf("message %q does not name the expected block count", err.Error())
			}
			if got.FreePages != nil {
				t.Error("partial result returned")
			}
		})
	}
}

func TestParsePageTypeInfoErrors(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantField string
		wantLine  int
	}{
		{
			name:      "unknown migrate type",
			text:      strings.Replace(samplePageTypeInfo, "type  Reclaimable      3", "type  Sticky      3", 1),
			wantField: "type",
			wantLine:  6,
		},
		{
			name:      "short free page row",
			text:      strings.Replace(samplePageTypeInfo, "      2      0      0 \n", " \n", 1),
			wantField: "free_pages",
		},
		{
			name:      "orders out of sequence",
			text:      strings.Replace(samplePageTypeInfo, "0      1      2      3      4", "0      2      1      3      4", 1),
			wantField: "order",
			wantLine:  4,
		},
		{
			name:      "wrong header key",
			text:      strings.Replace(samplePageTypeInfo, "Pages per block", "Blocks per page", 1),
			wantField: "header",
			wantLine:  2,
		},
		{
			name:      "zone missing from count table",
			text:      strings.Replace(samplePageTypeInfo, "Node 0, zone    DMA32           74           42          756            0            0            0 \n", "", 1),
			wantField: "zones",
		},
		{
			name:      "zone renamed in count table",
			text:      strings.Replace(samplePageTypeInfo, "zone    DMA32           74", "zone   Normal           74", 1),
			wantField: "zones",
		},
		{
			name:      "count table column mismatch",
			text:      strings.Replace(samplePageTypeInfo, "756            0            0            0 ", "756            0            0 ", 1),
			wantField: "block_counts",
			wantLine:  20,
		},
		{
			name:      "double blank line",
			text:      strings.Replace(samplePageTypeInfo, "512\n\n", "512\n\n\n", 1),
			wantField: "blocks",
		},
		{
			name:      "missing comma after node",
			text:      strings.Replace(samplePageTypeInfo, "Node 0, zone      DMA ", "Node 0 zone      DMA ", 1),
			wantField: "node",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePageTypeInfo(tt.text)
			var pe *procerr.Error
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *procerr.Error", err)
			}
			if pe.Field != tt.wantField {
				t.Errorf("field = %q, want %q (%v)", pe.Field, tt.wantField, err)
			}
			if tt.wantLine != 0 && pe.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}
