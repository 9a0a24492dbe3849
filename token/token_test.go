package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"procread/procerr"
)

func TestSplitting(t *testing.T) {
	tests := []struct {
		name string
		got  List
		want List
	}{
		{"fields collapse runs", Fields("  a \t b\n\nc  "), List{"a", "b", "c"}},
		{"split keeps empty tokens", Split("a::b", ':'), List{"a", "", "b"}},
		{"split trims pieces", Split(" 08 : 02 ", ':'), List{"08", "02"}},
		{"split any", SplitAny("0.00 0.03 0.05 1/248 19480", " /"), List{"0.00", "0.03", "0.05", "1", "248", "19480"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnclosed(t *testing.T) {
	tests := []struct {
		name                     string
		input                    string
		before, inner, after     string
		ok                       bool
	}{
		{"simple", "1 (systemd) S 0", "1 ", "systemd", " S 0", true},
		{"spaces", "1410 (Network File Th) S 251", "1410 ", "Network File Th", " S 251", true},
		{"nested parens", "7 (a(b)c)) R 1", "7 ", "a(b)c)", " R 1", true},
		{"missing close", "7 (abc R 1", "", "", "", false},
		{"missing open", "7 abc) R 1", "", "", "", false},
		{"reversed", "7 )abc( R 1", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, inner, after, ok := Enclosed(tt.input, '(', ')')
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if before != tt.before || inner != tt.inner || after != tt.after {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)", before, inner, after, tt.before, tt.inner, tt.after)
			}
		})
	}
}

func TestHead(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		wantHead List
		wantRest string
	}{
		{"path with spaces", "00400000-00452000 r-xp 00000000 08:02 173521      /opt/my app/bin", 5,
			List{"00400000-00452000", "r-xp", "00000000", "08:02", "173521"}, "/opt/my app/bin"},
		{"no remainder", "a b c ", 5, List{"a", "b", "c"}, ""},
		{"exact", "a\tb", 2, List{"a", "b"}, ""},
		{"empty", "", 2, List{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, rest := Head(tt.input, tt.n)
			if diff := cmp.Diff(tt.wantHead, head); diff != "" {
				t.Errorf("head mismatch (-want +got):\n%s", diff)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestListLookups(t *testing.T) {
	l := Fields("a b c")

	if v, err := l.At(2, "third"); err != nil || v != "c" {
		t.Errorf("At(2) = %q, %v", v, err)
	}

	_, err := l.At(5, "sixth")
	var pe *procerr.Error
	if !errors.As(err, &pe) {
		t.Fatalf("At past end returned %T, want *procerr.Error", err)
	}
	if pe.Field != "sixth" || pe.Expected != 6 || pe.Found != 3 {
		t.Errorf("unexpected context: %+v", pe)
	}

	if err := l.Expect(3, "row"); err != nil {
		t.Errorf("Expect(3) = %v", err)
	}
	if err := l.Expect(2, "row"); !errors.Is(err, procerr.ErrMalformed) {
		t.Errorf("Expect(2) = %v, want malformed", err)
	}
	if err := l.AtLeast(4, "row"); !errors.Is(err, procerr.ErrMalformed) {
		t.Errorf("AtLeast(4) = %v, want malformed", err)
	}
	if got := l.From(1).Join(); got != "b c" {
		t.Errorf("From(1).Join() = %q", got)
	}
	if got := l.From(9); got != nil {
		t.Errorf("From(9) = %v, want nil", got)
	}
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{"three", "a\nb\n\nc\n\nd\ne\n", [][]string{{"a", "b"}, {"c"}, {"d", "e"}}},
		{"whitespace-only separator", "a\n   \nb", [][]string{{"a"}, {"b"}}},
		{"double blank gives empty block", "a\n\n\nb", [][]string{{"a"}, nil, {"b"}}},
		{"surrounding blanks ignored", "\n\na\n\n", [][]string{{"a"}}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Blocks(tt.input)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLines(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "", "b"}, Lines("a\r\n\nb\n")); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if Lines("") != nil {
		t.Error("Lines(\"\") should be nil")
	}
}

func TestKeyValue(t *testing.T) {
	k, v, err := KeyValue("VmRSS:\t    1234 kB", ':', "status")
	if err != nil || k != "VmRSS" || v != "1234 kB" {
		t.Errorf("KeyValue = %q, %q, %v", k, v, err)
	}
	k, v, err = KeyValue("SigQ:\t0/63000:x", ':', "status")
	if err != nil || k != "SigQ" || v != "0/63000:x" {
		t.Errorf("KeyValue split past first separator: %q, %q, %v", k, v, err)
	}
	if _, _, err := KeyValue("no separator", ':', "status"); !errors.Is(err, procerr.ErrMalformed) {
		t.Errorf("KeyValue without separator = %v, want malformed", err)
	}
}

func TestUnescapeOctal(t *testing.T) {
	tests := map[string]string{
		`/tmp/with\040space`: "/tmp/with space",
		`/tmp/new\012line`:   "/tmp/new\nline",
		`/tmp/back\134slash`: `/tmp/back\slash`,
		`/tmp/short\04`:      `/tmp/short\04`,
		`/plain`:             "/plain",
	}
	for in, want := range tests {
		if got := UnescapeOctal(in); got != want {
			t.Errorf("UnescapeOctal(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitled(t *testing.T) {
	if err := Titled("Filename\t\t\t\tType\t\tSize", "Filename", "Type", "Size"); err != nil {
		t.Errorf("Titled with tab padding: %v", err)
	}
	err := Titled("Filename Kind Size", "Filename", "Type", "Size")
	var pe *procerr.Error
	if !errors.As(err, &pe) || pe.Field != "header" || pe.Token != "Filename Kind Size" {
		t.Errorf("Titled mismatch = %v", err)
	}
}
