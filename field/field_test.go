package field

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"procread/procerr"
	"procread/token"
)

func TestIntegerDecoders(t *testing.T) {
	tests := []struct {
		name        string
		parse       func() (any, error)
		want        any
		wantNumeric bool
	}{
		{"hex address", func() (any, error) { return Hex64("7f0f79376000", "start") }, uint64(0x7f0f79376000), false},
		{"hex rejects sign", func() (any, error) { return Hex64("-1f", "start") }, nil, true},
		{"hex rejects prefix", func() (any, error) { return Hex64("0x1f", "start") }, nil, true},
		{"decimal", func() (any, error) { return Uint64("131498", "inode") }, uint64(131498), false},
		{"decimal rejects hex digits", func() (any, error) { return Uint64("fc", "inode") }, nil, true},
		{"uint64 overflow", func() (any, error) { return Uint64("18446744073709551616", "rsslim") }, nil, true},
		{"int32 negative", func() (any, error) { return Int32("-1", "tpgid") }, int32(-1), false},
		{"int32 overflow", func() (any, error) { return Int32("2147483648", "tpgid") }, nil, true},
		{"uint32", func() (any, error) { return Uint32("4202752", "flags") }, uint32(4202752), false},
		{"int64", func() (any, error) { return Int64("-20", "nice") }, int64(-20), false},
		{"float", func() (any, error) { return Float64("2935986.36", "uptime") }, 2935986.36, false},
		{"float garbage", func() (any, error) { return Float64("1.2.3", "uptime") }, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse()
			if tt.wantNumeric {
				if !errors.Is(err, procerr.ErrNumeric) {
					t.Fatalf("err = %v, want numeric error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestOverflowIsDistinguishable(t *testing.T) {
	_, err := Uint64("99999999999999999999", "ctxt")
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("overflow should expose strconv.ErrRange, got %v", err)
	}
	_, err = Uint64("12a", "ctxt")
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("syntax failure should expose strconv.ErrSyntax, got %v", err)
	}
}

func TestSentinel(t *testing.T) {
	for tok, want := range map[string]bool{"yes": true, "no": false} {
		got, err := YesNo.Parse(tok, "flag")
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %v, %v", tok, got, err)
		}
	}
	for _, tok := range []string{"Yes", "NO", "", "1"} {
		if _, err := YesNo.Parse(tok, "flag"); !errors.Is(err, procerr.ErrMalformed) {
			t.Errorf("Parse(%q) = %v, want malformed", tok, err)
		}
	}
}

func TestVocabulary(t *testing.T) {
	type unit string
	v := Vocabulary[unit]{"": "", "kB": "kB"}

	if got, err := v.Parse("kB", "unit"); err != nil || got != "kB" {
		t.Errorf("Parse(kB) = %q, %v", got, err)
	}
	_, err := v.Parse("MB", "unit")
	var pe *procerr.Error
	if !errors.As(err, &pe) || pe.Token != "MB" || pe.Field != "unit" {
		t.Errorf("Parse(MB) = %v, want malformed naming the token", err)
	}
}

func TestTail(t *testing.T) {
	var a, b Maybe[uint64]
	var c Maybe[int32]
	slots := func() []Slot {
		a, b, c = Maybe[uint64]{}, Maybe[uint64]{}, Maybe[int32]{}
		return []Slot{Into(&a, "a", Uint64), Into(&b, "b", Uint64), Into(&c, "c", Int32)}
	}

	n, err := Tail(token.List{"1", "2"}, "tail", slots()...)
	if err != nil || n != 2 {
		t.Fatalf("Tail = %d, %v", n, err)
	}
	if !a.Valid || a.Value != 1 || !b.Valid || b.Value != 2 || c.Valid {
		t.Errorf("unexpected slots: %v %v %v", a, b, c)
	}

	n, err = Tail(nil, "tail", slots()...)
	if err != nil || n != 0 || a.Valid || b.Valid || c.Valid {
		t.Errorf("empty tail: n=%d err=%v slots=%v %v %v", n, err, a, b, c)
	}

	if _, err := Tail(token.List{"1", "2", "3", "4"}, "tail", slots()...); !errors.Is(err, procerr.ErrMalformed) {
		t.Errorf("overlong tail = %v, want malformed", err)
	}
	if _, err := Tail(token.List{"1", "x"}, "tail", slots()...); !errors.Is(err, procerr.ErrNumeric) {
		t.Errorf("bad tail token = %v, want numeric", err)
	}
}

func TestMaybeEncoding(t *testing.T) {
	out, err := json.Marshal(struct {
		A Maybe[uint64] `json:"a"`
		B Maybe[uint64] `json:"b"`
	}{A: Some[uint64](7)})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":7,"b":null}` {
		t.Errorf("json = %s", out)
	}
	if Some(3).Or(9) != 3 || (Maybe[int]{}).Or(9) != 9 {
		t.Error("Or returned the wrong value")
	}
	if (Maybe[int]{}).String() != "-" || Some(5).String() != "5" {
		t.Error("String returned the wrong value")
	}
}

func TestReader(t *testing.T) {
	r := NewReader(token.Fields("7 ff -3 1.5"), 2)
	if got := r.Uint64("a"); got != 7 {
		t.Errorf("a = %d", got)
	}
	if got := r.Hex64("b"); got != 0xff {
		t.Errorf("b = %x", got)
	}
	if got := r.Int32("c"); got != -3 {
		t.Errorf("c = %d", got)
	}
	if err := r.Done("row"); err == nil {
		t.Error("Done with one token left should fail")
	}

	r = NewReader(token.Fields("1 x 3"), 0)
	r.Uint64("first")
	r.Uint64("second")
	r.Uint64("third")
	var pe *procerr.Error
	if !errors.As(r.Err(), &pe) || pe.Field != "second" {
		t.Errorf("sticky error = %v, want field second", r.Err())
	}

	r = NewReader(token.Fields("1"), 4)
	r.Uint64("x")
	r.Uint64("y")
	if !errors.As(r.Err(), &pe) || pe.Expected != 6 || pe.Found != 5 {
		t.Errorf("count error = %v, want 6/5", r.Err())
	}
}
