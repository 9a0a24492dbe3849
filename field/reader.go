package field

import (
	"procread/procerr"
	"procread/token"
)

// Reader consumes a token list strictly left to right. The first failure is
// kept and every later call becomes a no-op, so an assembler can decode a
// whole fixed-column row and check Err once.
type Reader struct {
	toks   token.List
	pos    int
	offset int
	err    error
}

// NewReader reads toks. offset is the column index of toks[0] within the
// full line, used so that count errors report whole-line numbers.
func NewReader(toks token.List, offset int) *Reader {
	return &Reader{toks: toks, offset: offset}
}

// Next returns the next raw token.
func (r *Reader) Next(name string) string {
	if r.err != nil {
		return ""
	}
	if r.pos >= len(r.toks) {
		r.err = procerr.TooFew(name, r.offset+r.pos+1, r.offset+len(r.toks))
		return ""
	}
	tok := r.toks[r.pos]
	r.pos++
	return tok
}

// Take decodes the next token with parse.
func Take[T any](r *Reader, name string, parse func(tok, name string) (T, error)) T {
	var zero T
	tok := r.Next(name)
	if r.err != nil {
		return zero
	}
	v, err := parse(tok, name)
	if err != nil {
		r.err = err
		return zero
	}
	return v
}

func (r *Reader) Uint64(name string) uint64 { return Take(r, name, Uint64) }
func (r *Reader) Hex64(name string) uint64  { return Take(r, name, Hex64) }
func (r *Reader) Uint32(name string) uint32 { return Take(r, name, Uint32) }
func (r *Reader) Int64(name string) int64   { return Take(r, name, Int64) }
func (r *Reader) Int32(name string) int32   { return Take(r, name, Int32) }

func (r *Reader) Float64(name string) float64 { return Take(r, name, Float64) }

// Rest returns the tokens not consumed yet.
func (r *Reader) Rest() token.List {
	return r.toks.From(r.pos)
}

// Err returns the first failure, if any.
func (r *Reader) Err() error {
	return r.err
}

// Done fails with an error when tokens remain unconsumed.
func (r *Reader) Done(name string) error {
	if r.err != nil {
		return r.err
	}
	if r.pos < len(r.toks) {
		r.err = &procerr.Error{
			Kind:     procerr.KindMalformed,
			Field:    name,
			Expected: r.offset + r.pos,
			Found:    r.offset + len(r.toks),
			Token:    r.toks[r.pos],
			Msg:      "unexpected trailing tokens",
		}
	}
	return r.err
}
