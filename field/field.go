// Package field converts single tokens into typed values.
//
// Every decoder takes the token and the name of the field it belongs to, so
// failures come back as procerr errors that say which column was bad.
package field

import (
	"sort"
	"strconv"
	"strings"

	"procread/procerr"
	"procread/token"
)

// Uint parses an unsigned integer in the given radix. Signs are rejected.
func Uint(tok string, base, bits int, name string) (uint64, error) {
	v, err := strconv.ParseUint(tok, base, bits)
	if err != nil {
		return 0, procerr.Numeric(name, tok, err)
	}
	return v, nil
}

// Int parses a signed decimal integer.
func Int(tok string, bits int, name string) (int64, error) {
	v, err := strconv.ParseInt(tok, 10, bits)
	if err != nil {
		return 0, procerr.Numeric(name, tok, err)
	}
	return v, nil
}

func Uint64(tok, name string) (uint64, error) { return Uint(tok, 10, 64, name) }

// Hex64 parses a base-16 column such as a mapping address or device number.
func Hex64(tok, name string) (uint64, error) { return Uint(tok, 16, 64, name) }

func Uint32(tok, name string) (uint32, error) {
	v, err := Uint(tok, 10, 32, name)
	return uint32(v), err
}

func Int64(tok, name string) (int64, error) { return Int(tok, 64, name) }

func Int32(tok, name string) (int32, error) {
	v, err := Int(tok, 32, name)
	return int32(v), err
}

// Float64 parses a decimal floating point column.
func Float64(tok, name string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, procerr.Numeric(name, tok, err)
	}
	return v, nil
}

// Sentinel decodes a boolean spelled as one of exactly two literal words.
// Matching is case-sensitive and there is no default.
type Sentinel struct {
	True  string
	False string
}

// YesNo is the "yes"/"no" sentinel pair.
var YesNo = Sentinel{True: "yes", False: "no"}

func (s Sentinel) Parse(tok, name string) (bool, error) {
	switch tok {
	case s.True:
		return true, nil
	case s.False:
		return false, nil
	}
	return false, procerr.Malformed(name, tok, "expected %q or %q", s.True, s.False)
}

// Vocabulary is a closed set of literal tokens and the values they map to.
// Tokens outside the set are errors so that new kernel vocabulary is noticed.
type Vocabulary[T any] map[string]T

func (v Vocabulary[T]) Parse(tok, name string) (T, error) {
	if val, ok := v[tok]; ok {
		return val, nil
	}
	var zero T
	return zero, procerr.Malformed(name, tok, "not one of %s", strings.Join(v.Words(), ", "))
}

// Words lists the vocabulary in sorted order.
func (v Vocabulary[T]) Words() []string {
	words := make([]string, 0, len(v))
	for w := range v {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Slot decodes one version-optional trailing token into its destination.
type Slot func(tok string) error

// Into builds a Slot that stores parse(tok, name) in dst.
func Into[T any](dst *Maybe[T], name string, parse func(tok, name string) (T, error)) Slot {
	return func(tok string) error {
		v, err := parse(tok, name)
		if err != nil {
			return err
		}
		*dst = Some(v)
		return nil
	}
}

// Tail fills slots strictly left to right from rest and returns how many were
// filled. Slots past the end of rest stay absent. More tokens than slots is an
// error: the line carries columns this decoder does not know.
func Tail(rest token.List, name string, slots ...Slot) (int, error) {
	if len(rest) > len(slots) {
		return 0, &procerr.Error{
			Kind:     procerr.KindMalformed,
			Field:    name,
			Expected: len(slots),
			Found:    len(rest),
			Token:    rest[len(slots)],
			Msg:      "more optional columns than known",
		}
	}
	for i, tok := range rest {
		if err := slots[i](tok); err != nil {
			return i, err
		}
	}
	return len(rest), nil
}
