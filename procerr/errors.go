// Package procerr defines the error values returned by every decoder and reader in procread.
package procerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the category of a decoding or read failure.
type Kind int

const (
	// KindUnavailable means the source could not be read at all.
	KindUnavailable Kind = iota + 1
	// KindMalformed means the text was read but did not match the grammar.
	KindMalformed
	// KindNumeric is the Malformed sub-case for integer and float conversion failures.
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindMalformed:
		return "malformed"
	case KindNumeric:
		return "numeric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrUnavailable matches any error whose source could not be read.
	ErrUnavailable = errors.New("source unavailable")

	// ErrMalformed matches any grammar failure, numeric failures included.
	ErrMalformed = errors.New("malformed input")

	// ErrNumeric matches integer/float conversion failures only.
	ErrNumeric = errors.New("numeric conversion failed")
)

// Error is the structured error shared by all formats.
// Zero-valued context fields are omitted from the message.
type Error struct {
	Kind     Kind
	Format   string // file format, e.g. "maps" or "pagetypeinfo"
	Line     int    // 1-based line within the source, 0 when not line oriented
	Field    string // field or grammar element being decoded
	Token    string // offending token, if any
	Expected int    // expected token/block count for count mismatches
	Found    int
	Reason   string // coarse read failure reason for KindUnavailable
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Format != "" {
		b.WriteString(" ")
		b.WriteString(e.Format)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	b.WriteString(": ")
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Expected > 0 || e.Found > 0:
		fmt.Fprintf(&b, "expected %d tokens, found %d", e.Expected, e.Found)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, " (token %q)", e.Token)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, " [%s]", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind membership against the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrMalformed:
		return e.Kind == KindMalformed || e.Kind == KindNumeric
	case ErrNumeric:
		return e.Kind == KindNumeric
	}
	return false
}

// TooFew reports that field needed expected tokens but only found were present.
func TooFew(field string, expected, found int) *Error {
	return &Error{Kind: KindMalformed, Field: field, Expected: expected, Found: found}
}

// Malformed builds a grammar error for field.
func Malformed(field, token, format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Field: field, Token: token, Msg: fmt.Sprintf(format, args...)}
}

// Numeric wraps a strconv failure for field.
func Numeric(field, token string, err error) *Error {
	return &Error{Kind: KindNumeric, Field: field, Token: token, Err: err}
}

// Unavailable wraps a read failure of source.
func Unavailable(source, reason string, err error) *Error {
	return &Error{Kind: KindUnavailable, Format: source, Reason: reason, Err: err}
}

// At attaches the format name and line number to a structured error, keeping
// any context already set. Errors that are not *Error are returned untouched.
func At(err error, format string, line int) error {
	var pe *Error
	if !errors.As(err, &pe) {
		return err
	}
	out := *pe
	if out.Format == "" {
		out.Format = format
	}
	if out.Line == 0 {
		out.Line = line
	}
	return &out
}

// KindOf returns the kind of err, or 0 when err carries no procerr context.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
