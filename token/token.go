// Package token holds the splitting primitives shared by every procfs grammar.
//
// All functions are pure and operate on borrowed text. Lookups never index past
// the end of a List; they return a structured procerr error naming the field
// being extracted instead.
package token

import (
	"strings"

	"procread/procerr"
)

// List is an ordered sequence of tokens.
type List []string

// Fields splits s on runs of whitespace. Empty tokens are never produced.
func Fields(s string) List {
	return List(strings.Fields(s))
}

// Split splits s on every occurrence of sep and trims surrounding whitespace
// from each piece. Adjacent separators yield empty tokens.
func Split(s string, sep byte) List {
	parts := strings.Split(s, string(sep))
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return List(parts)
}

// SplitAny splits s on any byte in delims. Like Split, empty tokens are kept.
func SplitAny(s, delims string) List {
	var out List
	start := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(delims, s[i]) >= 0 {
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// Head splits off the first n whitespace-separated tokens of s and returns
// them with the remainder, trimmed but otherwise verbatim. Fewer than n tokens
// are returned when s runs out.
func Head(s string, n int) (List, string) {
	out := make(List, 0, n)
	rest := strings.TrimLeft(s, " \t")
	for len(out) < n && rest != "" {
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			out = append(out, rest)
			rest = ""
			break
		}
		out = append(out, rest[:end])
		rest = strings.TrimLeft(rest[end:], " \t")
	}
	return out, strings.TrimSpace(rest)
}

// Enclosed splits s into the text before the first open byte, the text between
// it and the last close byte, and the text after that close byte. Delimiters
// inside the enclosed text are kept verbatim. ok is false when either
// delimiter is missing or the last close precedes the first open.
func Enclosed(s string, open, close byte) (before, inner, after string, ok bool) {
	i := strings.IndexByte(s, open)
	j := strings.LastIndexByte(s, close)
	if i < 0 || j < 0 || j < i {
		return "", "", "", false
	}
	return s[:i], s[i+1 : j], s[j+1:], true
}

// At returns the token at index i, or a TooFew error naming field.
func (l List) At(i int, field string) (string, error) {
	if i < 0 || i >= len(l) {
		return "", procerr.TooFew(field, i+1, len(l))
	}
	return l[i], nil
}

// Expect checks that l holds exactly n tokens.
func (l List) Expect(n int, field string) error {
	switch {
	case len(l) < n:
		return procerr.TooFew(field, n, len(l))
	case len(l) > n:
		return &procerr.Error{
			Kind:     procerr.KindMalformed,
			Field:    field,
			Expected: n,
			Found:    len(l),
			Msg:      "unexpected trailing tokens",
			Token:    l[n],
		}
	}
	return nil
}

// AtLeast checks that l holds n tokens or more.
func (l List) AtLeast(n int, field string) error {
	if len(l) < n {
		return procerr.TooFew(field, n, len(l))
	}
	return nil
}

// From returns the tokens from index i on; an empty List when i is past the end.
func (l List) From(i int) List {
	if i >= len(l) {
		return nil
	}
	return l[i:]
}

// Join rejoins the tokens with single spaces.
func (l List) Join() string {
	return strings.Join(l, " ")
}

// Lines splits s into lines. A single trailing newline does not produce an
// empty final line and carriage returns are stripped.
func Lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

// Blocks splits s into groups of lines separated by blank lines. Every blank
// line is a separator, so two consecutive blank lines produce an empty block.
// Leading and trailing blank lines of s are ignored.
func Blocks(s string) [][]string {
	lines := Lines(s)
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}

	blocks := [][]string{nil}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blocks = append(blocks, nil)
			continue
		}
		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], line)
	}
	return blocks
}

// Titled checks that line holds exactly the given column titles. Padding
// between titles is ignored.
func Titled(line string, titles ...string) error {
	want := strings.Join(titles, " ")
	if Fields(line).Join() != want {
		return procerr.Malformed("header", line, "expected header %q", want)
	}
	return nil
}

// KeyValue splits line at the first sep into a trimmed key and value.
func KeyValue(line string, sep byte, field string) (key, value string, err error) {
	i := strings.IndexByte(line, sep)
	if i < 0 {
		return "", "", procerr.Malformed(field, line, "missing %q separator", sep)
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), nil
}

// UnescapeOctal decodes the kernel's \NNN octal escapes (used for space, tab,
// newline and backslash in paths). Nothing in procread calls it implicitly.
func UnescapeOctal(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			v := (s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0')
			b.WriteByte(v)
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
