package memory_map

import (
	"strconv"
	"strings"

	"procread/field"
	"procread/procerr"
)

// PathTag classifies the pathname column of a mapping. The set of variants is
// closed: Path, Stack, StackOfThread, Heap, Vdso, Vsyscall, Vvar and Anonymous.
// A pseudo-path outside that set is a decode error, not a new variant.
type PathTag interface {
	String() string
	pathTag()
}

// Path is a file-backed mapping. Name is kept verbatim; the kernel's octal
// escapes are not undone (see token.UnescapeOctal).
type Path struct{ Name string }

// Stack is the main thread's stack, "[stack]".
type Stack struct{}

// StackOfThread is "[stack:<tid>]". Kernels from 4.5 on no longer print it.
type StackOfThread struct{ TID uint32 }

// Heap is "[heap]".
type Heap struct{}

// Vdso is "[vdso]".
type Vdso struct{}

// Vsyscall is "[vsyscall]".
type Vsyscall struct{}

// Vvar is "[vvar]".
type Vvar struct{}

// Anonymous is a mapping with no pathname column.
type Anonymous struct{}

func (Path) pathTag()          {}
func (Stack) pathTag()         {}
func (StackOfThread) pathTag() {}
func (Heap) pathTag()          {}
func (Vdso) pathTag()          {}
func (Vsyscall) pathTag()      {}
func (Vvar) pathTag()          {}
func (Anonymous) pathTag()     {}

func (p Path) String() string          { return p.Name }
func (Stack) String() string           { return "[stack]" }
func (s StackOfThread) String() string { return "[stack:" + strconv.FormatUint(uint64(s.TID), 10) + "]" }
func (Heap) String() string            { return "[heap]" }
func (Vdso) String() string            { return "[vdso]" }
func (Vsyscall) String() string        { return "[vsyscall]" }
func (Vvar) String() string            { return "[vvar]" }
func (Anonymous) String() string       { return "" }

func (p Path) MarshalText() ([]byte, error)          { return []byte(p.String()), nil }
func (s Stack) MarshalText() ([]byte, error)         { return []byte(s.String()), nil }
func (s StackOfThread) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (h Heap) MarshalText() ([]byte, error)          { return []byte(h.String()), nil }
func (v Vdso) MarshalText() ([]byte, error)          { return []byte(v.String()), nil }
func (v Vsyscall) MarshalText() ([]byte, error)      { return []byte(v.String()), nil }
func (v Vvar) MarshalText() ([]byte, error)          { return []byte(v.String()), nil }
func (a Anonymous) MarshalText() ([]byte, error)     { return []byte(a.String()), nil }

// ClassifyPath maps the raw pathname column to its variant. An empty column
// means the line ended after the inode and yields Anonymous.
func ClassifyPath(tok string) (PathTag, error) {
	switch tok {
	case "":
		return Anonymous{}, nil
	case "[heap]":
		return Heap{}, nil
	case "[stack]":
		return Stack{}, nil
	case "[vdso]":
		return Vdso{}, nil
	case "[vsyscall]":
		return Vsyscall{}, nil
	case "[vvar]":
		return Vvar{}, nil
	}

	if strings.HasPrefix(tok, "/") {
		return Path{Name: tok}, nil
	}

	if tid, ok := strings.CutPrefix(tok, "[stack:"); ok {
		if tid, ok = strings.CutSuffix(tid, "]"); ok {
			n, err := field.Uint32(tid, "path")
			if err != nil {
				return nil, err
			}
			return StackOfThread{TID: n}, nil
		}
	}

	return nil, procerr.Malformed("path", tok, "unrecognized pathname")
}
