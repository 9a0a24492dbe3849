package system

import (
	"fmt"
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

type LockClass string

const (
	LockPOSIX  LockClass = "POSIX"
	LockFLOCK  LockClass = "FLOCK"
	LockOFD    LockClass = "OFDLCK"
	LockLease  LockClass = "LEASE"
	LockDeleg  LockClass = "DELEG"
	LockAccess LockClass = "ACCESS"
)

var lockClasses = field.Vocabulary[LockClass]{
	"POSIX":  LockPOSIX,
	"FLOCK":  LockFLOCK,
	"OFDLCK": LockOFD,
	"LEASE":  LockLease,
	"DELEG":  LockDeleg,
	"ACCESS": LockAccess,
}

var lockModes = field.Vocabulary[string]{
	"ADVISORY":  "ADVISORY",
	"MANDATORY": "MANDATORY", // removed in 5.15
	"ACTIVE":    "ACTIVE",
	"BREAKING":  "BREAKING",
	"BREAKER":   "BREAKER",
}

var lockAccess = field.Vocabulary[string]{
	"READ":  "READ",
	"WRITE": "WRITE",
	"UNLCK": "UNLCK",
}

// LockedFile is the MAJ:MIN:INODE column. Device numbers are hex.
type LockedFile struct {
	Major uint32 `json:"major" yaml:"major"`
	Minor uint32 `json:"minor" yaml:"minor"`
	Inode uint64 `json:"inode" yaml:"inode"`
}

func (f LockedFile) String() string {
	return fmt.Sprintf("%02x:%02x:%d", f.Major, f.Minor, f.Inode)
}

// Lock is one line of /proc/locks. Blocked marks a waiter ("->") queued on
// the lock with the same ID. File is absent for "<none>:0" and End for a
// lock that runs to EOF. PID is -1 for OFD locks.
type Lock struct {
	ID      uint64                  `json:"id" yaml:"id"`
	Blocked bool                    `json:"blocked" yaml:"blocked"`
	Class   LockClass               `json:"class" yaml:"class"`
	Mode    string                  `json:"mode" yaml:"mode"`
	Access  string                  `json:"access" yaml:"access"`
	PID     int32                   `json:"pid" yaml:"pid"`
	File    field.Maybe[LockedFile] `json:"file" yaml:"file"`
	Start   uint64                  `json:"start" yaml:"start"`
	End     field.Maybe[uint64]     `json:"end" yaml:"end"`
}

func parseLockedFile(tok, name string) (field.Maybe[LockedFile], error) {
	if tok == "<none>:0" {
		return field.Maybe[LockedFile]{}, nil
	}
	parts := token.Split(tok, ':')
	if err := parts.Expect(3, name); err != nil {
		return field.Maybe[LockedFile]{}, err
	}
	major, err := field.Uint(parts[0], 16, 32, "file_major")
	if err != nil {
		return field.Maybe[LockedFile]{}, err
	}
	minor, err := field.Uint(parts[1], 16, 32, "file_minor")
	if err != nil {
		return field.Maybe[LockedFile]{}, err
	}
	inode, err := field.Uint64(parts[2], "inode")
	if err != nil {
		return field.Maybe[LockedFile]{}, err
	}
	return field.Some(LockedFile{Major: uint32(major), Minor: uint32(minor), Inode: inode}), nil
}

func parseLockEnd(tok, name string) (field.Maybe[uint64], error) {
	if tok == "EOF" {
		return field.Maybe[uint64]{}, nil
	}
	v, err := field.Uint64(tok, name)
	if err != nil {
		return field.Maybe[uint64]{}, err
	}
	return field.Some(v), nil
}

func parseLockID(tok, name string) (uint64, error) {
	id, ok := strings.CutSuffix(tok, ":")
	if !ok {
		return 0, procerr.Malformed(name, tok, "expected trailing colon")
	}
	return field.Uint64(id, name)
}

func ParseLock(line string) (Lock, error) {
	toks := token.Fields(line)
	var l Lock
	if len(toks) > 1 && toks[1] == "->" {
		l.Blocked = true
		toks = append(token.List{toks[0]}, toks.From(2)...)
	}
	r := field.NewReader(toks, 0)
	l.ID = field.Take(r, "id", parseLockID)
	l.Class = field.Take(r, "class", lockClasses.Parse)
	l.Mode = field.Take(r, "mode", lockModes.Parse)
	l.Access = field.Take(r, "access", lockAccess.Parse)
	l.PID = r.Int32("pid")
	l.File = field.Take(r, "file", parseLockedFile)
	l.Start = r.Uint64("start")
	l.End = field.Take(r, "end", parseLockEnd)
	if err := r.Done("locks"); err != nil {
		return Lock{}, err
	}
	return l, nil
}

// ParseLocks decodes /proc/locks.
func ParseLocks(text string) ([]Lock, error) {
	lines := token.Lines(text)
	out := make([]Lock, 0, len(lines))
	for i, line := range lines {
		l, err := ParseLock(line)
		if err != nil {
			return nil, procerr.At(err, "locks", i+1)
		}
		out = append(out, l)
	}
	return out, nil
}
