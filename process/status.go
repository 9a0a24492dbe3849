package process

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

// StatusEntry is one "Key:\tvalue" line of /proc/[pid]/status.
type StatusEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Status is /proc/[pid]/status in the order the kernel printed it.
type Status []StatusEntry

// ParseStatus splits every line at its first colon. The set of keys varies
// between kernels, so unknown keys are kept rather than rejected.
func ParseStatus(text string) (Status, error) {
	lines := token.Lines(text)
	status := make(Status, 0, len(lines))
	for i, line := range lines {
		key, value, err := token.KeyValue(line, ':', "status")
		if err != nil {
			return nil, procerr.At(err, "status", i+1)
		}
		status = append(status, StatusEntry{Key: key, Value: value})
	}
	return status, nil
}

// Lookup returns the raw value of key.
func (s Status) Lookup(key string) (string, bool) {
	for _, e := range s {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

func (s Status) require(key string) (string, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", &procerr.Error{Kind: procerr.KindMalformed, Format: "status", Field: key, Msg: "key not present"}
	}
	return v, nil
}

func (s Status) Name() (string, error) {
	return s.require("Name")
}

// State decodes the leading letter of "State:\tS (sleeping)".
func (s Status) State() (ProcessState, error) {
	v, err := s.require("State")
	if err != nil {
		return "", err
	}
	toks := token.Fields(v)
	letter, err := toks.At(0, "State")
	if err != nil {
		return "", err
	}
	return stateVocabulary.Parse(letter, "State")
}

func (s Status) PPid() (int32, error) {
	v, err := s.require("PPid")
	if err != nil {
		return 0, err
	}
	return field.Int32(v, "PPid")
}

func (s Status) Threads() (int64, error) {
	v, err := s.require("Threads")
	if err != nil {
		return 0, err
	}
	return field.Int64(v, "Threads")
}

// VmRSS returns the resident set size in kB. Kernel threads have no VmRSS
// line, which is reported as absent rather than as an error.
func (s Status) VmRSS() (field.Maybe[uint64], error) {
	v, ok := s.Lookup("VmRSS")
	if !ok {
		return field.Maybe[uint64]{}, nil
	}
	return s.kilobytes(v, "VmRSS")
}

// kthreadFlag spells the Kthread line, printed since 6.1.
var kthreadFlag = field.Sentinel{True: "1", False: "0"}

// Kthread reports whether the task is a kernel thread. Older kernels do not
// print the line, which leaves the result absent.
func (s Status) Kthread() (field.Maybe[bool], error) {
	v, ok := s.Lookup("Kthread")
	if !ok {
		return field.Maybe[bool]{}, nil
	}
	b, err := kthreadFlag.Parse(v, "Kthread")
	if err != nil {
		return field.Maybe[bool]{}, err
	}
	return field.Some(b), nil
}

func (s Status) kilobytes(v, name string) (field.Maybe[uint64], error) {
	toks := token.Fields(v)
	if err := toks.Expect(2, name); err != nil {
		return field.Maybe[uint64]{}, err
	}
	if toks[1] != "kB" {
		return field.Maybe[uint64]{}, procerr.Malformed(name, toks[1], "unit is not kB")
	}
	n, err := field.Uint64(toks[0], name)
	if err != nil {
		return field.Maybe[uint64]{}, err
	}
	return field.Some(n), nil
}

// IDs is the real, effective, saved set and filesystem id quadruple.
type IDs struct {
	Real       uint32 `json:"real" yaml:"real"`
	Effective  uint32 `json:"effective" yaml:"effective"`
	SavedSet   uint32 `json:"saved_set" yaml:"saved_set"`
	Filesystem uint32 `json:"filesystem" yaml:"filesystem"`
}

func (s Status) ids(key string) (IDs, error) {
	v, err := s.require(key)
	if err != nil {
		return IDs{}, err
	}
	toks := token.Fields(v)
	if err := toks.Expect(4, key); err != nil {
		return IDs{}, err
	}
	r := field.NewReader(toks, 0)
	ids := IDs{
		Real:       r.Uint32(key),
		Effective:  r.Uint32(key),
		SavedSet:   r.Uint32(key),
		Filesystem: r.Uint32(key),
	}
	return ids, r.Err()
}

func (s Status) Uid() (IDs, error) { return s.ids("Uid") }
func (s Status) Gid() (IDs, error) { return s.ids("Gid") }

// Keys lists the keys in file order.
func (s Status) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}
