package process

import (
	"strings"

	"procread/procerr"
)

// EnvVar is one KEY=VALUE entry of /proc/[pid]/environ.
type EnvVar struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Environ is the initial environment of a process in the order it was
// passed to execve. Later setenv calls are not reflected.
type Environ []EnvVar

// Lookup returns the first value set for key.
func (e Environ) Lookup(key string) (string, bool) {
	for _, v := range e {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// nulFields splits NUL-terminated strings. A missing final terminator is
// accepted; an empty input has no fields.
func nulFields(text string) []string {
	text = strings.TrimSuffix(text, "\x00")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\x00")
}

// ParseEnviron decodes /proc/[pid]/environ. The key ends at the first '='
// and the value may hold more of them. Errors report the entry number as
// the line.
func ParseEnviron(text string) (Environ, error) {
	fields := nulFields(text)
	out := make(Environ, 0, len(fields))
	for i, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, procerr.At(procerr.Malformed("environ", f, "missing '=' separator"), "environ", i+1)
		}
		if key == "" {
			return nil, procerr.At(procerr.Malformed("environ", f, "empty variable name"), "environ", i+1)
		}
		out = append(out, EnvVar{Key: key, Value: value})
	}
	return out, nil
}

// Cmdline is /proc/[pid]/cmdline split into its arguments. It is empty for
// kernel threads and zombies.
type Cmdline []string

// Command is argv[0], or "" when there is none.
func (c Cmdline) Command() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// String joins the arguments with spaces the way ps prints them.
func (c Cmdline) String() string {
	return strings.Join(c, " ")
}

// ParseCmdline decodes /proc/[pid]/cmdline. Empty arguments are kept.
func ParseCmdline(text string) (Cmdline, error) {
	return Cmdline(nulFields(text)), nil
}

// commMax is TASK_COMM_LEN less the terminator.
const commMax = 15

// ParseComm decodes /proc/[pid]/comm, the possibly truncated command name.
func ParseComm(text string) (string, error) {
	comm := strings.TrimSuffix(text, "\n")
	if len(comm) > commMax {
		return "", procerr.At(&procerr.Error{
			Kind: procerr.KindMalformed, Field: "comm", Token: comm,
			Msg: "longer than 15 bytes",
		}, "comm", 1)
	}
	return comm, nil
}
