package system

import (
	"strings"

	"procread/procerr"
	"procread/token"
)

// Entry is one "key : value" line of a block-structured file such as
// cpuinfo or crypto. Both sides are trimmed; the value may be empty.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// entryBlock is a run of entries and the file line of its first entry.
type entryBlock struct {
	line    int
	entries []Entry
}

// entryBlocks splits text into blank-line separated blocks of entries. The
// key ends at the first sep, so values may contain it.
func entryBlocks(text string, sep byte, format string) ([]entryBlock, error) {
	var (
		blocks []entryBlock
		cur    entryBlock
	)
	for i, line := range token.Lines(text) {
		if strings.TrimSpace(line) == "" {
			if len(cur.entries) > 0 {
				blocks = append(blocks, cur)
			}
			cur = entryBlock{}
			continue
		}
		k, v, err := token.KeyValue(line, sep, "key")
		if err != nil {
			return nil, procerr.At(err, format, i+1)
		}
		if k == "" {
			return nil, procerr.At(procerr.Malformed("key", line, "empty key"), format, i+1)
		}
		if len(cur.entries) == 0 {
			cur.line = i + 1
		}
		cur.entries = append(cur.entries, Entry{Key: k, Value: v})
	}
	if len(cur.entries) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks, nil
}

// lookup returns the value of the first entry named key.
func lookup(entries []Entry, key string) (string, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}
