package system

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Partition is one row of /proc/partitions. Blocks counts 1 KiB units.
type Partition struct {
	Major  uint32 `json:"major" yaml:"major"`
	Minor  uint32 `json:"minor" yaml:"minor"`
	Blocks uint64 `json:"blocks" yaml:"blocks"`
	Name   string `json:"name" yaml:"name"`
}

func ParsePartition(line string) (Partition, error) {
	r := field.NewReader(token.Fields(line), 0)
	p := Partition{
		Major:  r.Uint32("major"),
		Minor:  r.Uint32("minor"),
		Blocks: r.Uint64("blocks"),
		Name:   r.Next("name"),
	}
	if err := r.Done("partitions"); err != nil {
		return Partition{}, err
	}
	return p, nil
}

// ParsePartitions decodes /proc/partitions: a title line, one blank line and
// the rows.
func ParsePartitions(text string) ([]Partition, error) {
	rows, err := headed(text, "partitions", "major", "minor", "#blocks", "name")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(rows[0]) != "" {
		return nil, procerr.At(procerr.Malformed("header", rows[0], "expected blank line after header"), "partitions", 2)
	}
	rows = rows[1:]
	out := make([]Partition, 0, len(rows))
	for i, row := range rows {
		p, err := ParsePartition(row)
		if err != nil {
			return nil, procerr.At(err, "partitions", i+3)
		}
		out = append(out, p)
	}
	return out, nil
}
