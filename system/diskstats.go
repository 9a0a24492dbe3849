package system

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

// DiskStat is one line of /proc/diskstats. See the kernel's
// Documentation/admin-guide/iostats.rst for the column meanings.
type DiskStat struct {
	Major uint32 `json:"major" yaml:"major"`
	Minor uint32 `json:"minor" yaml:"minor"`
	Name  string `json:"name" yaml:"name"`

	ReadsCompleted  uint64 `json:"reads_completed" yaml:"reads_completed"`
	ReadsMerged     uint64 `json:"reads_merged" yaml:"reads_merged"`
	SectorsRead     uint64 `json:"sectors_read" yaml:"sectors_read"`
	ReadTimeMs      uint64 `json:"read_time_ms" yaml:"read_time_ms"`
	WritesCompleted uint64 `json:"writes_completed" yaml:"writes_completed"`
	WritesMerged    uint64 `json:"writes_merged" yaml:"writes_merged"`
	SectorsWritten  uint64 `json:"sectors_written" yaml:"sectors_written"`
	WriteTimeMs     uint64 `json:"write_time_ms" yaml:"write_time_ms"`
	IOsInProgress   uint64 `json:"ios_in_progress" yaml:"ios_in_progress"`
	IOTimeMs        uint64 `json:"io_time_ms" yaml:"io_time_ms"`
	WeightedIOMs    uint64 `json:"weighted_io_time_ms" yaml:"weighted_io_time_ms"`

	DiscardsCompleted field.Maybe[uint64] `json:"discards_completed" yaml:"discards_completed"` // 4.18
	DiscardsMerged    field.Maybe[uint64] `json:"discards_merged" yaml:"discards_merged"`       // 4.18
	SectorsDiscarded  field.Maybe[uint64] `json:"sectors_discarded" yaml:"sectors_discarded"`   // 4.18
	DiscardTimeMs     field.Maybe[uint64] `json:"discard_time_ms" yaml:"discard_time_ms"`       // 4.18
	FlushesCompleted  field.Maybe[uint64] `json:"flushes_completed" yaml:"flushes_completed"`   // 5.5
	FlushTimeMs       field.Maybe[uint64] `json:"flush_time_ms" yaml:"flush_time_ms"`           // 5.5
}

// ParseDiskStat decodes one diskstats line: 14 mandatory columns and up to 6
// version-optional ones.
func ParseDiskStat(line string) (DiskStat, error) {
	r := field.NewReader(token.Fields(line), 0)
	d := DiskStat{
		Major: r.Uint32("major"),
		Minor: r.Uint32("minor"),
		Name:  r.Next("name"),

		ReadsCompleted:  r.Uint64("reads_completed"),
		ReadsMerged:     r.Uint64("reads_merged"),
		SectorsRead:     r.Uint64("sectors_read"),
		ReadTimeMs:      r.Uint64("read_time_ms"),
		WritesCompleted: r.Uint64("writes_completed"),
		WritesMerged:    r.Uint64("writes_merged"),
		SectorsWritten:  r.Uint64("sectors_written"),
		WriteTimeMs:     r.Uint64("write_time_ms"),
		IOsInProgress:   r.Uint64("ios_in_progress"),
		IOTimeMs:        r.Uint64("io_time_ms"),
		WeightedIOMs:    r.Uint64("weighted_io_time_ms"),
	}
	if err := r.Err(); err != nil {
		return DiskStat{}, err
	}
	_, err := field.Tail(r.Rest(), "diskstats_tail",
		field.Into(&d.DiscardsCompleted, "discards_completed", field.Uint64),
		field.Into(&d.DiscardsMerged, "discards_merged", field.Uint64),
		field.Into(&d.SectorsDiscarded, "sectors_discarded", field.Uint64),
		field.Into(&d.DiscardTimeMs, "discard_time_ms", field.Uint64),
		field.Into(&d.FlushesCompleted, "flushes_completed", field.Uint64),
		field.Into(&d.FlushTimeMs, "flush_time_ms", field.Uint64),
	)
	if err != nil {
		return DiskStat{}, err
	}
	return d, nil
}

// ParseDiskStats decodes /proc/diskstats.
func ParseDiskStats(text string) ([]DiskStat, error) {
	lines := token.Lines(text)
	out := make([]DiskStat, 0, len(lines))
	for i, line := range lines {
		d, err := ParseDiskStat(line)
		if err != nil {
			return nil, procerr.At(err, "diskstats", i+1)
		}
		out = append(out, d)
	}
	return out, nil
}
