// Package process decodes the per-process files under /proc/[pid]: stat,
// statm and status. The maps grammar lives in the memory_map subpackage.
//
// Decoders take the text of a file and never touch the filesystem; see the
// procfs package for readers.
package process

// Summarize combines stat and status into a ProcessInfo. Memory is taken from
// VmRSS when status reports it and from the stat rss page count otherwise.
func Summarize(stat StatusLine, status Status, pageSize uint64) (ProcessInfo, error) {
	info := ProcessInfo{
		PID:       ProcessID(stat.PID),
		PPID:      ProcessID(stat.PPID),
		Name:      stat.Comm,
		State:     stat.State,
		Threads:   stat.NumThreads,
		StartTime: stat.StartTime,
	}

	uid, err := status.Uid()
	if err != nil {
		return ProcessInfo{}, err
	}
	info.UID = uid.Effective

	rss, err := status.VmRSS()
	if err != nil {
		return ProcessInfo{}, err
	}
	if kb, ok := rss.Get(); ok {
		info.Memory = kb * 1024
	} else if stat.RSS > 0 {
		info.Memory = uint64(stat.RSS) * pageSize
	}
	return info, nil
}
