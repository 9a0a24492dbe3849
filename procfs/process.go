package procfs

import (
	"strconv"

	"procread/process"
	"procread/process/memory_map"
	"procread/token"
)

// Maps reads /proc/[pid]/maps.
func (fs *FS) Maps(pid process.ProcessID) (memory_map.Maps, error) {
	text, err := fs.read(pidDir(pid), "maps")
	if err != nil {
		return nil, err
	}
	mm, err := memory_map.Parse(text)
	if err != nil {
		return nil, err
	}
	if fs.unescape {
		for i := range mm {
			if p, ok := mm[i].Path.(memory_map.Path); ok {
				mm[i].Path = memory_map.Path{Name: token.UnescapeOctal(p.Name)}
			}
		}
	}
	return mm, nil
}

// Stat reads /proc/[pid]/stat.
func (fs *FS) Stat(pid process.ProcessID) (process.StatusLine, error) {
	text, err := fs.read(pidDir(pid), "stat")
	if err != nil {
		return process.StatusLine{}, err
	}
	return process.ParseStat(text)
}

// ThreadStat reads /proc/[pid]/task/[tid]/stat. The thread has to be named;
// listing the task directory is left to the caller.
func (fs *FS) ThreadStat(pid, tid process.ProcessID) (process.StatusLine, error) {
	text, err := fs.read(pidDir(pid), "task", strconv.Itoa(int(tid)), "stat")
	if err != nil {
		return process.StatusLine{}, err
	}
	return process.ParseStat(text)
}

// Statm reads /proc/[pid]/statm. Values are in pages; see process.Statm.Bytes.
func (fs *FS) Statm(pid process.ProcessID) (process.Statm, error) {
	text, err := fs.read(pidDir(pid), "statm")
	if err != nil {
		return process.Statm{}, err
	}
	return process.ParseStatm(text)
}

// Status reads /proc/[pid]/status.
func (fs *FS) Status(pid process.ProcessID) (process.Status, error) {
	text, err := fs.read(pidDir(pid), "status")
	if err != nil {
		return nil, err
	}
	return process.ParseStatus(text)
}

// Info reads stat and status of pid and summarizes them.
func (fs *FS) Info(pid process.ProcessID) (process.ProcessInfo, error) {
	stat, err := fs.Stat(pid)
	if err != nil {
		return process.ProcessInfo{}, err
	}
	status, err := fs.Status(pid)
	if err != nil {
		return process.ProcessInfo{}, err
	}
	return process.Summarize(stat, status, PageSize())
}

// Environ reads /proc/[pid]/environ, which needs ptrace access to pid.
func (fs *FS) Environ(pid process.ProcessID) (process.Environ, error) {
	return readAs(fs, process.ParseEnviron, pidDir(pid), "environ")
}

func (fs *FS) Cmdline(pid process.ProcessID) (process.Cmdline, error) {
	return readAs(fs, process.ParseCmdline, pidDir(pid), "cmdline")
}

func (fs *FS) Comm(pid process.ProcessID) (string, error) {
	return readAs(fs, process.ParseComm, pidDir(pid), "comm")
}
