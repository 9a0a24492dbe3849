package process

// ProcessID represents a unique identifier for a process
type ProcessID int

// Self is the pseudo process id that resolves to the reading process
const Self ProcessID = -1

// ProcessInfo contains basic information about a process, assembled from its
// stat and status files
type ProcessInfo struct {
	PID       ProcessID    // Process ID
	PPID      ProcessID    // Parent Process ID
	Name      string       // Command name from stat
	State     ProcessState // Process state (R, S, D, Z, etc.)
	UID       uint32       // Effective UID from status
	Threads   int64        // Number of threads
	Memory    uint64       // Resident Set Size in bytes
	StartTime uint64       // Start time after boot, in clock ticks
}
