package process

import "procread/field"

// ProcessState represents the state of a process
type ProcessState string

const (
	ProcessRunning    ProcessState = "R" // Running
	ProcessSleeping   ProcessState = "S" // Sleeping in an interruptible wait
	ProcessWaiting    ProcessState = "D" // Waiting in uninterruptible disk sleep
	ProcessZombie     ProcessState = "Z" // Zombie
	ProcessStopped    ProcessState = "T" // Stopped (on a signal)
	ProcessTracingStp ProcessState = "t" // Tracing stop
	ProcessPaging     ProcessState = "W" // Paging (before 2.6.0) or waking
	ProcessDead       ProcessState = "X" // Dead
	ProcessDeadOld    ProcessState = "x" // Dead (2.6.33 to 3.13)
	ProcessWakekill   ProcessState = "K" // Wakekill (2.6.33 to 3.13)
	ProcessParked     ProcessState = "P" // Parked
	ProcessIdle       ProcessState = "I" // Idle kernel thread (4.14+)
)

var stateVocabulary = field.Vocabulary[ProcessState]{
	"R": ProcessRunning,
	"S": ProcessSleeping,
	"D": ProcessWaiting,
	"Z": ProcessZombie,
	"T": ProcessStopped,
	"t": ProcessTracingStp,
	"W": ProcessPaging,
	"X": ProcessDead,
	"x": ProcessDeadOld,
	"K": ProcessWakekill,
	"P": ProcessParked,
	"I": ProcessIdle,
}

// ParseState decodes a single state letter. Letters the vocabulary does not
// know are errors.
func ParseState(tok string) (ProcessState, error) {
	return stateVocabulary.Parse(tok, "state")
}
