//go:build linux

package procfs

import (
	"errors"

	"golang.org/x/sys/unix"
)

func runningRelease() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

// PageSize is the size in bytes of the pages statm counts in.
func PageSize() uint64 {
	return uint64(unix.Getpagesize())
}

func readFailure(err error) string {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ESRCH):
		return "not-exist"
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return "permission"
	default:
		return "io"
	}
}
