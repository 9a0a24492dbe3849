//go:build !linux

package procfs

import (
	"errors"
	"io/fs"
	"os"
)

var errNoUname = errors.New("kernel release is only available on linux")

func runningRelease() (string, error) {
	return "", errNoUname
}

func PageSize() uint64 {
	return uint64(os.Getpagesize())
}

func readFailure(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not-exist"
	case errors.Is(err, fs.ErrPermission):
		return "permission"
	default:
		return "io"
	}
}
