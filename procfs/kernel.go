package procfs

import (
	"strconv"
	"strings"

	"procread/procerr"
)

// Release is a parsed kernel release such as "6.1.0-13-amd64".
type Release struct {
	Major, Minor, Patch int
	Raw                 string
}

// ParseRelease reads the leading major.minor[.patch] numbers of a release
// string and ignores any local version suffix.
func ParseRelease(s string) (Release, error) {
	s = strings.TrimSpace(s)
	r := Release{Raw: s}
	head := s
	if i := strings.IndexAny(head, "-+~_ "); i >= 0 {
		head = head[:i]
	}
	parts := strings.Split(head, ".")
	if len(parts) < 2 {
		return Release{}, procerr.Malformed("release", s, "expected major.minor")
	}
	dst := []*int{&r.Major, &r.Minor, &r.Patch}
	for i, p := range parts {
		if i >= len(dst) {
			break
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Release{}, procerr.Numeric("release", p, err)
		}
		*dst[i] = n
	}
	return r, nil
}

// AtLeast reports whether r is major.minor or newer.
func (r Release) AtLeast(major, minor int) bool {
	if r.Major != major {
		return r.Major > major
	}
	return r.Minor >= minor
}

// PrintsThreadStacks reports whether maps on this kernel can carry
// "[stack:tid]" pathnames. They were dropped in 4.5.
func (r Release) PrintsThreadStacks() bool {
	return !r.AtLeast(4, 5)
}

func (r Release) String() string {
	return r.Raw
}

// KernelRelease returns the release of the kernel that serves the tree,
// read from sys/kernel/osrelease under the root. When that file is missing
// the release of the running kernel is used.
func (fs *FS) KernelRelease() (Release, error) {
	text, err := fs.read("sys", "kernel", "osrelease")
	if err != nil {
		raw, uerr := runningRelease()
		if uerr != nil {
			return Release{}, err
		}
		fs.log.Debugln("osrelease unavailable, using uname release", raw)
		text = raw
	}
	return ParseRelease(text)
}
