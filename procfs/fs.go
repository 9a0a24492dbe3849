// Package procfs reads files from a procfs mount and hands their text to the
// decoders in process, process/memory_map, system and network.
//
// Every read fetches the whole file once. A failed read is a
// procerr.KindUnavailable error; a decoder error is returned unchanged.
package procfs

import (
	"os"
	"path/filepath"
	"strconv"

	"procread/procerr"
	"procread/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// DefaultRoot is where procfs is normally mounted.
const DefaultRoot = "/proc"

// FS is a procfs mount. The zero value is not usable; call NewFS.
type FS struct {
	root     string
	log      *logger.Logger
	unescape bool
}

// Option configures an FS.
type Option func(*FS)

// WithLogger replaces the default logger.
func WithLogger(log *logger.Logger) Option {
	return func(fs *FS) { fs.log = log }
}

// WithUnescapedPaths decodes the kernel's \NNN escapes in mapping and mount
// paths. Without it the escapes are returned as the kernel printed them.
func WithUnescapedPaths(on bool) Option {
	return func(fs *FS) { fs.unescape = on }
}

// NewFS opens the procfs tree at root.
func NewFS(root string, opts ...Option) (*FS, error) {
	if root == "" {
		root = DefaultRoot
	}
	fs := &FS{
		root: root,
		log:  logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "procfs")),
	}
	for _, opt := range opts {
		opt(fs)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fs.unavailable(root, err)
	}
	if !info.IsDir() {
		return nil, procerr.Unavailable(root, "not-dir", nil)
	}
	return fs, nil
}

func (fs *FS) Root() string {
	return fs.root
}

func (fs *FS) path(elem ...string) string {
	return filepath.Join(append([]string{fs.root}, elem...)...)
}

// pidDir names the directory of pid; process.Self reads the caller itself.
func pidDir(pid process.ProcessID) string {
	if pid == process.Self {
		return "self"
	}
	return strconv.Itoa(int(pid))
}

// read returns the whole content of the file at elem under the root.
func (fs *FS) read(elem ...string) (string, error) {
	p := fs.path(elem...)
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fs.unavailable(p, err)
	}
	fs.log.Debugln("read", p, len(b), "bytes")
	return string(b), nil
}

func (fs *FS) unavailable(p string, err error) error {
	reason := readFailure(err)
	fs.log.Warn("unavailable ", p, " (", reason, "): ", err)
	return procerr.Unavailable(p, reason, err)
}
