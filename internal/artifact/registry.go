// Package artifact manages temporary image files handed out by location.
package artifact

import (
	"bufio"
	"image"
	"image/png"
	"os"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultPrefix is the file name prefix of temporary artifacts.
	DefaultPrefix = "hyperfind-export-"

	// DefaultSuffix is the file name suffix of temporary artifacts.
	DefaultSuffix = ".png"
)

// ErrWriteFailed is returned when an artifact cannot be written.
var ErrWriteFailed = errors.New("failed to write artifact")

// Registry tracks temporary artifacts for removal at shutdown.
// It is safe for concurrent use.
type Registry struct {
	dir    string
	prefix string
	suffix string

	mu    sync.Mutex
	paths []string
}

// NewRegistry creates a registry writing into dir. An empty dir means the
// platform temporary directory; empty prefix or suffix select the defaults.
func NewRegistry(dir, prefix, suffix string) *Registry {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	if suffix == "" {
		suffix = DefaultSuffix
	}

	return &Registry{
		dir:    dir,
		prefix: prefix,
		suffix: suffix,
	}
}

// Dir returns the directory artifacts are written to.
func (r *Registry) Dir() string {
	if r.dir == "" {
		return os.TempDir()
	}

	return r.dir
}

// WritePNG encodes img into a new uniquely named file and tracks it.
func (r *Registry) WritePNG(img image.Image) (string, error) {
	if img == nil {
		return "", errors.Wrap(ErrWriteFailed, "image is nil")
	}

	f, err := os.CreateTemp(r.dir, r.prefix+"*"+r.suffix)
	if err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	path := f.Name()

	w := bufio.NewWriter(f)

	err = png.Encode(w, img)
	if err == nil {
		err = w.Flush()
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(path)

		return "", errors.Wrapf(ErrWriteFailed, "%s: %v", path, err)
	}

	r.track(path)

	return path, nil
}

// Paths returns the tracked artifacts in creation order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.paths)
}

// Cleanup removes every tracked artifact. Files already gone are ignored;
// other failures are collected and the rest are still attempted.
func (r *Registry) Cleanup() error {
	r.mu.Lock()
	paths := r.paths
	r.paths = nil
	r.mu.Unlock()

	var errs []error

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, errors.Wrapf(err, "removing %s", p))
		}
	}

	return errors.Join(errs...)
}

func (r *Registry) track(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}
