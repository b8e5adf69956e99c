// Package filesystem serves result objects from a directory tree.
package filesystem

import (
	"bytes"
	"context"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/internal/materialize"
)

const (
	attrData = ""
	attrRows = "_rows.int"
	attrCols = "_cols.int"
)

var (
	// ErrInvalidRoot is returned when the backend root is not a directory.
	ErrInvalidRoot = errors.New("invalid backend root")

	// ErrInvalidID is returned for identifiers that are not clean relative paths.
	ErrInvalidID = errors.New("invalid object identifier")
)

// Backend resolves object identifiers as slash-separated paths below a root.
type Backend struct {
	root string
	fsys fs.FS
}

// New creates a Backend rooted at dir.
func New(dir string) (*Backend, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRoot, err.Error())
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRoot, err.Error())
	}

	if !info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidRoot, "%s is not a directory", abs)
	}

	return &Backend{root: abs, fsys: os.DirFS(abs)}, nil
}

// Root returns the absolute root directory.
func (b *Backend) Root() string {
	return b.root
}

// GenerateResult reads the object named by id.
func (b *Backend) GenerateResult(ctx context.Context, id materialize.ObjectID, attrs []string) (*materialize.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := strings.TrimPrefix(string(id), "./")
	if !fs.ValidPath(name) || name == "." {
		return nil, errors.Wrapf(ErrInvalidID, "%q", id)
	}

	data, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", id)
	}

	return result(data, attrs), nil
}

// GenerateResultFromBytes returns data as the object itself.
func (*Backend) GenerateResultFromBytes(ctx context.Context, data []byte, attrs []string) (*materialize.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return result(slices.Clone(data), attrs), nil
}

func result(data []byte, attrs []string) *materialize.Result {
	res := &materialize.Result{Attributes: map[string][]byte{}}

	if slices.Contains(attrs, attrData) {
		res.Data = data
	}

	if !slices.Contains(attrs, attrRows) && !slices.Contains(attrs, attrCols) {
		return res
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return res
	}

	if slices.Contains(attrs, attrRows) {
		res.Attributes[attrRows] = materialize.IntAttribute(cfg.Height)
	}

	if slices.Contains(attrs, attrCols) {
		res.Attributes[attrCols] = materialize.IntAttribute(cfg.Width)
	}

	return res
}
