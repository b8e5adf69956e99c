package export

import (
	"context"
	"image"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-skalski/hyperfind/internal/materialize"
)

// Flavor names a form a batch can be transferred in.
type Flavor string

const (
	FlavorImage     Flavor = "image/png"
	FlavorURIList   Flavor = "text/uri-list"
	FlavorPlainText Flavor = "text/plain"
)

// Flavors returns every supported flavor.
func Flavors() []Flavor {
	return []Flavor{FlavorImage, FlavorURIList, FlavorPlainText}
}

// ParseFlavor accepts a MIME name or one of the short names "image",
// "uri-list" and "text".
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", string(FlavorImage):
		return FlavorImage, nil
	case "uri-list", string(FlavorURIList):
		return FlavorURIList, nil
	case "text", string(FlavorPlainText):
		return FlavorPlainText, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFlavor, "%q", s)
	}
}

// Batch is one export gesture: an ordered set of submitted tasks.
type Batch struct {
	ID uuid.UUID

	agg     *Aggregator
	handles []*materialize.Handle

	mu      sync.Mutex
	done    bool
	uriList string
	paths   []string
	err     error
}

// NewBatch submits every input in order before returning.
func (a *Aggregator) NewBatch(inputs []materialize.Input) *Batch {
	handles := make([]*materialize.Handle, 0, len(inputs))
	for _, in := range inputs {
		handles = append(handles, a.m.SubmitInput(in))
	}

	return &Batch{
		ID:      uuid.New(),
		agg:     a,
		handles: handles,
	}
}

// Len returns the number of items.
func (b *Batch) Len() int {
	return len(b.handles)
}

// Handles returns the submitted tasks in submission order.
func (b *Batch) Handles() []*materialize.Handle {
	return slices.Clone(b.handles)
}

// URIList joins every item in submission order, writes each image to a
// temporary artifact and returns one CRLF-terminated file URI per item.
// The result, or an item failure, is computed once per batch.
func (b *Batch) URIList(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return b.uriList, b.err
	}

	list, paths, err := b.build(ctx)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrAggregateFailed) {
		return "", err
	}

	b.done = true
	b.uriList, b.paths, b.err = list, paths, err

	return list, err
}

// Paths returns the artifact paths of a completed URI list.
func (b *Batch) Paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.paths)
}

// Image returns the first item's image.
func (b *Batch) Image(ctx context.Context) (image.Image, error) {
	if len(b.handles) == 0 {
		return nil, ErrEmptyBatch
	}

	img, err := b.agg.m.Join(ctx, b.handles[0])
	if err != nil {
		return nil, b.failure(ctx, 0, err)
	}

	return img, nil
}

// TransferData returns the batch in the requested flavor: an image.Image for
// FlavorImage, a string otherwise.
func (b *Batch) TransferData(ctx context.Context, f Flavor) (any, error) {
	switch f {
	case FlavorImage:
		return b.Image(ctx)
	case FlavorURIList, FlavorPlainText:
		return b.URIList(ctx)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFlavor, "%q", f)
	}
}

func (b *Batch) build(ctx context.Context) (string, []string, error) {
	if len(b.handles) == 0 {
		return "", nil, ErrEmptyBatch
	}

	var sb strings.Builder

	paths := make([]string, 0, len(b.handles))

	for i, h := range b.handles {
		img, err := b.agg.m.Join(ctx, h)
		if err != nil {
			return "", nil, b.failure(ctx, i, err)
		}

		path, err := b.agg.reg.WritePNG(img)
		if err != nil {
			return "", nil, b.failure(ctx, i, err)
		}

		uri, err := FileURI(path)
		if err != nil {
			return "", nil, b.failure(ctx, i, err)
		}

		paths = append(paths, path)

		sb.WriteString(uri)
		sb.WriteString("\r\n")
	}

	return sb.String(), paths, nil
}

// failure wraps an item error unless the caller's context ended.
func (b *Batch) failure(ctx context.Context, index int, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}

	b.agg.log.Error("aggregate export failed", "batch", b.ID.String(), "index", index, "error", err)

	return &AggregateFailure{Batch: b.ID, Index: index, Err: err}
}

// FileURI returns the file URI of path, made absolute.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}

	return fileURL(abs).String(), nil
}
