// Package export composes materializations into transfer payloads and
// grouped downloads.
package export

import (
	"context"

	"github.com/google/uuid"

	"github.com/smykla-skalski/hyperfind/internal/artifact"
	"github.com/smykla-skalski/hyperfind/internal/materialize"
	"github.com/smykla-skalski/hyperfind/pkg/logger"
)

// DefaultDownloadSubpath is created under a grouped download destination.
const DefaultDownloadSubpath = "hyperfind-download"

// DefaultMarkers are the labels results were historically sorted into.
var DefaultMarkers = []string{"True-Pos", "False-Pos", "False-Neg"}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(a *Aggregator) {
		a.log = log
	}
}

// WithDownloadSubpath overrides the directory created under a download destination.
func WithDownloadSubpath(subpath string) Option {
	return func(a *Aggregator) {
		if subpath != "" {
			a.subpath = subpath
		}
	}
}

// Aggregator runs export operations against a shared materializer.
type Aggregator struct {
	m       *materialize.Materializer
	reg     *artifact.Registry
	log     logger.Logger
	subpath string
}

// NewAggregator creates an Aggregator.
func NewAggregator(m *materialize.Materializer, reg *artifact.Registry, opts ...Option) *Aggregator {
	a := &Aggregator{
		m:       m,
		reg:     reg,
		log:     logger.NewNoOpLogger(),
		subpath: DefaultDownloadSubpath,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Payload is the result of a successful aggregate export.
type Payload struct {
	Batch   uuid.UUID
	URIList string
	Paths   []string
}

// ExportAggregate materializes every input and returns the URI list of their
// artifacts, or the first failure.
func (a *Aggregator) ExportAggregate(ctx context.Context, inputs []materialize.Input) (*Payload, error) {
	b := a.NewBatch(inputs)

	list, err := b.URIList(ctx)
	if err != nil {
		return nil, err
	}

	a.log.Info("aggregate exported", "batch", b.ID.String(), "items", b.Len())

	return &Payload{
		Batch:   b.ID,
		URIList: list,
		Paths:   b.Paths(),
	}, nil
}
