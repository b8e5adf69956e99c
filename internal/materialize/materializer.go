// Package materialize turns result identifiers or raw bytes into decoded images
// on a bounded worker pool, handing out future-style handles.
package materialize

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/internal/workpool"
	"github.com/smykla-skalski/hyperfind/pkg/logger"
)

// Option configures a Materializer.
type Option func(*Materializer)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(m *Materializer) {
		m.log = log
	}
}

// WithAttributes overrides the attributes requested for by-identifier inputs.
func WithAttributes(attrs []string) Option {
	return func(m *Materializer) {
		if len(attrs) > 0 {
			m.attrs = append([]string(nil), attrs...)
		}
	}
}

// WithContext sets the context passed to backend calls. Cancelling it aborts
// backend work that honors contexts; it does not affect Wait.
func WithContext(ctx context.Context) Option {
	return func(m *Materializer) {
		m.ctx = ctx
	}
}

// Materializer submits materialization tasks to a pool it does not own.
type Materializer struct {
	pool    *workpool.Pool
	backend Backend
	log     logger.Logger
	attrs   []string
	ctx     context.Context //nolint:containedctx // lifetime of backend calls, set once at construction
}

// New creates a Materializer running tasks on pool against backend.
func New(pool *workpool.Pool, backend Backend, opts ...Option) *Materializer {
	m := &Materializer{
		pool:    pool,
		backend: backend,
		log:     logger.NewNoOpLogger(),
		attrs:   DefaultImageAttributes,
		ctx:     context.Background(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Submit schedules materialization of a backend object. It never blocks.
func (m *Materializer) Submit(id ObjectID) *Handle {
	return m.SubmitInput(FromID(id))
}

// SubmitBytes schedules materialization of raw object bytes. It never blocks.
func (m *Materializer) SubmitBytes(data []byte) *Handle {
	return m.SubmitInput(FromBytes("", data))
}

// SubmitInput schedules either kind of input. It never blocks.
func (m *Materializer) SubmitInput(in Input) *Handle {
	h := newHandle(in)

	if err := m.pool.Submit(func() { m.run(h) }); err != nil {
		h.start()
		h.finish(nil, &Error{Input: in, Err: err})
	}

	return h
}

// Join waits for h and logs a failure.
func (m *Materializer) Join(ctx context.Context, h *Handle) (image.Image, error) {
	img, err := h.Wait(ctx)
	if err != nil && errors.Is(err, ErrMaterialization) {
		m.log.Error("materialization failed", "input", h.Input().String(), "error", err)
	}

	return img, err
}

func (m *Materializer) run(h *Handle) {
	if !h.start() {
		return
	}

	start := time.Now()
	img, err := m.materialize(h.input)

	if err != nil {
		h.finish(nil, &Error{Input: h.input, Err: err})

		return
	}

	m.log.Debug("materialized",
		"input", h.input.String(),
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"elapsed", time.Since(start),
	)

	h.finish(img, nil)
}

func (m *Materializer) materialize(in Input) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = errors.Newf("backend panicked: %s", fmt.Sprint(r))
		}
	}()

	var res *Result

	if in.IsBytes() {
		res, err = m.backend.GenerateResultFromBytes(m.ctx, in.Data, m.attrs)
	} else {
		res, err = m.backend.GenerateResult(m.ctx, in.ID, m.attrs)
	}

	if err != nil {
		return nil, errors.Wrap(err, "backend")
	}

	img, format, err := Decode(res)
	if err != nil {
		return nil, err
	}

	m.checkDimensions(in, res, img, format)

	return img, nil
}

// checkDimensions logs when the backend's size attributes disagree with the decoded image.
func (m *Materializer) checkDimensions(in Input, res *Result, img image.Image, format string) {
	rows, rowsOK := intAttribute(res, "_rows.int")
	cols, colsOK := intAttribute(res, "_cols.int")

	if !rowsOK || !colsOK {
		return
	}

	if b := img.Bounds(); b.Dy() != rows || b.Dx() != cols {
		m.log.Debug("backend dimensions differ from decoded image",
			"input", in.String(),
			"format", format,
			"rows", rows,
			"cols", cols,
			"width", b.Dx(),
			"height", b.Dy(),
		)
	}
}
