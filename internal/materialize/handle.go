package materialize

import (
	"context"
	"image"
	"sync/atomic"
)

// State is the lifecycle position of a materialization task.
// Transitions are monotonic: Pending → Running → Completed or Failed.
// A task rejected by a closed pool passes through Running before it fails.
type State int32

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the task has finished.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Handle is the caller's view of one submitted task.
type Handle struct {
	input Input
	state atomic.Int32
	done  chan struct{}

	// img and err are written once before done is closed.
	img image.Image
	err error
}

func newHandle(in Input) *Handle {
	return &Handle{
		input: in,
		done:  make(chan struct{}),
	}
}

// Input returns what was submitted.
func (h *Handle) Input() Input {
	return h.input
}

// State returns the current task state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Done is closed once the task reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finishes or ctx is done. Giving up on ctx does not
// cancel the task; a later Wait still gets its result.
func (h *Handle) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-h.done:
		return h.img, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) start() bool {
	return h.state.CompareAndSwap(int32(StatePending), int32(StateRunning))
}

func (h *Handle) finish(img image.Image, err error) {
	h.img = img
	h.err = err

	if err != nil {
		h.state.Store(int32(StateFailed))
	} else {
		h.state.Store(int32(StateCompleted))
	}

	close(h.done)
}
