// Package workpool provides a bounded pool of on-demand workers fed by an
// unbounded FIFO queue.
package workpool

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"

	"github.com/smykla-skalski/hyperfind/pkg/logger"
)

const (
	// DefaultWorkers is the default maximum number of concurrently running tasks.
	DefaultWorkers = 16

	// DefaultIdleTimeout is how long a surplus worker waits for work before exiting.
	DefaultIdleTimeout = 500 * time.Millisecond
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("worker pool is closed")

// Config holds pool sizing.
type Config struct {
	// Workers is the maximum number of tasks running at once.
	// Default: 16
	Workers int

	// MinWorkers is the number of workers kept alive while idle.
	// Default: 0
	MinWorkers int

	// IdleTimeout is how long a worker above MinWorkers waits for work before exiting.
	// Default: 500ms
	IdleTimeout time.Duration
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() Config {
	return Config{
		Workers:     DefaultWorkers,
		IdleTimeout: DefaultIdleTimeout,
	}
}

func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}

	c.MinWorkers = max(0, min(c.MinWorkers, c.Workers))

	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}

	return c
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	Queued      int
	Running     int
	Workers     int
	PeakRunning int
	Completed   uint64
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Pool) {
		p.log = log
	}
}

// Pool runs submitted functions on at most Config.Workers goroutines.
// Submit never blocks; work waits in FIFO order until a worker is free.
type Pool struct {
	cfg   Config
	log   logger.Logger
	slots *semaphore.Weighted

	mu     sync.Mutex
	queue  []func()
	idle   []chan struct{}
	closed bool
	wg     sync.WaitGroup

	workers     int
	running     int
	peakRunning int
	completed   uint64
}

// New creates a pool. No workers start until work is submitted.
func New(cfg Config, opts ...Option) *Pool {
	cfg = cfg.normalized()

	p := &Pool{
		cfg:   cfg,
		log:   logger.NewNoOpLogger(),
		slots: semaphore.NewWeighted(int64(cfg.Workers)),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Config returns the effective configuration.
func (p *Pool) Config() Config {
	return p.cfg
}

// Submit queues fn. It returns ErrClosed once Close has been called.
func (p *Pool) Submit(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.queue = append(p.queue, fn)

	if n := len(p.idle); n > 0 {
		wake := p.idle[n-1]
		p.idle = p.idle[:n-1]
		wake <- struct{}{}

		return nil
	}

	if p.slots.TryAcquire(1) {
		p.workers++
		p.wg.Add(1)

		go p.work()
	}

	return nil
}

// Close stops accepting work and waits for every queued task to finish.
func (p *Pool) Close() {
	p.mu.Lock()

	if !p.closed {
		p.closed = true

		for _, wake := range p.idle {
			wake <- struct{}{}
		}

		p.idle = nil
	}

	p.mu.Unlock()

	p.wg.Wait()
}

// Stats returns current counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Queued:      len(p.queue),
		Running:     p.running,
		Workers:     p.workers,
		PeakRunning: p.peakRunning,
		Completed:   p.completed,
	}
}

func (p *Pool) work() {
	defer p.wg.Done()

	wake := make(chan struct{}, 1)
	timer := time.NewTimer(p.cfg.IdleTimeout)
	timer.Stop()

	defer timer.Stop()

	for {
		fn, ok := p.take(wake)
		if ok {
			p.run(fn)

			continue
		}

		if p.retireIfClosed() {
			return
		}

		timer.Reset(p.cfg.IdleTimeout)

		select {
		case <-wake:
			timer.Stop()
		case <-timer.C:
			if p.retireIfIdle(wake) {
				return
			}
		}
	}
}

// take pops the next task, or registers the worker as idle when there is none.
func (p *Pool) take(wake chan struct{}) (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) > 0 {
		fn := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.running++
		p.peakRunning = max(p.peakRunning, p.running)

		return fn, true
	}

	if !p.closed {
		p.idle = append(p.idle, wake)
	}

	return nil, false
}

func (p *Pool) retireIfClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed || len(p.queue) > 0 {
		return false
	}

	p.retireLocked()

	return true
}

// retireIfIdle handles an idle timeout. A worker that was woken concurrently
// with the timeout keeps going.
func (p *Pool) retireIfIdle(wake chan struct{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := slices.Index(p.idle, wake)
	if i < 0 {
		// Submit or Close already took us off the idle list and signalled.
		<-wake

		return false
	}

	p.idle = slices.Delete(p.idle, i, i+1)

	if len(p.queue) > 0 || p.workers <= p.cfg.MinWorkers {
		return false
	}

	p.retireLocked()

	return true
}

func (p *Pool) retireLocked() {
	p.workers--
	p.slots.Release(1)
}

func (p *Pool) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", "panic", fmt.Sprint(r))
		}

		p.mu.Lock()
		p.running--
		p.completed++
		p.mu.Unlock()
	}()

	fn()
}
