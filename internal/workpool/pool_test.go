package workpool_test

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hyperfind/internal/workpool"
)

var _ = Describe("Pool", func() {
	It("should never run more than the configured number of tasks", func() {
		pool := workpool.New(workpool.Config{Workers: 16, IdleTimeout: time.Second})
		defer pool.Close()

		var (
			running atomic.Int32
			peak    atomic.Int32
			wg      sync.WaitGroup
		)

		for range 100 {
			wg.Add(1)

			Expect(pool.Submit(func() {
				defer wg.Done()

				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}

				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
			})).To(Succeed())

			Expect(pool.Stats().Running).To(BeNumerically("<=", 16))
		}

		wg.Wait()

		Expect(peak.Load()).To(BeNumerically("<=", 16))
		Expect(peak.Load()).To(BeNumerically(">", 1))

		stats := pool.Stats()
		Expect(stats.PeakRunning).To(BeNumerically("<=", 16))
		Expect(stats.Workers).To(BeNumerically("<=", 16))
		Eventually(func() uint64 { return pool.Stats().Completed }).Should(Equal(uint64(100)))
	})

	It("should not block Submit when every worker is busy", func() {
		pool := workpool.New(workpool.Config{Workers: 2})
		gate := make(chan struct{})

		start := time.Now()
		for range 500 {
			Expect(pool.Submit(func() { <-gate })).To(Succeed())
		}

		Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		Eventually(func() int { return pool.Stats().Running }).Should(Equal(2))
		Expect(pool.Stats().Queued).To(Equal(498))

		close(gate)
		pool.Close()
		Expect(pool.Stats().Completed).To(Equal(uint64(500)))
	})

	It("should run tasks in submission order on a single worker", func() {
		pool := workpool.New(workpool.Config{Workers: 1})

		var (
			mu    sync.Mutex
			order []int
		)

		for i := range 20 {
			Expect(pool.Submit(func() {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			})).To(Succeed())
		}

		pool.Close()

		Expect(order).To(HaveLen(20))
		for i, v := range order {
			Expect(v).To(Equal(i))
		}
	})

	It("should retire idle workers after the timeout", func() {
		pool := workpool.New(workpool.Config{Workers: 4, IdleTimeout: 20 * time.Millisecond})
		defer pool.Close()

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			Expect(pool.Submit(func() {
				time.Sleep(10 * time.Millisecond)
				wg.Done()
			})).To(Succeed())
		}

		wg.Wait()

		Eventually(func() int { return pool.Stats().Workers }).Should(BeZero())

		done := make(chan struct{})
		Expect(pool.Submit(func() { close(done) })).To(Succeed())
		Eventually(done).Should(BeClosed())
	})

	It("should keep MinWorkers alive while idle", func() {
		pool := workpool.New(workpool.Config{Workers: 4, MinWorkers: 2, IdleTimeout: 10 * time.Millisecond})
		defer pool.Close()

		gate := make(chan struct{})
		for range 4 {
			Expect(pool.Submit(func() { <-gate })).To(Succeed())
		}

		Eventually(func() int { return pool.Stats().Workers }).Should(Equal(4))
		close(gate)

		Eventually(func() int { return pool.Stats().Workers }).Should(Equal(2))
		Consistently(func() int { return pool.Stats().Workers }, 100*time.Millisecond).Should(Equal(2))
	})

	It("should drain queued work on Close and reject later submissions", func() {
		pool := workpool.New(workpool.Config{Workers: 3})

		var done atomic.Int32
		for range 30 {
			Expect(pool.Submit(func() {
				time.Sleep(time.Millisecond)
				done.Add(1)
			})).To(Succeed())
		}

		pool.Close()
		Expect(done.Load()).To(Equal(int32(30)))

		err := pool.Submit(func() {})
		Expect(errors.Is(err, workpool.ErrClosed)).To(BeTrue())

		Expect(pool.Stats().Workers).To(BeZero())
		pool.Close()
	})

	It("should survive a panicking task", func() {
		pool := workpool.New(workpool.Config{Workers: 1})

		ran := make(chan struct{})
		Expect(pool.Submit(func() { panic("decoder exploded") })).To(Succeed())
		Expect(pool.Submit(func() { close(ran) })).To(Succeed())

		Eventually(ran).Should(BeClosed())
		pool.Close()
		Expect(pool.Stats().Completed).To(Equal(uint64(2)))
	})

	It("should normalize an empty config to the defaults", func() {
		pool := workpool.New(workpool.Config{})
		defer pool.Close()

		Expect(pool.Config()).To(Equal(workpool.DefaultConfig()))
	})
})
