// Package dispatch fans independent samples out to a fixed pool of workers
// and merges their results on the calling goroutine.
//
// Worker j of W handles every index i with i%W == j. Results travel over one
// channel to a single consumer, so the merge function never runs concurrently
// with itself and needs no locking.
package dispatch

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	fractal "github.com/lesguillemets/rgae"
)

// Pool runs work over n indices with a fixed number of workers.
type Pool[R any] struct {
	Workers int
	// Buffer is the result channel capacity; 0 means 4 per worker.
	Buffer int

	// OnProgress is called from the merging goroutine after roughly every
	// percent of merged results and once at the end.
	OnProgress func(done, total int)

	// Checkpoint is called from the merging goroutine at most once per
	// CheckpointEvery while results are still arriving.
	CheckpointEvery time.Duration
	Checkpoint      func() error
}

// Run starts p.Workers workers. Each calls newWorker once to get its own
// compute function (so scratch state stays worker-local) and applies it to its
// stride of [0, n). merge is called exactly once per index, in arrival order.
// Run returns after every result has been merged, or with the first error
// from merge, Checkpoint, or a panicking worker.
func (p *Pool[R]) Run(n int, newWorker func() func(i int) R, merge func(R) error) error {
	w := p.Workers
	if w <= 0 {
		return fmt.Errorf("%w: worker count %d", fractal.ErrInvalidConfig, w)
	}
	buf := p.Buffer
	if buf <= 0 {
		buf = 4 * w
	}

	results := make(chan R, buf)
	done := make(chan struct{})
	var (
		abortOnce sync.Once
		workerErr error
	)
	abort := func(err error) {
		abortOnce.Do(func() {
			workerErr = err
			close(done)
		})
	}

	var wg sync.WaitGroup
	for j := range w {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					abort(fmt.Errorf("%w: worker %d: %v\n%s", fractal.ErrWorker, j, r, debug.Stack()))
				}
			}()

			compute := newWorker()
			for i := j; i < n; i += w {
				r := compute(i)
				select {
				case results <- r:
				case <-done:
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	err := p.merge(n, results, done, merge)
	if err != nil {
		abort(err)
		for range results {
		}
		return err
	}

	// abortOnce has run only if a worker panicked; results is closed, so all writers are gone.
	select {
	case <-done:
		return workerErr
	default:
	}
	return nil
}

func (p *Pool[R]) merge(n int, results <-chan R, done <-chan struct{}, merge func(R) error) error {
	var tick <-chan time.Time
	if p.CheckpointEvery > 0 && p.Checkpoint != nil {
		t := time.NewTicker(p.CheckpointEvery)
		defer t.Stop()
		tick = t.C
	}
	step := max(1, n/100)

	merged := 0
	for {
		select {
		case r, ok := <-results:
			if !ok {
				if merged != n {
					select {
					case <-done:
						// a worker panicked; Run reports its error
						return nil
					default:
					}
					return fmt.Errorf("%w: merged %d of %d results", fractal.ErrWorker, merged, n)
				}
				if p.OnProgress != nil && n > 0 && merged%step != 0 {
					p.OnProgress(merged, n)
				}
				return nil
			}
			if err := merge(r); err != nil {
				return err
			}
			merged++
			if p.OnProgress != nil && merged%step == 0 {
				p.OnProgress(merged, n)
			}
		case <-tick:
			if err := p.Checkpoint(); err != nil {
				return fmt.Errorf("checkpoint: %w", err)
			}
		}
	}
}
