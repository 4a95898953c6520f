// ABOUTME: Recomputer runs snapshot computations in the background, last request wins.
// ABOUTME: A result is applied only if no newer request's result has been applied.
package stats

import (
	"context"
	"errors"
	"sync"
)

// ComputeFunc produces a snapshot, honoring ctx cancellation.
type ComputeFunc func(ctx context.Context) (Snapshot, error)

// Result is the outcome of one request.
type Result struct {
	Seq      uint64
	Snapshot Snapshot
	Err      error
}

// Recomputer coordinates on-demand recomputation. Each Request cancels the one
// before it; results are delivered to apply in request order, never older after newer.
type Recomputer struct {
	apply func(Result)

	mu      sync.Mutex
	seq     uint64
	applied uint64
	latest  *Result
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// NewRecomputer creates a Recomputer that hands accepted results to apply.
// apply may be nil when callers only read Latest. It runs under the
// Recomputer's lock and must not call back into it.
func NewRecomputer(apply func(Result)) *Recomputer {
	return &Recomputer{apply: apply}
}

// Request starts a computation and returns its sequence number. Any in-flight
// computation is cancelled. After Close, Request returns 0 and does nothing.
func (r *Recomputer) Request(ctx context.Context, compute ComputeFunc) uint64 {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer cancel()

		snap, err := compute(runCtx)
		if errors.Is(err, context.Canceled) {
			return
		}
		r.deliver(Result{Seq: seq, Snapshot: snap, Err: err})
	}()
	return seq
}

func (r *Recomputer) deliver(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.Seq <= r.applied {
		return
	}
	r.applied = res.Seq
	r.latest = &res
	if r.apply != nil {
		r.apply(res)
	}
}

// Latest returns the most recently applied result.
func (r *Recomputer) Latest() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return Result{}, false
	}
	return *r.latest, true
}

// Wait blocks until every started computation has finished.
func (r *Recomputer) Wait() {
	r.wg.Wait()
}

// Close cancels the in-flight computation and waits for all goroutines to exit.
func (r *Recomputer) Close() {
	r.mu.Lock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	r.wg.Wait()
}
