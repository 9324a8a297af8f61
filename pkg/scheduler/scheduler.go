// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scheduler provides a fixed-interval runner used by the
// location poller and the recommendation orchestrator.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Runner invokes a function on a fixed interval. A tick that arrives
// while the previous invocation is still executing is dropped, never
// queued, so at most one invocation is in flight at a time.
type Runner struct {
	interval  time.Duration
	immediate bool
	fn        func(ctx context.Context)

	mu       sync.Mutex
	running  bool
	busy     bool
	stopChan chan struct{}
	done     chan struct{}
	inflight sync.WaitGroup
}

// NewRunner creates a runner. When immediate is true the first
// invocation fires on Start rather than after the first full interval.
func NewRunner(interval time.Duration, immediate bool, fn func(ctx context.Context)) *Runner {
	return &Runner{
		interval:  interval,
		immediate: immediate,
		fn:        fn,
	}
}

// Start begins the ticker loop. Starting an already-running runner is
// a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopChan = make(chan struct{})
	r.done = make(chan struct{})
	stopChan := r.stopChan
	done := r.done
	r.mu.Unlock()

	go func() {
		defer close(done)

		if r.immediate {
			r.invoke(ctx)
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.invoke(ctx)
			case <-stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// invoke runs fn in its own goroutine unless an invocation is already
// in flight, in which case the tick is dropped
func (r *Runner) invoke(ctx context.Context) {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return
	}
	r.busy = true
	r.inflight.Add(1)
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.busy = false
			r.mu.Unlock()
			r.inflight.Done()
		}()
		r.fn(ctx)
	}()
}

// Stop cancels the ticker, waits for the loop goroutine to exit and
// for any in-flight invocation to finish. Stopping a stopped runner is
// a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopChan)
	done := r.done
	r.mu.Unlock()

	<-done
	r.inflight.Wait()
}

// Running reports whether the runner's loop is active
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
