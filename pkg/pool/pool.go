// Package pool runs independent tasks with a hard concurrency cap and
// per-task retry with exponential backoff. One task's failure never aborts
// its siblings; the caller receives every outcome keyed by task index.
package pool

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Task is one unit of work, identified by its 0-based input index.
type Task struct {
	Index int
	Call  func(ctx context.Context) (string, error)
}

// Outcome is the terminal result of one task.
type Outcome struct {
	Index    int
	Value    string
	Err      error
	Attempts int
}

// Retryable is implemented by errors that know whether another attempt
// may succeed.
type Retryable interface {
	Retryable() bool
}

// Hooks receives lifecycle notifications. Nil fields are skipped.
type Hooks struct {
	OnAttempt func(index, attempt int)
	OnRetry   func(index, attempt int, delay time.Duration, err error)
	OnDone    func(index, attempts int, elapsed time.Duration, err error)
}

// Pool is a bounded-concurrency task executor.
type Pool struct {
	maxWorkers int
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	hooks      Hooks
}

// Option configures a Pool.
type Option func(*Pool)

// WithBaseDelay sets the first backoff delay. Subsequent delays double.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Pool) {
		p.baseDelay = d
	}
}

// WithMaxDelay caps a single backoff delay.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Pool) {
		p.maxDelay = d
	}
}

// WithHooks installs lifecycle callbacks.
func WithHooks(h Hooks) Option {
	return func(p *Pool) {
		p.hooks = h
	}
}

// New creates a Pool with at most maxWorkers in-flight tasks and up to
// maxRetries retries per task after the first attempt.
func New(maxWorkers, maxRetries int, opts ...Option) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	p := &Pool{
		maxWorkers: maxWorkers,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
		maxDelay:   time.Minute,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ErrCanceled marks tasks that were still queued when the run was
// interrupted. They are never dispatched.
var ErrCanceled = errors.New("task canceled before dispatch")

// Run executes all tasks and returns one outcome per task index. Tasks are
// dispatched in slice order; completion order is unconstrained. Run never
// fails the batch: individual errors are reported in the outcomes.
//
// When ctx is canceled, in-flight attempts finish, no further retries are
// scheduled, and still-queued tasks are recorded with ErrCanceled.
func (p *Pool) Run(ctx context.Context, tasks []Task) map[int]Outcome {
	sem := semaphore.NewWeighted(int64(p.maxWorkers))
	results := make(map[int]Outcome, len(tasks))

	var mu sync.Mutex
	var wg sync.WaitGroup

	record := func(o Outcome) {
		mu.Lock()
		results[o.Index] = o
		mu.Unlock()
	}

	for _, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			record(Outcome{Index: task.Index, Err: ErrCanceled})
			continue
		}
		// Acquire can succeed on an already-done context; queued tasks
		// must not dispatch after interruption.
		if ctx.Err() != nil {
			sem.Release(1)
			record(Outcome{Index: task.Index, Err: ErrCanceled})
			continue
		}

		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			defer sem.Release(1)
			record(p.runTask(ctx, t))
		}(task)
	}

	wg.Wait()
	return results
}

// retryState tracks one task's progress through the retry cycle. The
// attempt counter and the next delay are explicit state, not loop
// variables, so the transition Pending -> InFlight -> RetryScheduled ->
// InFlight -> ... -> {Success, TerminalFailure} is inspectable.
type retryState struct {
	attempt   int
	nextDelay time.Duration
}

// advance returns the delay to wait before the next attempt and doubles
// the stored delay, capped at max.
func (s *retryState) advance(max time.Duration) time.Duration {
	d := s.nextDelay
	if d > max {
		d = max
	}
	s.nextDelay *= 2
	return d
}

func (p *Pool) runTask(ctx context.Context, t Task) Outcome {
	state := retryState{nextDelay: p.baseDelay}
	start := time.Now()

	for {
		state.attempt++
		if p.hooks.OnAttempt != nil {
			p.hooks.OnAttempt(t.Index, state.attempt)
		}

		// The attempt itself is allowed to finish even if the run is
		// interrupted; cancellation is honored between attempts.
		value, err := t.Call(context.WithoutCancel(ctx))
		if err == nil {
			p.done(t.Index, state.attempt, start, nil)
			return Outcome{Index: t.Index, Value: value, Attempts: state.attempt}
		}

		if !retryable(err) || state.attempt > p.maxRetries {
			p.done(t.Index, state.attempt, start, err)
			return Outcome{Index: t.Index, Err: err, Attempts: state.attempt}
		}

		delay := jitter(state.advance(p.maxDelay))
		if p.hooks.OnRetry != nil {
			p.hooks.OnRetry(t.Index, state.attempt, delay, err)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			p.done(t.Index, state.attempt, start, err)
			return Outcome{Index: t.Index, Err: err, Attempts: state.attempt}
		}
	}
}

func (p *Pool) done(index, attempts int, start time.Time, err error) {
	if p.hooks.OnDone != nil {
		p.hooks.OnDone(index, attempts, time.Since(start), err)
	}
}

// retryable walks the error chain for a Retryable classification. Errors
// with no classification are treated as transient.
func retryable(err error) bool {
	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return true
}

// jitter spreads a delay by up to +/-20% so retries from parallel workers
// do not land on the remote service in lockstep.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := int64(d) / 5
	return d + time.Duration(rand.Int63n(2*spread+1)-spread)
}
