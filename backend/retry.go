package backend

import (
	"context"
	"fmt"
	"time"
)

// FetchState is the state of a retried fetch.
type FetchState int

const (
	StateLoading FetchState = iota
	StateRetrying
	StateSuccess
	StateError
)

func (s FetchState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateRetrying:
		return "retrying"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow s.
func (s FetchState) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// Observer is told about every state transition. attempt is 1-based, 0 while loading.
type Observer func(state FetchState, attempt int, err error)

// RetryPolicy retries an operation with linear backoff: the wait after
// attempt n is Delay*n. No wait follows the last attempt.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Observer    Observer
	// Sleep defaults to a context aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Second}
}

// Do runs op until it succeeds or MaxAttempts is reached. Every error counts
// against the same budget, transport failures and error statuses alike.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	p.notify(StateLoading, 0, nil)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			p.notify(StateSuccess, attempt, nil)
			return nil
		}
		if attempt == attempts {
			break
		}

		p.notify(StateRetrying, attempt, err)
		if serr := sleep(ctx, p.Delay*time.Duration(attempt)); serr != nil {
			ierr := fmt.Errorf("%w after attempt %d: %w", ErrRetryInterrupted, attempt, serr)
			p.notify(StateError, attempt, ierr)
			return ierr
		}
	}

	p.notify(StateError, attempts, err)
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, err)
}

func (p RetryPolicy) notify(state FetchState, attempt int, err error) {
	if p.Observer != nil {
		p.Observer(state, attempt, err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
