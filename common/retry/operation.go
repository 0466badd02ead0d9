package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// ErrFailedPermanently is returned once every attempt failed. It unwraps to
// the error of the last attempt.
type ErrFailedPermanently struct {
	Attempts int
	LastErr  error
}

func (e *ErrFailedPermanently) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ErrFailedPermanently) Unwrap() error {
	return e.LastErr
}

// Do calls op up to maxAttempts times. Before attempt n (n >= 1) it waits
// strategy.Duration(n-1); a done ctx ends the loop with ctx.Err().
func Do[T any](ctx context.Context, maxAttempts int, strategy Strategy, op func() (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		return zero, fmt.Errorf("retry: at least one attempt is required, got %d", maxAttempts)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, strategy.Duration(attempt-1)); err != nil {
				return zero, err
			}
		} else if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := op()
		if err == nil {
			return v, nil
		}
		lastErr = err
		log.Debug("attempt failed", "attempt", attempt+1, "of", maxAttempts, "err", err)
	}
	return zero, &ErrFailedPermanently{Attempts: maxAttempts, LastErr: lastErr}
}

// Run is Do for operations without a result.
func Run(ctx context.Context, maxAttempts int, strategy Strategy, op func() error) error {
	_, err := Do(ctx, maxAttempts, strategy, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
