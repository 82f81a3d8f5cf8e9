package service

import (
	"context"
	"fmt"
)

// Retry runs fn up to attempts times. It stops early on success, on an
// error retryable rejects, or when ctx is done.
func Retry[T any](ctx context.Context, attempts int, retryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return zero, err
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if retryable == nil || !retryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
