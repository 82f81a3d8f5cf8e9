package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestRetryReturnsFirstSuccess(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), 3, func(error) bool { return true }, func(context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errFlaky
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	fatal := errors.New("unauthorized")
	_, err := Retry(context.Background(), 5, func(err error) bool { return errors.Is(err, errFlaky) }, func(context.Context) (string, error) {
		calls++
		return "", fatal
	})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 2, func(error) bool { return true }, func(context.Context) (any, error) {
		calls++
		return nil, errFlaky
	})
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, calls)
}

func TestRetryAlwaysRunsOnce(t *testing.T) {
	calls := 0
	_, _ = Retry(context.Background(), 0, nil, func(context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})
	assert.Equal(t, 1, calls)
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Retry(ctx, 3, func(error) bool { return true }, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errFlaky
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
