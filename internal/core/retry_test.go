package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyAttempts(t *testing.T) {
	assert.Equal(t, 1, RetryPolicy{}.Attempts())
	assert.Equal(t, 1, RetryPolicy{MaxAttempts: -2}.Attempts())
	assert.Equal(t, 1, NoRetry.Attempts())
	assert.Equal(t, 4, RetryPolicy{MaxAttempts: 4}.Attempts())
}

func TestRetryPolicyZeroValueRunsOnce(t *testing.T) {
	calls := 0
	err := RetryPolicy{}.Do(context.Background(), func() error {
		calls++
		return errors.New("fail")
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyNotifiesBeforeEachRetry(t *testing.T) {
	calls := 0
	var waits []time.Duration
	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
	err := policy.Do(context.Background(), func() error {
		calls++
		return errors.New("fail")
	}, func(_ error, wait time.Duration) {
		waits = append(waits, wait)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, waits, 2)
	for _, wait := range waits {
		assert.LessOrEqual(t, wait, 6*time.Millisecond)
	}
}

func TestRetryPolicyStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := RetryPolicy{MaxAttempts: 10, InitialDelay: time.Hour, MaxDelay: time.Hour}
	err := policy.Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("fail")
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
