package core

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRetryDelay      = 200 * time.Millisecond
	defaultMaxRetryDelay   = 2 * time.Second
	defaultRetryMultiplier = 2.0
)

// RetryPolicy bounds how often a single extension build is attempted.
// The zero value makes exactly one attempt.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// NoRetry makes a single attempt per extension.
var NoRetry = RetryPolicy{MaxAttempts: 1}

func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialDelay
	if exp.InitialInterval <= 0 {
		exp.InitialInterval = defaultRetryDelay
	}
	exp.MaxInterval = p.MaxDelay
	if exp.MaxInterval <= 0 {
		exp.MaxInterval = defaultMaxRetryDelay
	}
	if exp.MaxInterval < exp.InitialInterval {
		exp.MaxInterval = exp.InitialInterval
	}
	exp.Multiplier = p.Multiplier
	if exp.Multiplier < 1 {
		exp.Multiplier = defaultRetryMultiplier
	}
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.Attempts()-1)), ctx)
}

// Do runs op until it succeeds, the attempts are used up or ctx is done.
// notify is called before each wait and may be nil.
func (p RetryPolicy) Do(ctx context.Context, op func() error, notify func(err error, wait time.Duration)) error {
	if p.Attempts() == 1 {
		return op()
	}
	return backoff.RetryNotify(op, p.backOff(ctx), notify)
}
