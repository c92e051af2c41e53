package monitor

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
)

const DefaultRetryDelay = 3 * time.Second

// RetryPolicy is the delay between two attempts to establish a session.
// The default policy is a fixed delay: MaxDelay equals Delay and Factor is 1.
type RetryPolicy struct {
	Delay    time.Duration
	MaxDelay time.Duration
	Factor   float64
	Jitter   bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delay:    DefaultRetryDelay,
		MaxDelay: DefaultRetryDelay,
		Factor:   1,
	}
}

func (p RetryPolicy) newBackoff() *backoff.Backoff {
	minDelay := p.Delay
	if minDelay <= 0 {
		minDelay = DefaultRetryDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}
	return &backoff.Backoff{
		Min:    minDelay,
		Max:    maxDelay,
		Factor: factor,
		Jitter: p.Jitter,
	}
}

// Sleeper waits for the retry delay
type Sleeper interface {
	Sleep(ctx context.Context, delay time.Duration) error
}

type SleeperFunc func(ctx context.Context, delay time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, delay time.Duration) error {
	return f(ctx, delay)
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
