package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Defaults are part of the external contract; callers may override any of
// them per call.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 10 * time.Second
)

// Options tunes one Do invocation. The zero value means the defaults above;
// a nil ShouldRetry treats every error as retryable. Callers that can tell
// transient faults from permanent ones supply their own predicate.
type Options struct {
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	ShouldRetry func(error) bool
}

func retryAll(error) bool { return true }

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = retryAll
	}
	return o
}

// Do runs op up to MaxRetries+1 times with exponential backoff. The delay
// before retry n is min(BaseDelay * 2^n, MaxDelay), jittered by a uniform
// factor in [0.75, 1.25] so concurrent callers do not synchronize.
//
// Errors rejected by the predicate propagate immediately; on exhaustion the
// last error is returned unchanged, never wrapped.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	o := opts.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.BaseDelay
	b.MaxInterval = o.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0.25

	return backoff.Retry(ctx, func() (T, error) {
		result, err := op(ctx)
		if err != nil && !o.ShouldRetry(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(o.MaxRetries+1)),
	)
}
