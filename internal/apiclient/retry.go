package apiclient

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/masmgr/logospots/config"
)

// RetryPolicy bounds how often a failed request is repeated.
type RetryPolicy struct {
	MaxAttempts   int // 1 means no retry
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
}

// PolicyFromConfig converts the file configuration.
func PolicyFromConfig(c config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   c.MaxAttempts,
		InitialDelay:  time.Duration(c.InitialDelayMs) * time.Millisecond,
		MaxDelay:      time.Duration(c.MaxDelayMs) * time.Millisecond,
		BackoffFactor: c.BackoffFactor,
		Jitter:        true,
	}
}

// Retryable reports whether err is a transport failure or a server-side status.
func Retryable(err error) bool {
	if errors.Is(err, ErrRequest) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 500
}

// do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts are used up.
func (p RetryPolicy) do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !Retryable(err) || attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay(attempt)):
		}
	}
	return lastErr
}

// delay computes the wait before the next attempt: initial * factor^attempt,
// capped at MaxDelay, plus up to 10% jitter.
func (p RetryPolicy) delay(attempt int) time.Duration {
	factor := p.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	d := time.Duration(float64(p.InitialDelay) * math.Pow(factor, float64(attempt)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter && d >= 10 {
		d += time.Duration(rand.Int63n(int64(d / 10)))
	}
	return d
}
