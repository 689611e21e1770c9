package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/sandevgo/everebot/pkg/log"
)

type Operation = func() error

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

// NewDefaultConfig suits a local completion server: a handful of quick
// retries, then give up well inside the generator timeout.
func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    3,
		BackoffFactor: 2,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		Jitter:        100 * time.Millisecond,
	}
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error
// immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	if config == nil {
		config = NewDefaultConfig()
	}
	return &Retrier{config: config}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(nil)
}

// Backoff is the wait before retry number attempt (0-based), without jitter.
func (r *Retrier) Backoff(attempt int) time.Duration {
	d := float64(r.config.InitialDelay)
	for range attempt {
		d *= r.config.BackoffFactor
		if d >= float64(r.config.MaxDelay) {
			return r.config.MaxDelay
		}
	}
	return min(time.Duration(d), r.config.MaxDelay)
}

// Do runs op until it succeeds, returns a Permanent error, the retry budget
// runs out or ctx ends.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	logger := log.FromCtx(ctx)

	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= r.config.MaxRetries {
			return err
		}

		wait := r.Backoff(attempt)
		if r.config.Jitter > 0 {
			wait += rand.N(r.config.Jitter)
		}
		logger.Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
