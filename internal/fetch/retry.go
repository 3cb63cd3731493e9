package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Retryer wraps a single request attempt with classification-aware
// retry. Transient and rate-limited failures are retried with
// exponential backoff plus jitter; permanent failures propagate
// immediately.
type Retryer struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	log          *zap.SugaredLogger
}

// NewRetryer constructs a Retryer. Non-positive parameters are a
// configuration error.
func NewRetryer(maxAttempts int, initialDelay, maxDelay time.Duration, log *zap.SugaredLogger) (*Retryer, error) {
	if maxAttempts <= 0 {
		return nil, fmt.Errorf("%w: max attempts must be positive, got %d", entities.ErrConfiguration, maxAttempts)
	}
	if initialDelay <= 0 || maxDelay <= 0 {
		return nil, fmt.Errorf("%w: retry delays must be positive", entities.ErrConfiguration)
	}
	return &Retryer{
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		log:          log,
	}, nil
}

// Do runs op until it succeeds, fails permanently, exhausts attempts,
// or ctx is done. Rate-limited failures wait at least the
// server-supplied retry-after delay when present. Exhaustion returns an
// AttemptsError carrying the last failure's classification.
func (r *Retryer) Do(ctx context.Context, label string, op func(context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initialDelay
	bo.MaxInterval = r.maxDelay
	bo.MaxElapsedTime = 0
	bo.Reset()

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		class := entities.Classify(err)
		if class == entities.FailurePermanent {
			return err
		}
		if attempt >= r.maxAttempts {
			return &entities.AttemptsError{Attempts: attempt, Class: class, Err: err}
		}

		delay := bo.NextBackOff()
		if delay == backoff.Stop || delay > r.maxDelay {
			delay = r.maxDelay
		}
		var reqErr *entities.RequestError
		if errors.As(err, &reqErr) && reqErr.RetryAfter > delay {
			delay = reqErr.RetryAfter
		}

		r.log.Warnw("request failed, retrying",
			"label", label,
			"attempt", attempt,
			"class", class,
			"delay", delay,
			"error", err.Error(),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
