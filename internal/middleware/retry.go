package middleware

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/googleapi"
)

// DefaultMaxRetries caps how many times a rate-limited call is attempted.
const DefaultMaxRetries = 3

// retryBaseDelay is the backoff for the first retry; each subsequent
// retry doubles it.
const retryBaseDelay = time.Second

// WithRetry runs fn, retrying with exponential backoff while the Google API
// reports 429. Any other error, including context cancellation during the
// backoff wait, is returned as-is.
func WithRetry(ctx context.Context, maxAttempts int, fn func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxRetries
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		var googleErr *googleapi.Error
		if !errors.As(err, &googleErr) || googleErr.Code != 429 {
			return err
		}

		wait := retryBaseDelay << uint(attempt)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}
