package dataforseo

import (
	"context"
	"math"
	"strings"
	"time"
)

// Retrier provides retry with exponential backoff for transient upstream
// failures. Auth and client errors fail fast; rate limits and network
// errors back off and retry.
type Retrier struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
}

// NewRetrier creates a retrier with the given attempt budget and initial
// delay
func NewRetrier(maxRetries int, retryDelay time.Duration) *Retrier {
	return &Retrier{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
	}
}

// Execute runs fn until it succeeds, exhausts the retry budget, hits a
// non-retryable error or the context is cancelled.
func (r *Retrier) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}
		if !isRetryable(err) {
			return err
		}

		delay := time.Duration(float64(r.retryDelay) * math.Pow(r.backoffMultiplier, float64(attempt)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// isRetryable classifies an error. Auth failures and plain client errors
// are permanent; everything else (timeouts, 5xx, 429) is worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "forbidden") {
		return false
	}
	if strings.Contains(errStr, "400") || strings.Contains(errStr, "404") {
		return false
	}

	return true
}
