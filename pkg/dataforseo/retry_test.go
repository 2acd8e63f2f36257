package dataforseo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrier_SucceedsAfterTransientFailure(t *testing.T) {
	retry := NewRetrier(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("timeout")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestRetrier_ExhaustsBudget(t *testing.T) {
	retry := NewRetrier(2, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return errors.New("status 503: unavailable")
	})

	if err == nil {
		t.Error("Expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts (1 initial + 2 retries), got %d", attempts)
	}
}

func TestRetrier_AuthErrorFailsFast(t *testing.T) {
	retry := NewRetrier(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return errors.New("status 401: unauthorized")
	})

	if err == nil {
		t.Error("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Auth errors must not retry; got %d attempts", attempts)
	}
}

func TestRetrier_ContextCancellation(t *testing.T) {
	retry := NewRetrier(5, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := retry.Execute(ctx, func() error {
		return errors.New("timeout")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestFetchError_CarriesOpAndCause(t *testing.T) {
	cause := errors.New("status 429: rate limited")
	err := fetchErr("serp", "/serp/google/organic/live/advanced", cause)

	if !errors.Is(err, cause) {
		t.Error("FetchError must unwrap to its cause")
	}
	var fe *FetchError
	if !errors.As(error(err), &fe) || fe.Op != "serp" {
		t.Errorf("Expected typed FetchError with op, got %v", err)
	}
}
