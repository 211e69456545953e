package executor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, "op", func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetrySucceedsSecondTry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, "op", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestWithRetryReturnsLastError(t *testing.T) {
	first := errors.New("first failure")
	last := errors.New("second failure")
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, "op", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return first
		}
		return last
	})
	if calls != 2 {
		t.Errorf("Expected exactly 2 calls, got %d", calls)
	}
	if !errors.Is(err, last) {
		t.Errorf("Expected last error, got %v", err)
	}
}

func TestWithRetryNoBackoffAfterFinalAttempt(t *testing.T) {
	boom := errors.New("boom")
	start := time.Now()
	err := withRetry(context.Background(), 1, time.Hour, "op", func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected underlying error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Exhausted retry must not sleep after the last attempt, took %v", elapsed)
	}
}

func TestWithRetryStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	boom := errors.New("boom")
	calls := 0
	err := withRetry(ctx, 5, time.Hour, "op", func(ctx context.Context) error {
		calls++
		return boom
	})
	if calls != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", calls)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected underlying error, got %v", err)
	}
}
