package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPollUntilReturnsOnSuccess(t *testing.T) {
	calls := 0
	err := pollUntil(context.Background(), context.Background(), time.Millisecond, func() bool {
		calls++
		return calls == 3
	})
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 checks, got %d", calls)
	}
}

func TestPollUntilObservesCallerCancellation(t *testing.T) {
	// The caller context has no deadline, only cancellation; the operation
	// context never expires. Cancellation must still stop the poll.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := pollUntil(ctx, context.Background(), time.Hour, func() bool { return false })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Cancellation must stop the poll promptly, took %v", elapsed)
	}
}

func TestPollUntilObservesOperationDeadline(t *testing.T) {
	opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := pollUntil(context.Background(), opCtx, time.Millisecond, func() bool { return false })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected context.DeadlineExceeded, got %v", err)
	}
}
