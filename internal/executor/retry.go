package executor

import (
	"context"
	"time"

	"po-executor/internal/logger"
)

// withRetry runs fn up to attempts times with a fixed backoff between tries;
// the final failure returns immediately with no trailing sleep. Transient UI
// conditions (brief lag, a missed click) get a small fixed budget; no
// exponential backoff, no unbounded retry. On exhaustion the last error is
// returned unchanged.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, label string, fn func(context.Context) error) error {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			logger.Warn(ctx, "operation failed, will retry", "op", label, "attempt", i, "attempts", attempts, "error", err)
		}
		if i == attempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return lastErr
		}
	}
	return lastErr
}
