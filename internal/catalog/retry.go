package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBase     = 20 * time.Millisecond
)

// isTransient classifies an error from the SQLite driver as worth
// retrying. A locked/busy database is the canonical transient failure for
// an embedded-SQLite-backed read surface; anything else (bad SQL, no such
// table, context cancellation) is not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "busy")
}

// withRetry runs fn up to attempts times with bounded exponential backoff
// between attempts, retrying only transient errors. Non-transient errors
// and context cancellation return immediately.
func withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < defaultRetryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}
		if attempt == defaultRetryAttempts-1 {
			break
		}
		backoff := defaultRetryBase * time.Duration(1<<attempt)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("catalog: exhausted %d attempts: %w", defaultRetryAttempts, lastErr)
}
