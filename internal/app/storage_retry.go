package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/rzajanckauskas/voice-web/internal/platform/retry"
)

// storageRetryPolicy retries a storage operation once for transient backend
// conditions before surfacing a server error.
var storageRetryPolicy = retry.Policy{
	MaxAttempts:    2,
	InitialBackoff: 100 * time.Millisecond,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("retrying storage operation", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

// classifyStorageErr treats everything except cancellation and invalid keys
// as transient. Missing keys never reach here: Delete is idempotent and the
// read paths surface them as not-found before retrying.
func classifyStorageErr(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, fs.ErrInvalid) {
		return retry.Stop
	}
	return retry.Retry
}

func (s *Service) deleteWithRetry(ctx context.Context, key string) error {
	return retry.DoVoid(ctx, storageRetryPolicy, classifyStorageErr, func() error {
		return s.store.Delete(ctx, key)
	})
}
