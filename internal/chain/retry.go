package chain

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryingReader retries a failed batch read with exponential backoff.
type RetryingReader struct {
	Reader       BatchReader
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *zap.Logger
}

// ReadBatch delegates to the wrapped reader, retrying whole-batch failures.
func (r *RetryingReader) ReadBatch(ctx context.Context, calls []Call) (Batch, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var batch Batch
	attempt := 0
	err := withRetry(ctx, r.MaxRetries, r.RetryBackoff, func(ctx context.Context) error {
		attempt++
		var err error
		batch, err = r.Reader.ReadBatch(ctx, calls)
		if err != nil && attempt <= r.MaxRetries {
			logger.Warn("batch read failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return Batch{}, err
	}
	return batch, nil
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
