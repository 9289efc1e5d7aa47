package persistence

import (
	"context"
	"math/rand"
	"time"
)

// BatchConfig tunes chunk sizes and the per-batch deadline of the
// repositories. The defaults match the store's URL and request-body limits.
type BatchConfig struct {
	LookupChunkSize   int
	EmployeeBatchSize int
	LinkBatchSize     int
	BatchTimeout      time.Duration
}

func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		LookupChunkSize:   500,
		EmployeeBatchSize: 500,
		LinkBatchSize:     1000,
		BatchTimeout:      30 * time.Second,
	}
}

func chunk[T any](in []T, size int) [][]T {
	if size <= 0 {
		size = len(in)
	}
	var out [][]T
	for start := 0; start < len(in); start += size {
		end := start + size
		if end > len(in) {
			end = len(in)
		}
		out = append(out, in[start:end])
	}
	return out
}

// withBatchRetry runs one batch under its own deadline and retries a failed
// batch once after a jittered backoff. Re-running a batch is safe: every
// batch statement is a conflict-ignoring upsert or a read.
func withBatchRetry(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	run := func() error {
		bctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(bctx)
	}

	err := run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	delay := 200*time.Millisecond + time.Duration(rand.Int63n(int64(300*time.Millisecond)))
	select {
	case <-ctx.Done():
		return err
	case <-time.After(delay):
	}
	return run()
}
