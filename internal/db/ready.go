package db

import (
	"context"
	"fmt"
	"time"
)

const (
	readyFirstDelay = 50 * time.Millisecond
	readyMaxDelay   = 2 * time.Second
)

// WaitReady calls ping until it succeeds or timeout expires. The delay between
// attempts doubles from 50ms up to 2s. The error carries the last ping failure.
func WaitReady(ctx context.Context, timeout time.Duration, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		lastErr error
		delay   = readyFirstDelay
		attempt int
	)
	for {
		attempt++
		if lastErr = ping(ctx); lastErr == nil {
			return nil
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("database not ready after %d attempts: %w (last: %w)", attempt, ctx.Err(), lastErr)
		case <-t.C:
		}
		delay = min(delay*2, readyMaxDelay)
	}
}
