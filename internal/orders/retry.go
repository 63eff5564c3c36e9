package orders

import (
	"context"
	"log"
	"time"
)

// retry runs fn up to attempts times, doubling the pause between tries.
func retry(ctx context.Context, op string, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.Printf("[ORDER] [WARN] %s attempt %d/%d failed: %v", op, attempt, attempts, err)
		if delay > 0 {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return err
}
