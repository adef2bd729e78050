package services

import (
	"context"
	"time"
)

// bounded derives a context limited by d; d <= 0 means no extra limit.
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
