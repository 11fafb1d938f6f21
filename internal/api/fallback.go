package api

import (
	"context"
	"sync/atomic"
)

type fallbackKey struct{}

// TrackFallback returns a context that records whether any read made with it
// served the mock dataset. served reports that after the reads return.
func TrackFallback(ctx context.Context) (_ context.Context, served func() bool) {
	var flag atomic.Bool
	return context.WithValue(ctx, fallbackKey{}, &flag), flag.Load
}

func markFallback(ctx context.Context) {
	if flag, ok := ctx.Value(fallbackKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
}
