package service

import "context"

// VideoLocker serializes chunk appends and finalize calls for one video
// identifier. Implementations: the in-process keyed mutex in pkg/lock and
// the Redis-backed lock in internal/infrastructure/cache.
type VideoLocker interface {
	// Lock blocks until the lock for videoID is held or ctx is done and
	// returns the corresponding unlock function.
	Lock(ctx context.Context, videoID string) (func(), error)
}
