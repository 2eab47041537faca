package cache

import (
	"context"
	"time"

	"doctor-intro-service/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	lockKeyPrefix = "video:lock:"

	// A finalize over many chunks can take a while; the TTL only guards
	// against a crashed holder.
	lockTTL = 2 * time.Minute

	lockRetryInterval = 100 * time.Millisecond
)

// unlockScript releases the lock only when the stored token matches, so an
// expired lock reacquired by another process is never deleted by the
// previous holder.
var unlockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisVideoLock is a store-backed implementation of service.VideoLocker.
// It serializes chunk appends and finalize calls across processes.
type RedisVideoLock struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisVideoLock(client *redis.Client, log *logrus.Logger) service.VideoLocker {
	return &RedisVideoLock{client: client, log: log}
}

func (l *RedisVideoLock) Lock(ctx context.Context, videoID string) (func(), error) {
	key := lockKeyPrefix + videoID
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.unlock(key, token) }, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (l *RedisVideoLock) unlock(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		l.log.Warnf("Failed to release video lock %s: %+v", key, err)
	}
}
