package webhook

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const ledgerKeyPrefix = "paybridge:webhook:event:"

// RedisLedger keeps the processed-event set in redis. SET NX gives the atomic
// check-and-set; the key TTL doubles as the retention window, so EvictBefore
// has nothing to do.
type RedisLedger struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisLedger(client *redis.Client, retention time.Duration) *RedisLedger {
	return &RedisLedger{client: client, retention: retention}
}

func (l *RedisLedger) Reserve(ctx context.Context, event *Event) (bool, error) {
	return l.client.SetNX(ctx, ledgerKeyPrefix+event.ID, event.ReceivedAt.Unix(), l.retention).Result()
}

func (l *RedisLedger) Release(ctx context.Context, eventID string) error {
	return l.client.Del(ctx, ledgerKeyPrefix+eventID).Err()
}

func (l *RedisLedger) EvictBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
