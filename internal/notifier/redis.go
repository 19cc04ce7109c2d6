package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ecodrive-query-api/internal/metrics"
	pkgLog "ecodrive-query-api/pkg/log"
)

const popTimeout = 5 * time.Second

// RedisQueue persists hand-offs in a Redis list so they survive API restarts.
// The API pushes with Send; the consumer command pops with Consume.
type RedisQueue struct {
	rdb goredis.UniversalClient
	key string
}

func NewRedisQueue(rdb goredis.UniversalClient, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Send(ctx context.Context, conversationID string) error {
	if err := q.rdb.LPush(ctx, q.key, conversationID).Err(); err != nil {
		return fmt.Errorf("redis queue: push: %w", err)
	}
	return nil
}

// Consume pops conversation ids and hands each to sender until ctx is cancelled.
// Failed deliveries are logged and counted, then dropped.
func (q *RedisQueue) Consume(ctx context.Context, sender Sender, timeout time.Duration, m *metrics.Metrics, l pkgLog.Logger) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		res, err := q.rdb.BRPop(ctx, popTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			l.Errorf(ctx, "%s: pop: %v", LogPrefixConsume, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPOP answers [key, value]
		if len(res) != 2 {
			continue
		}
		id := res[1]

		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		err = sender.Send(sendCtx, id)
		cancel()
		if err != nil {
			m.Notification(metrics.NotificationFailed)
			l.Errorf(ctx, "%s: deliver %s: %v", LogPrefixConsume, id, err)
			continue
		}
		m.Notification(metrics.NotificationSent)
		l.Infof(ctx, "%s: delivered hand-off for %s", LogPrefixConsume, id)
	}
}
