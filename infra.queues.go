package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Predefined Queue IDs. Each mutated collection gets its full snapshot
// enqueued for the durable mirror.
const (
	FavoritesSyncQueue = "favorites.sync"
	CartSyncQueue      = "cart.sync"
)

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue of collection snapshots.
type Queuer interface {
	Push(ctx context.Context, qid string, snapshot []byte) error
	Pop(ctx context.Context, qids ...string) (string, []byte, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues a collection snapshot onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, snapshot []byte) error {
	return q.client.RPush(ctx, qid, snapshot).Err()
}

// Pop returns the first dequeued snapshot from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, []byte, error) {
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return "", nil, err
	}
	return infos[0], []byte(infos[1]), nil
}
