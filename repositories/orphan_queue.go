package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

const orphanBlobKey = "droply:orphan_blobs"

type RedisOrphanBlobQueue struct {
	redis *redis.Client
}

func NewRedisOrphanBlobQueue(redisClient *redis.Client) *RedisOrphanBlobQueue {
	return &RedisOrphanBlobQueue{redis: redisClient}
}

func (q *RedisOrphanBlobQueue) Push(ctx context.Context, blob OrphanBlob) error {
	payload, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	return q.redis.LPush(ctx, orphanBlobKey, payload).Err()
}

func (q *RedisOrphanBlobQueue) PopBatch(ctx context.Context, max int) ([]OrphanBlob, error) {
	if max <= 0 {
		return nil, nil
	}
	members, err := q.redis.RPopCount(ctx, orphanBlobKey, max).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	blobs := make([]OrphanBlob, 0, len(members))
	for _, member := range members {
		var blob OrphanBlob
		if err := json.Unmarshal([]byte(member), &blob); err != nil {
			continue
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

func (q *RedisOrphanBlobQueue) Len(ctx context.Context) (int64, error) {
	return q.redis.LLen(ctx, orphanBlobKey).Result()
}

// MemoryOrphanQueue is used when redis is disabled. Entries are lost on
// restart.
type MemoryOrphanQueue struct {
	mu    sync.Mutex
	items []OrphanBlob
}

func NewMemoryOrphanQueue() *MemoryOrphanQueue {
	return &MemoryOrphanQueue{}
}

func (q *MemoryOrphanQueue) Push(_ context.Context, blob OrphanBlob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, blob)
	return nil
}

func (q *MemoryOrphanQueue) PopBatch(_ context.Context, max int) ([]OrphanBlob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if max <= 0 || len(q.items) == 0 {
		return nil, nil
	}
	if max > len(q.items) {
		max = len(q.items)
	}
	batch := append([]OrphanBlob(nil), q.items[:max]...)
	q.items = q.items[max:]
	return batch, nil
}

func (q *MemoryOrphanQueue) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}
