package ranking

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "armada:ranking"

// RedisStore keeps the ranking in a sorted set, score = cumulative
// points, member = player name.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

var _ Store = (*RedisStore)(nil)

func (rs *RedisStore) Load(ctx context.Context) (map[string]int, error) {
	members, err := rs.client.ZRangeWithScores(ctx, rs.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load rankings from redis: %w", err)
	}

	ranking := make(map[string]int, len(members))
	for _, z := range members {
		ranking[z.Member] = int(z.Score)
	}
	return ranking, nil
}

func (rs *RedisStore) Record(ctx context.Context, scores map[string]int) error {
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, score := range scores {
			pipe.ZIncrBy(ctx, rs.key, float64(score), name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record scores in redis: %w", err)
	}
	return nil
}
