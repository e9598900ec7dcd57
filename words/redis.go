package words

import (
	"context"
	"slices"

	"github.com/go-redis/redis/v8"
)

// RedisSource reads the word list from a Redis set.
type RedisSource struct {
	client *redis.Client
	key    string
}

func NewRedisSource(url, key string) (*RedisSource, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisSource{client: redis.NewClient(opt), key: key}, nil
}

func (s *RedisSource) Words(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	// set order is arbitrary
	slices.Sort(members)
	return members, nil
}

func (s *RedisSource) Close() error {
	return s.client.Close()
}

// AddWords stores words in the set and returns how many were new.
func (s *RedisSource) AddWords(ctx context.Context, words ...string) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}
	members := make([]any, len(words))
	for i, w := range words {
		members[i] = w
	}
	n, err := s.client.SAdd(ctx, s.key, members...).Result()
	return int(n), err
}
