package rooms

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using one Redis set per room. Redis drops
// empty sets on its own, which gives the delete-on-empty invariant for free.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore builds a room directory backed by Redis. Prefix is optional (e.g., "booth").
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if p == "" {
		p = "booth"
	}
	return &RedisStore{rdb: rdb, prefix: p}
}

func (s *RedisStore) key(room string) string {
	return fmt.Sprintf("%s:room:%s:members", s.prefix, room)
}

func (s *RedisStore) Join(ctx context.Context, room, id string) ([]string, bool, error) {
	pipe := s.rdb.TxPipeline()
	addCmd := pipe.SAdd(ctx, s.key(room), id)
	membersCmd := pipe.SMembers(ctx, s.key(room))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, false, err
	}
	return membersCmd.Val(), addCmd.Val() > 0, nil
}

func (s *RedisStore) Leave(ctx context.Context, room, id string) error {
	return s.rdb.SRem(ctx, s.key(room), id).Err()
}

func (s *RedisStore) Members(ctx context.Context, room string) ([]string, error) {
	vals, err := s.rdb.SMembers(ctx, s.key(room)).Result()
	if err != nil {
		return nil, err
	}
	return vals, nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, fmt.Sprintf("%s:room:*", s.prefix), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}
