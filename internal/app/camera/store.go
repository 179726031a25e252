package camera

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store tracks which members currently have their camera enabled.
type Store interface {
	Reset(ctx context.Context) error
	Remove(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Enabled(ctx context.Context) ([]string, error)
}

// MemoryStore implements Store with an in-process set.
type MemoryStore struct {
	mu      sync.Mutex
	enabled map[string]struct{}
}

// NewMemoryStore builds an empty in-memory camera store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{enabled: make(map[string]struct{})}
}

func (s *MemoryStore) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = make(map[string]struct{})
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.enabled, id)
	return nil
}

func (s *MemoryStore) SetEnabled(_ context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.enabled[id] = struct{}{}
	} else {
		delete(s.enabled, id)
	}
	return nil
}

func (s *MemoryStore) Enabled(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.enabled))
	for id := range s.enabled {
		out = append(out, id)
	}
	return out, nil
}

// RedisStore implements Store using a Redis set.
type RedisStore struct {
	rdb        *redis.Client
	keyEnabled string
}

// NewRedisStore builds a Store backed by Redis. Prefix is optional (e.g., "booth").
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if p == "" {
		p = "booth"
	}
	return &RedisStore{
		rdb:        rdb,
		keyEnabled: fmt.Sprintf("%s:cameras", p),
	}
}

func (s *RedisStore) Reset(ctx context.Context) error {
	return s.rdb.Del(ctx, s.keyEnabled).Err()
}

func (s *RedisStore) Remove(ctx context.Context, id string) error {
	return s.rdb.SRem(ctx, s.keyEnabled, id).Err()
}

func (s *RedisStore) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if enabled {
		return s.rdb.SAdd(ctx, s.keyEnabled, id).Err()
	}
	return s.rdb.SRem(ctx, s.keyEnabled, id).Err()
}

func (s *RedisStore) Enabled(ctx context.Context) ([]string, error) {
	vals, err := s.rdb.SMembers(ctx, s.keyEnabled).Result()
	if err != nil {
		return nil, err
	}
	return vals, nil
}
