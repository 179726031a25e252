package names

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store tracks member display names.
type Store interface {
	Reset(ctx context.Context) error
	Remove(ctx context.Context, id string) error
	Set(ctx context.Context, id string, name string) error
	Names(ctx context.Context) (map[string]string, error)
}

// MemoryStore implements Store with an in-process map.
type MemoryStore struct {
	mu    sync.Mutex
	names map[string]string
}

// NewMemoryStore builds an empty in-memory name store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{names: make(map[string]string)}
}

func (s *MemoryStore) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = make(map[string]string)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.names, id)
	return nil
}

func (s *MemoryStore) Set(_ context.Context, id string, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" {
		delete(s.names, id)
		return nil
	}
	s.names[id] = name
	return nil
}

func (s *MemoryStore) Names(context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.names))
	for id, name := range s.names {
		out[id] = name
	}
	return out, nil
}

// RedisStore implements Store using a Redis hash.
type RedisStore struct {
	rdb      *redis.Client
	keyNames string
}

// NewRedisStore builds a Store backed by Redis. Prefix is optional (e.g., "booth").
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if p == "" {
		p = "booth"
	}
	return &RedisStore{
		rdb:      rdb,
		keyNames: fmt.Sprintf("%s:names", p),
	}
}

func (s *RedisStore) Reset(ctx context.Context) error {
	return s.rdb.Del(ctx, s.keyNames).Err()
}

func (s *RedisStore) Remove(ctx context.Context, id string) error {
	return s.rdb.HDel(ctx, s.keyNames, id).Err()
}

func (s *RedisStore) Set(ctx context.Context, id string, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.rdb.HDel(ctx, s.keyNames, id).Err()
	}
	return s.rdb.HSet(ctx, s.keyNames, id, name).Err()
}

func (s *RedisStore) Names(ctx context.Context) (map[string]string, error) {
	vals, err := s.rdb.HGetAll(ctx, s.keyNames).Result()
	if err != nil {
		return nil, err
	}
	return vals, nil
}
