package rooms

import (
	"context"
	"sync"
)

// MemoryStore implements Store with an in-process map. It is the default
// backend: room state is process-lifetime only.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

// NewMemoryStore builds an empty in-memory room directory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]map[string]struct{})}
}

func (s *MemoryStore) Join(_ context.Context, room, id string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.rooms[room]
	if !ok {
		set = make(map[string]struct{})
		s.rooms[room] = set
	}
	_, exists := set[id]
	set[id] = struct{}{}
	return memberList(set), !exists, nil
}

func (s *MemoryStore) Leave(_ context.Context, room, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.rooms[room]
	if !ok {
		return nil
	}
	delete(set, id)
	// Delete under the same lock so an empty room is never observable.
	if len(set) == 0 {
		delete(s.rooms, room)
	}
	return nil
}

func (s *MemoryStore) Members(_ context.Context, room string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memberList(s.rooms[room]), nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = make(map[string]map[string]struct{})
	return nil
}

func memberList(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
