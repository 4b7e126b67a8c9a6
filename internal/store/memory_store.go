package store

import (
	"context"
	"sync"

	"github.com/siddharthray/chatApp-backend/internal/domain"
)

// memoryStore implements PresenceStore in process memory, for tests and
// redis-less development. Contention scope matches the Redis store:
// per-room only.
type memoryStore struct {
	limit int

	mu    sync.Mutex
	rooms map[string]*memoryRoom
	names map[string]struct{}
}

type memoryRoom struct {
	mu      sync.Mutex
	members map[string]struct{}
	history []domain.MessageRecord
}

// NewMemoryStore returns an in-memory PresenceStore capped at limit
// history entries per room.
func NewMemoryStore(limit int) PresenceStore {
	if limit <= 0 {
		limit = 50
	}
	return &memoryStore{
		limit: limit,
		rooms: make(map[string]*memoryRoom),
		names: make(map[string]struct{}),
	}
}

func (s *memoryStore) room(name string) *memoryRoom {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[name]
	if !ok {
		r = &memoryRoom{members: make(map[string]struct{})}
		s.rooms[name] = r
	}
	return r
}

func (s *memoryStore) Join(_ context.Context, room, username string) error {
	r := s.room(room)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[username] = struct{}{}
	return nil
}

func (s *memoryStore) Leave(_ context.Context, room, username string) error {
	r := s.room(room)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, username)
	return nil
}

func (s *memoryStore) Members(_ context.Context, room string) ([]string, error) {
	r := s.room(room)
	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]string, 0, len(r.members))
	for m := range r.members {
		members = append(members, m)
	}
	return members, nil
}

func (s *memoryStore) Append(_ context.Context, room string, rec domain.MessageRecord) error {
	r := s.room(room)
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, rec)
	if len(r.history) > s.limit {
		r.history = r.history[len(r.history)-s.limit:]
	}
	return nil
}

func (s *memoryStore) Recent(_ context.Context, room string) ([]domain.MessageRecord, error) {
	r := s.room(room)
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.MessageRecord, len(r.history))
	copy(out, r.history)
	return out, nil
}

func (s *memoryStore) AddRoom(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[name] = struct{}{}
	return nil
}

func (s *memoryStore) Rooms(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	return names, nil
}

func (s *memoryStore) Close() error {
	return nil
}
