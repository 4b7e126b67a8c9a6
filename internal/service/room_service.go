package service

import (
	"context"
	"strings"

	"github.com/siddharthray/chatApp-backend/internal/store"
)

const maxSearchResults = 10

var defaultRooms = []string{"general", "tech", "random", "support"}

type roomService struct {
	store store.PresenceStore
}

// NewRoomService backs the rooms directory API with the presence store.
func NewRoomService(st store.PresenceStore) RoomService {
	return &roomService{store: st}
}

func (s *roomService) DefaultRooms(_ context.Context) []string {
	rooms := make([]string, len(defaultRooms))
	copy(rooms, defaultRooms)
	return rooms
}

// SearchRooms fuzzy-matches the directory: every rune of the query has to
// appear somewhere in the room name, case-insensitive. Top 10 matches.
func (s *roomService) SearchRooms(ctx context.Context, query string) ([]string, error) {
	all, err := s.store.Rooms(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := make([]string, 0, maxSearchResults)
	for _, name := range all {
		if fuzzyMatch(strings.ToLower(name), q) {
			matches = append(matches, name)
			if len(matches) == maxSearchResults {
				break
			}
		}
	}
	return matches, nil
}

func (s *roomService) CreateRoom(ctx context.Context, name string) error {
	return s.store.AddRoom(ctx, name)
}

func fuzzyMatch(name, query string) bool {
	for _, r := range query {
		if !strings.ContainsRune(name, r) {
			return false
		}
	}
	return true
}
