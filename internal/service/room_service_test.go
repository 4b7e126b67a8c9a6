package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharthray/chatApp-backend/internal/store"
)

func TestRoomService_DefaultRoomsAreCopied(t *testing.T) {
	svc := NewRoomService(store.NewMemoryStore(50))

	rooms := svc.DefaultRooms(context.Background())
	assert.Equal(t, []string{"general", "tech", "random", "support"}, rooms)

	rooms[0] = "mutated"
	assert.Equal(t, []string{"general", "tech", "random", "support"}, svc.DefaultRooms(context.Background()))
}

func TestRoomService_SearchMatchesFuzzily(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(50)
	svc := NewRoomService(st)

	for _, name := range []string{"general", "golang-help", "random"} {
		require.NoError(t, svc.CreateRoom(ctx, name))
	}

	matches, err := svc.SearchRooms(ctx, "gen")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"general", "golang-help"}, matches)

	matches, err = svc.SearchRooms(ctx, "GEN")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"general", "golang-help"}, matches)

	matches, err = svc.SearchRooms(ctx, "xyz")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRoomService_SearchCapsResults(t *testing.T) {
	ctx := context.Background()
	svc := NewRoomService(store.NewMemoryStore(50))

	for i := 0; i < 25; i++ {
		require.NoError(t, svc.CreateRoom(ctx, fmt.Sprintf("room-%d", i)))
	}

	matches, err := svc.SearchRooms(ctx, "room")
	require.NoError(t, err)
	assert.Len(t, matches, maxSearchResults)
}
