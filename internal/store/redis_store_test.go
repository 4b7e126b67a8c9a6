package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharthray/chatApp-backend/internal/config"
	"github.com/siddharthray/chatApp-backend/internal/domain"
)

// Requires a live Redis; set REDIS_ADDR to run.
func newTestRedisStore(t *testing.T) PresenceStore {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	s, err := NewRedisStore(config.RedisConfig{Address: addr}, 50)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStore_PresenceRoundTrip(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	room := fmt.Sprintf("test-room-%d", time.Now().UnixNano())

	require.NoError(t, s.Join(ctx, room, "alice"))
	require.NoError(t, s.Join(ctx, room, "alice"))
	require.NoError(t, s.Join(ctx, room, "bob"))

	members, err := s.Members(ctx, room)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, members)

	require.NoError(t, s.Leave(ctx, room, "bob"))
	require.NoError(t, s.Leave(ctx, room, "bob"))

	members, err = s.Members(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)
}

func TestRedisStore_HistoryTrim(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	room := fmt.Sprintf("test-room-%d", time.Now().UnixNano())

	for i := 1; i <= 51; i++ {
		rec := domain.MessageRecord{From: "alice", Text: fmt.Sprintf("msg-%d", i), Time: int64(i)}
		require.NoError(t, s.Append(ctx, room, rec))
	}

	recent, err := s.Recent(ctx, room)
	require.NoError(t, err)
	require.Len(t, recent, 50)
	assert.Equal(t, "msg-2", recent[0].Text)
	assert.Equal(t, "msg-51", recent[49].Text)
}
