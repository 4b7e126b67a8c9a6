package store

import (
	"context"
	"errors"

	"github.com/siddharthray/chatApp-backend/internal/domain"
)

// ErrStoreUnavailable wraps any backing-store failure. Callers degrade:
// skip the persistence side effect, keep serving live fan-out, never close
// the connection over it.
var ErrStoreUnavailable = errors.New("presence store unavailable")

// PresenceStore maintains per-room presence sets, the bounded message
// history, and the room directory. All operations are room-scoped; no
// cross-room lock is ever taken.
type PresenceStore interface {
	// Join adds username to the room's presence set. Idempotent.
	Join(ctx context.Context, room, username string) error

	// Leave removes username from the room's presence set. Removing an
	// absent member is a no-op.
	Leave(ctx context.Context, room, username string) error

	// Members returns a snapshot of the room's presence set, unordered.
	Members(ctx context.Context, room string) ([]string, error)

	// Append adds a record to the room's log and trims it to the most
	// recent limit entries, oldest evicted first. The append-then-trim
	// pair is atomic per room.
	Append(ctx context.Context, room string, rec domain.MessageRecord) error

	// Recent returns the room's log oldest-first, at most limit entries.
	Recent(ctx context.Context, room string) ([]domain.MessageRecord, error)

	// AddRoom registers a room name in the directory. Idempotent.
	AddRoom(ctx context.Context, name string) error

	// Rooms returns every room name in the directory.
	Rooms(ctx context.Context) ([]string, error)

	Close() error
}
