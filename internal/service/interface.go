package service

import (
	"context"

	"github.com/siddharthray/chatApp-backend/internal/domain"
	"github.com/siddharthray/chatApp-backend/internal/hub"
)

// RelayService consumes validated per-connection events and fans results
// out to the owning room.
type RelayService interface {
	HandleChat(ctx context.Context, c *hub.Client, env *domain.Envelope) error
	HandleJoinRoom(ctx context.Context, c *hub.Client, room, username string) error
	HandleSendMsg(ctx context.Context, c *hub.Client, room, from, text string) error
	HandleDisconnect(ctx context.Context, c *hub.Client) error
}

// RoomService backs the rooms REST surface.
type RoomService interface {
	DefaultRooms(ctx context.Context) []string
	SearchRooms(ctx context.Context, query string) ([]string, error)
	CreateRoom(ctx context.Context, name string) error
}
