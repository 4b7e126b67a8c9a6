package hub

import (
	"encoding/json"
	"sync"

	"github.com/siddharthray/chatApp-backend/pkg/log"
)

// Hub is the connection registry for one protocol stack. Each stack owns
// exactly one Hub; mutation happens only through the stack's own
// accept/close paths, everything else just reads for fan-out.
type Hub struct {
	name       string
	clients    map[string]*Client            // clientID -> client
	rooms      map[string]map[string]*Client // room -> clientID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *RoomMessage
	mu         sync.RWMutex
}

// RoomMessage is one fan-out unit scoped to a room.
type RoomMessage struct {
	Room    string
	Message []byte
	Exclude string // client ID to skip, empty for none
}

func NewHub(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *RoomMessage, 256),
	}
}

// Name is the protocol stack tag this hub serves.
func (h *Hub) Name() string {
	return h.name
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldConnID, client.ID).Str(log.FieldStack, h.name).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for room, members := range h.rooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.rooms, room)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldConnID, client.ID).Str(log.FieldStack, h.name).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if members, ok := h.rooms[msg.Room]; ok {
				for clientID, client := range members {
					if clientID == msg.Exclude {
						continue
					}
					select {
					case client.Send <- msg.Message:
					default:
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom associates a client with a room for fan-out.
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][client.ID] = client
	l := log.L()
	l.Info().Str(log.FieldConnID, client.ID).Str(log.FieldRoom, room).Msg("client joined room")
}

// LeaveRoom drops the association. Leaving a room the client is not in is
// a no-op.
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	l := log.L()
	l.Info().Str(log.FieldConnID, client.ID).Str(log.FieldRoom, room).Msg("client left room")
}

// BroadcastToRoom fans one message out to every connection currently in
// the room. Delivery order across rooms is not defined; within a room
// messages go out in the order they were handed to the hub.
func (h *Hub) BroadcastToRoom(room string, message interface{}, exclude string) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.broadcast <- &RoomMessage{
		Room:    room,
		Message: data,
		Exclude: exclude,
	}
	return nil
}

// RoomClientCount reports how many connections are in a room right now.
func (h *Hub) RoomClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.rooms[room]; ok {
		return len(members)
	}
	return 0
}

// ClientCount reports all live connections on this stack.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
