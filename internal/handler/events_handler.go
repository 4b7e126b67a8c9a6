package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/siddharthray/chatApp-backend/internal/config"
	"github.com/siddharthray/chatApp-backend/internal/domain"
	"github.com/siddharthray/chatApp-backend/internal/hub"
	"github.com/siddharthray/chatApp-backend/internal/liveness"
	"github.com/siddharthray/chatApp-backend/internal/service"
	"github.com/siddharthray/chatApp-backend/pkg/log"
)

// EventsHandler serves the higher-level framed stack under /events/:
// room join, room chat, presence fan-out.
type EventsHandler struct {
	hub        *hub.Hub
	relay      service.RelayService
	supervisor *liveness.Supervisor
	wsCfg      config.WebSocketConfig
}

func NewEventsHandler(h *hub.Hub, relay service.RelayService, sup *liveness.Supervisor, wsCfg config.WebSocketConfig) *EventsHandler {
	return &EventsHandler{
		hub:        h,
		relay:      relay,
		supervisor: sup,
		wsCfg:      wsCfg,
	}
}

func (h *EventsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.Ctx(r.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)
	client.Monitor = h.supervisor.Watch(client.ID, client)

	client.SendMessage(domain.NewWelcome())

	go client.WritePump()
	go client.ReadPump(h.handleMessage, h.handleClose)
}

func (h *EventsHandler) handleMessage(client *hub.Client, message []byte) {
	env, err := domain.DecodeEnvelope(message)
	if err != nil {
		client.SendMessage(domain.NewError(err.Error()))
		return
	}

	ctx := context.Background()

	switch env.Type {
	case domain.MsgTypeJoinRoom:
		var p domain.JoinRoomPayload
		if err := env.Bind(&p); err != nil || p.RoomName == "" || p.User == "" {
			client.SendMessage(domain.NewError("join-room requires roomName and user"))
			return
		}
		if err := h.relay.HandleJoinRoom(ctx, client, p.RoomName, p.User); err != nil {
			l := log.L()
			l.Error().Str(log.FieldConnID, client.ID).Err(err).Msg("join-room failed")
		}

	case domain.MsgTypeSendMsg:
		var p domain.SendMsgPayload
		if err := env.Bind(&p); err != nil || p.RoomName == "" {
			client.SendMessage(domain.NewError("send-msg requires roomName"))
			return
		}
		if err := h.relay.HandleSendMsg(ctx, client, p.RoomName, p.From, p.Msg); err != nil {
			l := log.L()
			l.Error().Str(log.FieldConnID, client.ID).Err(err).Msg("send-msg failed")
		}

	default:
		client.SendMessage(domain.NewUnknownType(env.Type))
	}
}

// handleClose is the relay's disconnect trigger; ReadPump guarantees it
// runs exactly once per connection.
func (h *EventsHandler) handleClose(client *hub.Client) {
	if err := h.relay.HandleDisconnect(context.Background(), client); err != nil {
		l := log.L()
		l.Error().Str(log.FieldConnID, client.ID).Err(err).Msg("disconnect handling failed")
	}
}
