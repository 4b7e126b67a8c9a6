package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/siddharthray/chatApp-backend/internal/config"
	"github.com/siddharthray/chatApp-backend/internal/domain"
	"github.com/siddharthray/chatApp-backend/internal/hub"
	"github.com/siddharthray/chatApp-backend/internal/liveness"
	"github.com/siddharthray/chatApp-backend/internal/service"
	"github.com/siddharthray/chatApp-backend/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler serves the native (lightweight) websocket stack on /ws:
// envelope in, envelope out, chat echo.
type WSHandler struct {
	hub        *hub.Hub
	relay      service.RelayService
	supervisor *liveness.Supervisor
	wsCfg      config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, relay service.RelayService, sup *liveness.Supervisor, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:        h,
		relay:      relay,
		supervisor: sup,
		wsCfg:      wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
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

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	env, err := domain.DecodeEnvelope(message)
	if err != nil {
		// Validation failures answer the offender and keep the
		// connection open.
		client.SendMessage(domain.NewError(err.Error()))
		return
	}

	switch env.Type {
	case domain.MsgTypeChat:
		h.relay.HandleChat(context.Background(), client, env)

	default:
		client.SendMessage(domain.NewUnknownType(env.Type))
	}
}

func (h *WSHandler) handleClose(client *hub.Client) {
	// Native-stack connections carry no room state; registry and
	// heartbeat cleanup already ran in Client.Close.
	l := log.L()
	l.Info().Str(log.FieldConnID, client.ID).Str(log.FieldStack, h.hub.Name()).Msg("connection closed")
}
