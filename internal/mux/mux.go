package mux

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/siddharthray/chatApp-backend/pkg/log"
)

const (
	// NativePath is the lightweight stack's upgrade endpoint.
	NativePath = "/ws"
	// EventsPrefix is the higher-level stack's namespace; its own
	// upgrader claims any handshake under it.
	EventsPrefix = "/events/"
)

// Mux shares one listener between the two real-time stacks and the REST
// surface. Exactly one handler ever claims a request: upgrade handshakes
// route by path, everything else goes to the API, and an upgrade for an
// unknown path gets its raw connection destroyed with no response.
type Mux struct {
	native http.Handler
	events http.Handler
	api    http.Handler
}

func New(native, events, api http.Handler) *Mux {
	return &Mux{
		native: native,
		events: events,
		api:    api,
	}
}

func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		m.api.ServeHTTP(w, r)
		return
	}

	// A fault while inspecting or dispatching a handshake kills that
	// connection only; the listener keeps accepting.
	defer func() {
		if rec := recover(); rec != nil {
			l := log.L()
			l.Error().Str(log.FieldPath, r.URL.Path).Interface("panic", rec).Msg("upgrade dispatch panicked")
			destroy(w)
		}
	}()

	switch {
	case r.URL.Path == NativePath:
		m.native.ServeHTTP(w, r)
	case strings.HasPrefix(r.URL.Path, EventsPrefix):
		m.events.ServeHTTP(w, r)
	default:
		l := log.L()
		l.Warn().Str(log.FieldPath, r.URL.Path).Msg("rejecting upgrade for unknown path")
		destroy(w)
	}
}

// destroy drops the raw connection without writing a handshake response.
func destroy(w http.ResponseWriter) {
	h, ok := w.(http.Hijacker)
	if !ok {
		return
	}
	conn, _, err := h.Hijack()
	if err != nil {
		return
	}
	conn.Close()
}
