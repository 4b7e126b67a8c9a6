package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharthray/chatApp-backend/internal/config"
	"github.com/siddharthray/chatApp-backend/internal/hub"
	"github.com/siddharthray/chatApp-backend/internal/liveness"
	"github.com/siddharthray/chatApp-backend/internal/service"
	"github.com/siddharthray/chatApp-backend/internal/store"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{WriteWait: time.Second, MaxMessageSize: 4096}
}

// testSupervisor probes hourly so heartbeat traffic stays out of the
// frames under test.
func testSupervisor() *liveness.Supervisor {
	return liveness.NewSupervisor(liveness.Config{Interval: time.Hour})
}

func newNativeServer(t *testing.T) *httptest.Server {
	t.Helper()

	h := hub.NewHub("native")
	go h.Run()
	relay := service.NewRelayService(h, store.NewMemoryStore(50))
	wsh := NewWSHandler(h, relay, testSupervisor(), testWSConfig())

	srv := httptest.NewServer(http.HandlerFunc(wsh.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func payloadString(t *testing.T, env envelope) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(env.Payload, &s))
	return s
}

func TestWSHandler_WelcomeIsFirstFrame(t *testing.T) {
	srv := newNativeServer(t)
	conn := dialWS(t, srv)

	env := readEnvelope(t, conn)
	assert.Equal(t, "welcome", env.Type)
	assert.Equal(t, "Welcome to the chat!", payloadString(t, env))
}

func TestWSHandler_ChatIsEchoed(t *testing.T) {
	srv := newNativeServer(t)
	conn := dialWS(t, srv)
	readEnvelope(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"chat","payload":"hello"}`)))

	env := readEnvelope(t, conn)
	assert.Equal(t, "chatResponse", env.Type)
	assert.Equal(t, "You said: hello", payloadString(t, env))
}

func TestWSHandler_UnknownTypeIsReported(t *testing.T) {
	srv := newNativeServer(t)
	conn := dialWS(t, srv)
	readEnvelope(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping-test"}`)))

	env := readEnvelope(t, conn)
	assert.Equal(t, "error", env.Type)
	assert.Equal(t, "Unknown message type: ping-test", payloadString(t, env))
}

func TestWSHandler_InvalidFramesKeepConnectionOpen(t *testing.T) {
	srv := newNativeServer(t)
	conn := dialWS(t, srv)
	readEnvelope(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json at all`)))
	env := readEnvelope(t, conn)
	assert.Equal(t, "error", env.Type)
	assert.Equal(t, "malformed message: expected a JSON object", payloadString(t, env))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":"no type here"}`)))
	env = readEnvelope(t, conn)
	assert.Equal(t, "error", env.Type)
	assert.Equal(t, `invalid message structure: "type" is required`, payloadString(t, env))

	// The connection survived both rejects.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"chat","payload":"still here"}`)))
	env = readEnvelope(t, conn)
	assert.Equal(t, "chatResponse", env.Type)
	assert.Equal(t, "You said: still here", payloadString(t, env))
}

func TestWSHandler_NonStringPayloadEchoesJSON(t *testing.T) {
	srv := newNativeServer(t)
	conn := dialWS(t, srv)
	readEnvelope(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"chat","payload":{"a":1}}`)))

	env := readEnvelope(t, conn)
	assert.Equal(t, "chatResponse", env.Type)
	assert.Equal(t, `You said: {"a":1}`, payloadString(t, env))
}
