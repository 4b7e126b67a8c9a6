package mux

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upgradeAndTag upgrades the handshake and sends a single frame naming
// the stack that claimed it.
func upgradeAndTag(tag string) http.Handler {
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(tag))
	})
}

func newMuxServer(t *testing.T, native http.Handler) *httptest.Server {
	t.Helper()

	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "api ok")
	})
	srv := httptest.NewServer(New(native, upgradeAndTag("events"), api))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func readTag(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

func TestMux_PlainRequestsGoToAPI(t *testing.T) {
	srv := newMuxServer(t, upgradeAndTag("native"))

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "api ok", string(body))
}

func TestMux_NativePathUpgrades(t *testing.T) {
	srv := newMuxServer(t, upgradeAndTag("native"))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "native", readTag(t, conn))
}

func TestMux_EventsNamespaceUpgrades(t *testing.T) {
	srv := newMuxServer(t, upgradeAndTag("native"))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/events/ws"), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "events", readTag(t, conn))
}

func TestMux_UnknownUpgradePathIsDestroyed(t *testing.T) {
	srv := newMuxServer(t, upgradeAndTag("native"))

	_, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/socket.io/"), nil)
	require.Error(t, err)
}

func TestMux_HandlerPanicDoesNotKillListener(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	srv := newMuxServer(t, panicking)

	_, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	require.Error(t, err)

	// The listener keeps accepting after the fault.
	resp, err := http.Get(srv.URL + "/anything")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/events/ws"), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "events", readTag(t, conn))
}
