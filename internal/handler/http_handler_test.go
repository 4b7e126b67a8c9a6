package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharthray/chatApp-backend/internal/service"
	"github.com/siddharthray/chatApp-backend/internal/store"
)

func newAPIEngine(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHTTPHandler(service.NewRoomService(store.NewMemoryStore(50))).RegisterRoutes(engine)
	return engine
}

func TestHTTPHandler_Health(t *testing.T) {
	engine := newAPIEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHTTPHandler_ListDefaultRooms(t *testing.T) {
	engine := newAPIEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/rooms", nil))

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t,
		`{"success":true,"data":{"rooms":["general","tech","random","support"]}}`,
		w.Body.String())
}

func TestHTTPHandler_SearchRejectsShortQuery(t *testing.T) {
	engine := newAPIEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/rooms/search?q=ab", nil))

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "query must be at least 3 characters")
}

func TestHTTPHandler_CreateThenSearchRoom(t *testing.T) {
	engine := newAPIEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/rooms", strings.NewReader(`{"name":"golang"}`)))
	require.Equal(t, 201, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"room created"}}`, w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/rooms/search?q=gol", nil))
	require.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"results":["golang"]}}`, w.Body.String())
}

func TestHTTPHandler_CreateRequiresName(t *testing.T) {
	engine := newAPIEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/rooms", strings.NewReader(`{}`)))

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "room name is required")
}
