package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/siddharthray/chatApp-backend/internal/service"
	"github.com/siddharthray/chatApp-backend/pkg/log"
	"github.com/siddharthray/chatApp-backend/pkg/response"
)

// HTTPHandler serves the rooms REST surface.
type HTTPHandler struct {
	rooms service.RoomService
}

func NewHTTPHandler(rooms service.RoomService) *HTTPHandler {
	return &HTTPHandler{rooms: rooms}
}

// RegisterRoutes registers all routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListDefaultRooms)
			rooms.GET("/search", h.SearchRooms)
			rooms.POST("", h.CreateRoom)
		}
	}
}

func (h *HTTPHandler) Health(c *gin.Context) {
	c.String(200, "OK")
}

func (h *HTTPHandler) ListDefaultRooms(c *gin.Context) {
	response.Success(c, gin.H{"rooms": h.rooms.DefaultRooms(c.Request.Context())})
}

func (h *HTTPHandler) SearchRooms(c *gin.Context) {
	ctx := c.Request.Context()

	q := c.Query("q")
	if len(q) < 3 {
		response.BadRequest(c, "query must be at least 3 characters")
		return
	}

	results, err := h.rooms.SearchRooms(ctx, q)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("room search failed")
		response.InternalError(c, "failed to search rooms")
		return
	}

	response.Success(c, gin.H{"results": results})
}

func (h *HTTPHandler) CreateRoom(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		response.BadRequest(c, "room name is required")
		return
	}

	if err := h.rooms.CreateRoom(ctx, req.Name); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("room create failed")
		response.InternalError(c, "failed to create room")
		return
	}

	response.Created(c, gin.H{"status": "room created"})
}
