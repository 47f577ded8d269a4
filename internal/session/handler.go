package session

import (
	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/pkg/websocket"
)

// Handler exposes the websocket endpoint for interactive route sessions.
type Handler struct {
	hub *websocket.Hub
}

func NewHandler(hub *websocket.Hub, controller *Controller) *Handler {
	controller.Register(hub)
	return &Handler{hub: hub}
}

// RegisterRoutes registers the websocket upgrade endpoint
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ws/route", h.serveSession)
}

// serveSession godoc
// @Summary Interactive route session
// @Description Upgrades to a websocket carrying route-state messages. Pass session_id to resume an existing session.
// @Tags session
// @Param session_id query string false "Session UUID to resume"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} map[string]string
// @Router /ws/route [get]
func (h *Handler) serveSession(c *gin.Context) {
	websocket.HandleWebSocket(c, h.hub)
}
