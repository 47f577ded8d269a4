package transit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/pkg/config"
)

// disabledMessage explains why the surface is empty until a GTFS feed or a
// live vehicle API is wired in.
const disabledMessage = "Модуль транспорту вимкнений (потрібні GTFS/реальний API)."

// Handler serves the stubbed public transport surface. The endpoints exist
// so clients can probe for the feature; they return empty data until a real
// feed is configured.
type Handler struct {
	enabled bool
}

// NewHandler creates a new transit handler
func NewHandler(cfg config.TransitConfig) *Handler {
	return &Handler{enabled: cfg.Enabled}
}

// RegisterRoutes registers transit endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/transit")
	{
		group.GET("/schedule", h.Schedule)
		group.GET("/vehicles", h.Vehicles)
	}
}

// Schedule returns the transit schedule surface
// @Summary Transit schedule
// @Tags Transit
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/transit/schedule [get]
func (h *Handler) Schedule(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusOK, gin.H{
			"enabled": false,
			"message": disabledMessage,
			"routes":  []interface{}{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled": true,
		"routes":  []interface{}{},
	})
}

// Vehicles returns live vehicle positions
// @Summary Transit vehicle positions
// @Tags Transit
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/transit/vehicles [get]
func (h *Handler) Vehicles(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusOK, gin.H{
			"enabled":  false,
			"message":  disabledMessage,
			"vehicles": []interface{}{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":  true,
		"vehicles": []interface{}{},
	})
}
