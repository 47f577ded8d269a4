package history

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/pkg/common"
	"github.com/uzhroute/uzhroute/pkg/middleware"
)

// Handler handles HTTP requests for recent routes
type Handler struct {
	service *Service
}

// NewHandler creates a new recent routes handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers recent routes endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/routes/recent", middleware.RequireClientID())
	{
		group.GET("", h.List)
		group.POST("", h.Record)
		group.DELETE("", h.Clear)
	}
}

// List returns the client's recent routes
// @Summary List recent routes
// @Tags History
// @Produce json
// @Param X-Client-ID header string true "Anonymous client UUID"
// @Success 200 {array} RecentRoute
// @Failure 400 {object} common.Response
// @Router /api/v1/routes/recent [get]
func (h *Handler) List(c *gin.Context) {
	clientID, _ := middleware.GetClientID(c)

	routes, err := h.service.List(c.Request.Context(), clientID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load recent routes")
		return
	}

	c.JSON(http.StatusOK, routes)
}

// Record appends one route to the client's history
// @Summary Record a recent route
// @Tags History
// @Accept json
// @Produce json
// @Param X-Client-ID header string true "Anonymous client UUID"
// @Success 201 {object} RecentRoute
// @Failure 400 {object} common.Response
// @Router /api/v1/routes/recent [post]
func (h *Handler) Record(c *gin.Context) {
	clientID, _ := middleware.GetClientID(c)

	var route RecentRoute
	if err := c.ShouldBindJSON(&route); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.service.Record(c.Request.Context(), clientID, &route); err != nil {
		if errors.Is(err, ErrInvalidRoute) {
			common.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to record route")
		return
	}

	c.JSON(http.StatusCreated, route)
}

// Clear wipes the client's history
// @Summary Clear recent routes
// @Tags History
// @Produce json
// @Param X-Client-ID header string true "Anonymous client UUID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} common.Response
// @Router /api/v1/routes/recent [delete]
func (h *Handler) Clear(c *gin.Context) {
	clientID, _ := middleware.GetClientID(c)

	if err := h.service.Clear(c.Request.Context(), clientID); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to clear recent routes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recent routes cleared"})
}
