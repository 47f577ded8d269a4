package routing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/pkg/common"
)

// Handler exposes the route calculation endpoint.
type Handler struct {
	service *Service
}

// NewHandler creates a new routing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers routing endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/route", h.GetRoute)
}

// GetRoute handles route calculation requests
// @Summary Calculate a route between two points
// @Description Resolves a driving or walking route through the provider fallback chain
// @Tags Routing
// @Produce json
// @Param profile query string false "Routing profile (car or walk)" default(car)
// @Param start query string true "Start point as lat,lon"
// @Param end query string true "End point as lat,lon"
// @Success 200 {object} Route
// @Failure 400 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/v1/route [get]
func (h *Handler) GetRoute(c *gin.Context) {
	startRaw := c.Query("start")
	endRaw := c.Query("end")
	if startRaw == "" || endRaw == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "start and end coordinates are required")
		return
	}

	start, err := ParsePoint(startRaw)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid start coordinates")
		return
	}

	end, err := ParsePoint(endRaw)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid end coordinates")
		return
	}

	profile, err := ParseProfile(c.DefaultQuery("profile", "car"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "profile must be car or walk")
		return
	}

	// Routes are point-in-time answers; clients must not reuse them.
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	route, err := h.service.Route(c.Request.Context(), Query{Start: start, End: end, Profile: profile})
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to calculate route")
		return
	}

	c.JSON(http.StatusOK, route)
}
