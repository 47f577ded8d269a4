package share

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/internal/routing"
	"github.com/uzhroute/uzhroute/pkg/common"
)

// routeResolver resolves a query to a route; the routing service implements it.
type routeResolver interface {
	Route(ctx context.Context, q routing.Query) (*routing.Route, error)
}

// Handler exposes the share surface: GPX export and canonical share links.
type Handler struct {
	resolver routeResolver
}

// NewHandler creates a new share handler
func NewHandler(resolver routeResolver) *Handler {
	return &Handler{resolver: resolver}
}

// RegisterRoutes registers share endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/share")
	{
		group.GET("/gpx", h.ExportGPX)
		group.GET("/link", h.Link)
	}
}

// ExportGPX streams the resolved route as a GPX 1.1 track
// @Summary Export a route as GPX
// @Tags Share
// @Produce application/gpx+xml
// @Param a query string true "Start point as lat,lon"
// @Param b query string true "End point as lat,lon"
// @Param m query string false "Routing profile (car or walk)" default(car)
// @Success 200 {string} string "GPX document"
// @Failure 400 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/v1/share/gpx [get]
func (h *Handler) ExportGPX(c *gin.Context) {
	query, err := DecodeQuery(c.Request.URL.Query())
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.resolver.Route(c.Request.Context(), query)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to resolve route")
		return
	}

	body, err := BuildGPX(route, time.Now())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to render GPX")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="route.gpx"`)
	c.Data(http.StatusOK, "application/gpx+xml", body)
}

// Link returns the canonical share URL for a route query
// @Summary Build a share link
// @Tags Share
// @Produce json
// @Param a query string true "Start point as lat,lon"
// @Param b query string true "End point as lat,lon"
// @Param m query string false "Routing profile (car or walk)" default(car)
// @Success 200 {object} map[string]string
// @Failure 400 {object} common.Response
// @Router /api/v1/share/link [get]
func (h *Handler) Link(c *gin.Context) {
	query, err := DecodeQuery(c.Request.URL.Query())
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	shareURL := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     "/",
		RawQuery: EncodeQuery(query).Encode(),
	}

	c.JSON(http.StatusOK, gin.H{"url": shareURL.String()})
}
