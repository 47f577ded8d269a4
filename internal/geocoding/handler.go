package geocoding

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/pkg/common"
)

// Handler exposes the place search endpoint.
type Handler struct {
	service *Service
}

// NewHandler creates a new geocoding handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers geocoding endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/geocode", h.Search)
}

// Search handles place search requests
// @Summary Search for places
// @Description Returns ranked place candidates for a free-text query, biased to the city
// @Tags Geocoding
// @Produce json
// @Param q query string true "Free-text search query"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} Result
// @Failure 400 {object} common.Response
// @Router /api/v1/geocode [get]
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		common.ErrorResponse(c, http.StatusBadRequest, `query parameter "q" is required`)
		return
	}

	limit := 0
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			common.ErrorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results := h.service.Search(c.Request.Context(), query, limit)
	c.JSON(http.StatusOK, results)
}
