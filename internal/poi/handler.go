package poi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/pkg/common"
	"github.com/uzhroute/uzhroute/pkg/validation"
)

// Handler exposes the POI listing endpoint.
type Handler struct {
	service *Service
}

// NewHandler creates a new POI handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers POI endpoints on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/poi", h.List)
}

// List handles POI listing requests
// @Summary List points of interest
// @Description Returns POIs of one category inside the city viewbox
// @Tags POI
// @Produce json
// @Param category query string true "POI category (cafe, restaurant, shop, pharmacy, bank, hotel)"
// @Param limit query int false "Maximum number of POIs" default(50)
// @Success 200 {array} POI
// @Failure 400 {object} common.Response
// @Failure 502 {object} common.Response
// @Router /api/v1/poi [get]
func (h *Handler) List(c *gin.Context) {
	var req validation.POIRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	pois, err := h.service.ByCategory(c.Request.Context(), Category(req.Category), req.Limit)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load POIs")
		return
	}

	c.JSON(http.StatusOK, pois)
}
