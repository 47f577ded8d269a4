package places

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzhroute/uzhroute/pkg/common"
	"github.com/uzhroute/uzhroute/pkg/middleware"
	"github.com/uzhroute/uzhroute/pkg/validation"
)

// Handler handles HTTP requests for saved places
type Handler struct {
	service *Service
}

// NewHandler creates a new saved places handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers saved places endpoints on the group. Every route
// requires the anonymous client identity header.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/places", middleware.RequireClientID())
	{
		group.GET("", h.List)
		group.POST("", h.Save)
		group.DELETE("/:id", h.Delete)
	}
}

// List returns the client's saved places
// @Summary List saved places
// @Tags Places
// @Produce json
// @Param X-Client-ID header string true "Anonymous client UUID"
// @Success 200 {array} SavedPlace
// @Failure 400 {object} common.Response
// @Router /api/v1/places [get]
func (h *Handler) List(c *gin.Context) {
	clientID, _ := middleware.GetClientID(c)

	places, err := h.service.List(c.Request.Context(), clientID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load saved places")
		return
	}

	c.JSON(http.StatusOK, places)
}

// Save stores a place for the client
// @Summary Save a place
// @Tags Places
// @Accept json
// @Produce json
// @Param X-Client-ID header string true "Anonymous client UUID"
// @Success 201 {object} SavedPlace
// @Failure 400 {object} common.Response
// @Router /api/v1/places [post]
func (h *Handler) Save(c *gin.Context) {
	clientID, _ := middleware.GetClientID(c)

	var req validation.SavePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	place, err := h.service.Save(c.Request.Context(), clientID, req.ID, req.Name, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidCoordinates) {
			common.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to save place")
		return
	}

	c.JSON(http.StatusCreated, place)
}

// Delete removes one saved place
// @Summary Delete a saved place
// @Tags Places
// @Produce json
// @Param X-Client-ID header string true "Anonymous client UUID"
// @Param id path string true "Place ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} common.Response
// @Router /api/v1/places/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	clientID, _ := middleware.GetClientID(c)
	id := c.Param("id")

	if err := h.service.Remove(c.Request.Context(), clientID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "saved place not found")
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete place")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "place deleted"})
}
