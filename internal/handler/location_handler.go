package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/service"
	"github.com/noah-isme/campus-nav-api/pkg/response"
)

// LocationHandler serves live location sharing.
type LocationHandler struct {
	service *service.LocationService
}

// NewLocationHandler constructs a location handler.
func NewLocationHandler(svc *service.LocationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// Get godoc
// @Summary Current location of a user
// @Tags Locations
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/location [get]
func (h *LocationHandler) Get(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	loc, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, loc)
}

// Create godoc
// @Summary Record a location
// @Description Replaces any previous location of the user
// @Tags Locations
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param payload body models.LocationUpdate true "Location payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/location [post]
func (h *LocationHandler) Create(c *gin.Context) {
	userID, upd, ok := h.bind(c)
	if !ok {
		return
	}
	loc, err := h.service.Create(c.Request.Context(), userID, upd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, loc)
}

// Update godoc
// @Summary Replace a location
// @Description Omitted coordinates are stored as "0"
// @Tags Locations
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param payload body models.LocationUpdate true "Location payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/location [put]
func (h *LocationHandler) Update(c *gin.Context) {
	userID, upd, ok := h.bind(c)
	if !ok {
		return
	}
	loc, err := h.service.Update(c.Request.Context(), userID, upd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, loc)
}

// SetSharing godoc
// @Summary Toggle location sharing
// @Tags Locations
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param payload body models.SharingRequest true "Sharing flag"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/location/sharing [patch]
func (h *LocationHandler) SetSharing(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.SharingRequest
	if err := bindJSON(c, &req, "isSharing must be a boolean"); err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.service.SetSharing(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// ListSharing godoc
// @Summary Locations currently shared
// @Tags Locations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student-locations [get]
func (h *LocationHandler) ListSharing(c *gin.Context) {
	shared, err := h.service.ListSharing(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shared)
}

func (h *LocationHandler) bind(c *gin.Context) (int64, models.LocationUpdate, bool) {
	var upd models.LocationUpdate
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return 0, upd, false
	}
	if err := bindJSON(c, &upd, "invalid location payload"); err != nil {
		response.Error(c, err)
		return 0, upd, false
	}
	return userID, upd, true
}
