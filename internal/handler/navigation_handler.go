package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-nav-api/internal/service"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
	"github.com/noah-isme/campus-nav-api/pkg/response"
)

// NavigationHandler serves distance estimates.
type NavigationHandler struct {
	service *service.NavigationService
}

// NewNavigationHandler constructs a navigation handler.
func NewNavigationHandler(svc *service.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: svc}
}

// Distance godoc
// @Summary Distance and walking time
// @Description Each side is a building id (from, to) or a coordinate pair (fromLat/fromLon, toLat/toLon)
// @Tags Navigation
// @Produce json
// @Param from query int false "Origin building ID"
// @Param to query int false "Destination building ID"
// @Param fromLat query number false "Origin latitude"
// @Param fromLon query number false "Origin longitude"
// @Param toLat query number false "Destination latitude"
// @Param toLon query number false "Destination longitude"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /navigation/distance [get]
func (h *NavigationHandler) Distance(c *gin.Context) {
	from, err := endpointFromQuery(c, "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := endpointFromQuery(c, "to")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Distance(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func endpointFromQuery(c *gin.Context, side string) (service.Endpoint, error) {
	if raw := strings.TrimSpace(c.Query(side)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return service.Endpoint{}, appErrors.FieldInvalid(side, "numeric", side+" must be a building id")
		}
		return service.Endpoint{BuildingID: &id}, nil
	}
	if c.Query(side+"Lat") == "" && c.Query(side+"Lon") == "" {
		return service.Endpoint{}, nil
	}
	p, err := pointFromQuery(c, side+"Lat", side+"Lon")
	if err != nil {
		return service.Endpoint{}, err
	}
	return service.Endpoint{Point: &p}, nil
}
