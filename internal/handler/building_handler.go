package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/service"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
	"github.com/noah-isme/campus-nav-api/pkg/geo"
	"github.com/noah-isme/campus-nav-api/pkg/response"
)

// BuildingHandler serves buildings and the classrooms inside them.
type BuildingHandler struct {
	service *service.BuildingService
}

// NewBuildingHandler constructs a building handler.
func NewBuildingHandler(svc *service.BuildingService) *BuildingHandler {
	return &BuildingHandler{service: svc}
}

// List godoc
// @Summary List buildings
// @Tags Buildings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /buildings [get]
func (h *BuildingHandler) List(c *gin.Context) {
	buildings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, buildings)
}

// Nearby godoc
// @Summary Buildings near a point
// @Description Buildings within radius meters of lat/lon, closest first
// @Tags Buildings
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radius query number false "Radius in meters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /buildings/nearby [get]
func (h *BuildingHandler) Nearby(c *gin.Context) {
	origin, err := pointFromQuery(c, "lat", "lon")
	if err != nil {
		response.Error(c, err)
		return
	}
	radius, _, err := queryFloat(c, "radius")
	if err != nil {
		response.Error(c, err)
		return
	}

	nearby, err := h.service.Nearby(c.Request.Context(), origin, radius)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nearby, map[string]interface{}{"count": len(nearby)})
}

// Get godoc
// @Summary Get building
// @Tags Buildings
// @Produce json
// @Param id path int true "Building ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /buildings/{id} [get]
func (h *BuildingHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	building, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, building)
}

// Create godoc
// @Summary Create building
// @Tags Buildings
// @Accept json
// @Produce json
// @Param payload body models.CreateBuildingRequest true "Building payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /buildings [post]
func (h *BuildingHandler) Create(c *gin.Context) {
	var req models.CreateBuildingRequest
	if err := bindJSON(c, &req, "invalid building payload"); err != nil {
		response.Error(c, err)
		return
	}
	building, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, building)
}

// ListClassrooms godoc
// @Summary Classrooms in a building
// @Tags Classrooms
// @Produce json
// @Param id path int true "Building ID"
// @Success 200 {object} response.Envelope
// @Router /buildings/{id}/classrooms [get]
func (h *BuildingHandler) ListClassrooms(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	classrooms, err := h.service.ListClassrooms(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classrooms)
}

// GetClassroom godoc
// @Summary Get classroom
// @Tags Classrooms
// @Produce json
// @Param id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *BuildingHandler) GetClassroom(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	classroom, err := h.service.GetClassroom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classroom)
}

// CreateClassroom godoc
// @Summary Create classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param payload body models.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classrooms [post]
func (h *BuildingHandler) CreateClassroom(c *gin.Context) {
	var req models.CreateClassroomRequest
	if err := bindJSON(c, &req, "invalid classroom payload"); err != nil {
		response.Error(c, err)
		return
	}
	classroom, err := h.service.CreateClassroom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}

// pointFromQuery reads a required coordinate pair from the query string.
func pointFromQuery(c *gin.Context, latKey, lonKey string) (geo.Point, error) {
	lat, hasLat, err := queryFloat(c, latKey)
	if err != nil {
		return geo.Point{}, err
	}
	lon, hasLon, err := queryFloat(c, lonKey)
	if err != nil {
		return geo.Point{}, err
	}
	if !hasLat {
		return geo.Point{}, appErrors.FieldInvalid(latKey, "required", latKey+" is required")
	}
	if !hasLon {
		return geo.Point{}, appErrors.FieldInvalid(lonKey, "required", lonKey+" is required")
	}
	if lat < -90 || lat > 90 {
		return geo.Point{}, appErrors.FieldInvalid(latKey, "latitude", latKey+" must be a decimal latitude")
	}
	if lon < -180 || lon > 180 {
		return geo.Point{}, appErrors.FieldInvalid(lonKey, "longitude", lonKey+" must be a decimal longitude")
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}
