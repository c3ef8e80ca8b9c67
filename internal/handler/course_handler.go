package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/service"
	"github.com/noah-isme/campus-nav-api/pkg/response"
)

// CourseHandler serves courses, per-user timetables and their exports.
type CourseHandler struct {
	service *service.CourseService
	exports *service.ScheduleExportService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc *service.CourseService, exports *service.ScheduleExportService) *CourseHandler {
	return &CourseHandler{service: svc, exports: exports}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := bindJSON(c, &req, "invalid course payload"); err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// ListForUser godoc
// @Summary Courses of a user
// @Tags Courses
// @Produce json
// @Param userId path int true "User ID"
// @Param day query string false "Weekday abbreviation such as Mon"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/{userId}/courses [get]
func (h *CourseHandler) ListForUser(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.service.ListForUser(c.Request.Context(), userID, c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Schedule godoc
// @Summary Timetable of a user
// @Description Courses joined with classroom and building, ordered by start time
// @Tags Courses
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userId}/schedule [get]
func (h *CourseHandler) Schedule(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.service.Schedule(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// ExportSchedule godoc
// @Summary Export a user's timetable
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param userId path int true "User ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userId}/schedule/export [get]
func (h *CourseHandler) ExportSchedule(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Export(c.Request.Context(), userID, c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
