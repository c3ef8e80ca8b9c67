package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
	"github.com/noah-isme/campus-nav-api/pkg/export"
)

// Export formats for timetables.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type scheduleSource interface {
	Schedule(ctx context.Context, userID int64) ([]models.ScheduleEntry, error)
}

type scheduleUserRepository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type csvRenderer interface {
	Render(data export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Table) ([]byte, error)
}

// ExportFile is a rendered document ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ScheduleExportService renders a user's timetable as CSV or PDF.
type ScheduleExportService struct {
	schedules scheduleSource
	users     scheduleUserRepository
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleExportService constructs the export service.
func NewScheduleExportService(schedules scheduleSource, users scheduleUserRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ScheduleExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ScheduleExportService{
		schedules: schedules,
		users:     users,
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var scheduleColumns = []export.Column{
	{Key: "days", Label: "Days", Width: 1.4},
	{Key: "start", Label: "Start", Width: 0.8},
	{Key: "end", Label: "End", Width: 0.8},
	{Key: "code", Label: "Code", Width: 1},
	{Key: "course", Label: "Course", Width: 2.6},
	{Key: "instructor", Label: "Instructor", Width: 1.8},
	{Key: "room", Label: "Room", Width: 0.8},
	{Key: "building", Label: "Building", Width: 2.2},
}

// Export renders the user's timetable in the requested format.
func (s *ScheduleExportService) Export(ctx context.Context, userID int64, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.FieldInvalid("format", "oneof", "format must be one of csv pdf")
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}

	entries, err := s.schedules.Schedule(ctx, userID)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:    "Class schedule",
		Subtitle: fmt.Sprintf("%s, generated %s", displayName(user), s.now().Format("2006-01-02 15:04 MST")),
		Columns:  scheduleColumns,
		Rows:     make([]map[string]string, 0, len(entries)),
	}
	for _, e := range entries {
		row := map[string]string{
			"days":       e.Course.DaysOfWeek,
			"start":      e.Course.StartTime,
			"end":        e.Course.EndTime,
			"code":       e.Course.CourseCode,
			"course":     e.Course.Name,
			"instructor": deref(e.Course.Instructor),
		}
		if e.Classroom != nil {
			row["room"] = e.Classroom.RoomNumber
		}
		if e.Building != nil {
			row["building"] = e.Building.Name
		}
		table.Rows = append(table.Rows, row)
	}

	file := &ExportFile{Filename: "schedule-" + strconv.FormatInt(userID, 10) + "." + format}
	switch format {
	case FormatPDF:
		file.ContentType = "application/pdf"
		file.Body, err = s.pdf.Render(table)
	default:
		file.ContentType = "text/csv; charset=utf-8"
		file.Body, err = s.csv.Render(table)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render schedule")
	}
	s.logger.Info("schedule exported", zap.Int64("user_id", userID), zap.String("format", format), zap.Int("rows", len(table.Rows)))
	return file, nil
}

func displayName(u *models.User) string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
