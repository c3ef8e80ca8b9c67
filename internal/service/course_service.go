package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
)

type courseRepository interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCoursesByUser(ctx context.Context, userID int64) ([]models.Course, error)
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	GetClassroom(ctx context.Context, id int64) (*models.Classroom, error)
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
}

// CourseService handles course catalog and timetable reads.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

// Create adds a course meeting in an existing classroom.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	if !clockBefore(req.StartTime, req.EndTime) {
		return nil, appErrors.FieldInvalid("endTime", "gtfield", "endTime must be after startTime")
	}
	classroom, err := s.repo.GetClassroom(ctx, req.ClassroomID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load classroom")
	}
	if classroom == nil {
		return nil, appErrors.FieldInvalid("classroomId", "exists", "classroomId does not reference a classroom")
	}

	course, err := s.repo.CreateCourse(ctx, models.Course{
		Name:        req.Name,
		CourseCode:  strings.ToUpper(strings.TrimSpace(req.CourseCode)),
		Instructor:  req.Instructor,
		ClassroomID: req.ClassroomID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		DaysOfWeek:  normalizeDays(req.DaysOfWeek),
		Description: req.Description,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create course")
	}
	return course, nil
}

// ListForUser returns a user's courses, optionally only those meeting on day.
func (s *CourseService) ListForUser(ctx context.Context, userID int64, day string) ([]models.Course, error) {
	day = strings.TrimSpace(day)
	if day != "" && !isWeekday(day) {
		return nil, appErrors.FieldInvalid("day", "oneof", "day must be one of Mon Tue Wed Thu Fri Sat Sun")
	}
	courses, err := s.repo.ListCoursesByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list user courses")
	}
	if day == "" {
		return courses, nil
	}
	filtered := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.MeetsOn(day) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Schedule joins a user's courses with their classroom and building, ordered
// by start time.
func (s *CourseService) Schedule(ctx context.Context, userID int64) ([]models.ScheduleEntry, error) {
	courses, err := s.ListForUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	classrooms := map[int64]*models.Classroom{}
	buildings := map[int64]*models.Building{}
	entries := make([]models.ScheduleEntry, 0, len(courses))
	for _, c := range courses {
		entry := models.ScheduleEntry{Course: c}
		classroom, ok := classrooms[c.ClassroomID]
		if !ok {
			if classroom, err = s.repo.GetClassroom(ctx, c.ClassroomID); err != nil {
				return nil, appErrors.Internal(err, "failed to load classroom")
			}
			classrooms[c.ClassroomID] = classroom
		}
		entry.Classroom = classroom
		if classroom != nil {
			building, ok := buildings[classroom.BuildingID]
			if !ok {
				if building, err = s.repo.GetBuilding(ctx, classroom.BuildingID); err != nil {
					return nil, appErrors.Internal(err, "failed to load building")
				}
				buildings[classroom.BuildingID] = building
			}
			entry.Building = building
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return clockBefore(entries[i].Course.StartTime, entries[j].Course.StartTime)
	})
	return entries, nil
}

func normalizeDays(raw string) string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		for _, d := range models.Weekdays {
			if strings.EqualFold(d, p) {
				out = append(out, d)
				break
			}
		}
	}
	return strings.Join(out, ",")
}

// clockBefore compares two HH:MM values. Unparseable values fall back to string order.
func clockBefore(a, b string) bool {
	ta, errA := time.Parse("15:04", a)
	tb, errB := time.Parse("15:04", b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ta.Before(tb)
}
