package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

const courseColumns = `id, name, course_code, instructor, classroom_id, start_time, end_time, days_of_week, description`

// CourseRepository provides database access for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListCourses returns every course ordered by id.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns a course by identifier.
func (r *CourseRepository) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM courses WHERE id = $1 LIMIT 1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// ListCoursesByUser returns every course until enrollments are modelled.
func (r *CourseRepository) ListCoursesByUser(ctx context.Context, _ int64) ([]models.Course, error) {
	return r.ListCourses(ctx)
}

// CreateCourse inserts a course and returns the stored record.
func (r *CourseRepository) CreateCourse(ctx context.Context, c models.Course) (*models.Course, error) {
	const query = `INSERT INTO courses (name, course_code, instructor, classroom_id, start_time, end_time, days_of_week, description) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ` + courseColumns
	var created models.Course
	if err := r.db.GetContext(ctx, &created, query,
		c.Name, c.CourseCode, c.Instructor, c.ClassroomID, c.StartTime, c.EndTime, c.DaysOfWeek, c.Description,
	); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &created, nil
}
