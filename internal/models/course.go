package models

import "strings"

// Course is a recurring class meeting in a classroom.
type Course struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	CourseCode  string  `db:"course_code" json:"courseCode"`
	Instructor  *string `db:"instructor" json:"instructor"`
	ClassroomID int64   `db:"classroom_id" json:"classroomId"`
	StartTime   string  `db:"start_time" json:"startTime"`
	EndTime     string  `db:"end_time" json:"endTime"`
	DaysOfWeek  string  `db:"days_of_week" json:"daysOfWeek"`
	Description *string `db:"description" json:"description"`
}

// MeetsOn reports whether the course meets on the given day abbreviation ("Mon").
func (c Course) MeetsOn(day string) bool {
	for _, d := range strings.Split(c.DaysOfWeek, ",") {
		if strings.EqualFold(strings.TrimSpace(d), day) {
			return true
		}
	}
	return false
}

// CreateCourseRequest is the payload for POST /courses.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required"`
	CourseCode  string  `json:"courseCode" validate:"required"`
	Instructor  *string `json:"instructor"`
	ClassroomID int64   `json:"classroomId" validate:"required,gt=0"`
	StartTime   string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime     string  `json:"endTime" validate:"required,datetime=15:04"`
	DaysOfWeek  string  `json:"daysOfWeek" validate:"required,weekdays"`
	Description *string `json:"description"`
}

// Weekdays lists the abbreviations accepted in DaysOfWeek.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
