package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

func TestCourseServiceCreate(t *testing.T) {
	fx := newCampusFixture(t)
	svc := NewCourseService(fx.store, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.CreateCourseRequest{Name: "OS", CourseCode: "cs305", ClassroomID: 99, StartTime: "09:00", EndTime: "10:00", DaysOfWeek: "Mon"})
	appErr := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "classroomId", appErr.Details[0].Field)

	_, err = svc.Create(ctx, models.CreateCourseRequest{Name: "OS", CourseCode: "cs305", ClassroomID: fx.room.ID, StartTime: "09:00", EndTime: "10:00", DaysOfWeek: "Mon,Funday"})
	appErr = assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "daysOfWeek", appErr.Details[0].Field)

	_, err = svc.Create(ctx, models.CreateCourseRequest{Name: "OS", CourseCode: "cs305", ClassroomID: fx.room.ID, StartTime: "10:00", EndTime: "09:00", DaysOfWeek: "Mon"})
	assertStatus(t, err, http.StatusBadRequest)

	course, err := svc.Create(ctx, models.CreateCourseRequest{Name: "OS", CourseCode: " cs305 ", ClassroomID: fx.room.ID, StartTime: "09:00", EndTime: "10:00", DaysOfWeek: "mon, wed"})
	require.NoError(t, err)
	assert.Equal(t, "CS305", course.CourseCode)
	assert.Equal(t, "Mon,Wed", course.DaysOfWeek)
}

func TestCourseServiceListForUserFiltersByDay(t *testing.T) {
	fx := newCampusFixture(t)
	svc := NewCourseService(fx.store, nil, nil)
	ctx := context.Background()

	_, err := fx.store.CreateCourse(ctx, models.Course{Name: "DS", CourseCode: "CS201", ClassroomID: fx.room.ID, StartTime: "11:00", EndTime: "12:00", DaysOfWeek: "Mon,Wed,Fri"})
	require.NoError(t, err)
	_, err = fx.store.CreateCourse(ctx, models.Course{Name: "DBMS", CourseCode: "CS301", ClassroomID: fx.room.ID, StartTime: "09:00", EndTime: "10:00", DaysOfWeek: "Tue,Thu"})
	require.NoError(t, err)

	all, err := svc.ListForUser(ctx, fx.student.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tuesday, err := svc.ListForUser(ctx, fx.student.ID, "tue")
	require.NoError(t, err)
	require.Len(t, tuesday, 1)
	assert.Equal(t, "CS301", tuesday[0].CourseCode)

	_, err = svc.ListForUser(ctx, fx.student.ID, "Someday")
	assertStatus(t, err, http.StatusBadRequest)

	schedule, err := svc.Schedule(ctx, fx.student.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "CS301", schedule[0].Course.CourseCode)
	require.NotNil(t, schedule[0].Building)
	assert.Equal(t, fx.academic.ID, schedule[0].Building.ID)
}

func TestClockBefore(t *testing.T) {
	assert.True(t, clockBefore("9:00", "10:00"))
	assert.False(t, clockBefore("10:00", "10:00"))
	assert.True(t, clockBefore("08:30", "13:15"))
}
