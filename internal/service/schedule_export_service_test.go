package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Table) ([]byte, error) {
	return nil, errors.New("renderer down")
}

func newExportFixture(t *testing.T) (campusFixture, *ScheduleExportService) {
	t.Helper()
	fx := newCampusFixture(t)
	_, err := fx.store.CreateCourse(context.Background(), models.Course{Name: "Data Structures", CourseCode: "CS201", ClassroomID: fx.room.ID, StartTime: "11:00", EndTime: "12:00", DaysOfWeek: "Mon,Wed"})
	require.NoError(t, err)
	_, err = fx.store.CreateCourse(context.Background(), models.Course{Name: "Operating Systems", CourseCode: "CS305", Instructor: strPtr("Dr. Rao"), ClassroomID: fx.room.ID, StartTime: "09:00", EndTime: "10:00", DaysOfWeek: "Tue"})
	require.NoError(t, err)

	courses := NewCourseService(fx.store, nil, nil)
	svc := NewScheduleExportService(courses, fx.store, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) }
	return fx, svc
}

func TestScheduleExportCSV(t *testing.T) {
	fx, svc := newExportFixture(t)

	file, err := svc.Export(context.Background(), fx.student.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "schedule-"+strconv.FormatInt(fx.student.ID, 10)+".csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Days,Start,End,Code,Course,Instructor,Room,Building", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Tue,09:00,10:00,CS305,Operating Systems,Dr. Rao,101,"))
	assert.True(t, strings.HasPrefix(lines[2], `"Mon,Wed",11:00,12:00,CS201`))
}

func TestScheduleExportPDF(t *testing.T) {
	fx, svc := newExportFixture(t)

	file, err := svc.Export(context.Background(), fx.student.ID, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestScheduleExportErrors(t *testing.T) {
	fx, svc := newExportFixture(t)
	ctx := context.Background()

	_, err := svc.Export(ctx, fx.student.ID, "xlsx")
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Export(ctx, 999, FormatCSV)
	assertStatus(t, err, http.StatusNotFound)

	svc.csv = failingRenderer{}
	_, err = svc.Export(ctx, fx.student.ID, FormatCSV)
	assertStatus(t, err, http.StatusInternalServerError)
}
