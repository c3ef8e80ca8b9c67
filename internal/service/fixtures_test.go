package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/repository"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
)

type campusFixture struct {
	store     *repository.MemoryStore
	library   *models.Building
	academic  *models.Building
	room      *models.Classroom
	student   *models.User
	classmate *models.User
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(b bool) *bool { return &b }

func newCampusFixture(t *testing.T) campusFixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	libType := models.BuildingLibrary
	academicType := models.BuildingAcademic
	academic, err := store.CreateBuilding(ctx, models.Building{Name: "Main Academic Building", Latitude: "12.806763", Longitude: "74.932512", Type: &academicType})
	require.NoError(t, err)
	library, err := store.CreateBuilding(ctx, models.Building{Name: "Central Library", Latitude: "12.806626", Longitude: "74.932975", Type: &libType})
	require.NoError(t, err)
	room, err := store.CreateClassroom(ctx, models.Classroom{BuildingID: academic.ID, RoomNumber: "101"})
	require.NoError(t, err)

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	student, err := store.CreateUser(ctx, models.User{Username: "student1", PasswordHash: hash, DisplayName: strPtr("Rahul Kumar"), Role: models.RoleStudent, StudentID: strPtr("4PA21CS001")})
	require.NoError(t, err)
	classmate, err := store.CreateUser(ctx, models.User{Username: "student2", PasswordHash: hash, DisplayName: strPtr("Priya Shetty"), Role: models.RoleStudent})
	require.NoError(t, err)

	return campusFixture{store: store, library: library, academic: academic, room: room, student: student, classmate: classmate}
}

func assertStatus(t *testing.T, err error, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, status, appErr.Status)
	return appErr
}
