package repository

import (
	"context"
	"time"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

// UserStore persists accounts.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
}

// BuildingStore persists buildings.
type BuildingStore interface {
	ListBuildings(ctx context.Context) ([]models.Building, error)
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
	CreateBuilding(ctx context.Context, building models.Building) (*models.Building, error)
}

// ClassroomStore persists classrooms.
type ClassroomStore interface {
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	ListClassroomsByBuilding(ctx context.Context, buildingID int64) ([]models.Classroom, error)
	GetClassroom(ctx context.Context, id int64) (*models.Classroom, error)
	CreateClassroom(ctx context.Context, classroom models.Classroom) (*models.Classroom, error)
}

// CourseStore persists courses.
type CourseStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	// ListCoursesByUser returns the courses a user attends. There is no
	// enrollment relation yet so every course is returned.
	ListCoursesByUser(ctx context.Context, userID int64) ([]models.Course, error)
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
}

// EventStore persists events.
type EventStore interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	// ListEventsByDate matches the date string exactly.
	ListEventsByDate(ctx context.Context, date string) ([]models.Event, error)
	ListEventsByCreator(ctx context.Context, userID int64) ([]models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) (*models.Event, error)
	// UpdateEvent merges the patch and returns nil when the event does not exist.
	UpdateEvent(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) (bool, error)
}

// FavoriteStore persists favorites.
type FavoriteStore interface {
	ListFavoritesByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
	GetFavorite(ctx context.Context, id int64) (*models.Favorite, error)
	CreateFavorite(ctx context.Context, favorite models.Favorite) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, id int64) (bool, error)
}

// LocationStore persists the single current location of each user.
type LocationStore interface {
	GetLocation(ctx context.Context, userID int64) (*models.StudentLocation, error)
	// ReplaceLocation removes every location held for loc.UserID and stores loc
	// in one atomic step.
	ReplaceLocation(ctx context.Context, loc models.StudentLocation) (*models.StudentLocation, error)
	// SetSharing returns false without writing when the user has no location.
	SetSharing(ctx context.Context, userID int64, isSharing bool) (bool, error)
	ListSharingLocations(ctx context.Context) ([]models.StudentLocation, error)
	// PurgeLocationsBefore deletes locations reported before cutoff.
	PurgeLocationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store is the full domain contract consumed by services.
type Store interface {
	UserStore
	BuildingStore
	ClassroomStore
	CourseStore
	EventStore
	FavoriteStore
	LocationStore
}

type locationOverride struct {
	Store
	locations LocationStore
}

// WithLocationStore serves the location family from loc and everything else from base.
func WithLocationStore(base Store, loc LocationStore) Store {
	if loc == nil {
		return base
	}
	return &locationOverride{Store: base, locations: loc}
}

func (s *locationOverride) GetLocation(ctx context.Context, userID int64) (*models.StudentLocation, error) {
	return s.locations.GetLocation(ctx, userID)
}

func (s *locationOverride) ReplaceLocation(ctx context.Context, loc models.StudentLocation) (*models.StudentLocation, error) {
	return s.locations.ReplaceLocation(ctx, loc)
}

func (s *locationOverride) SetSharing(ctx context.Context, userID int64, isSharing bool) (bool, error) {
	return s.locations.SetSharing(ctx, userID, isSharing)
}

func (s *locationOverride) ListSharingLocations(ctx context.Context) ([]models.StudentLocation, error) {
	return s.locations.ListSharingLocations(ctx)
}

func (s *locationOverride) PurgeLocationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.locations.PurgeLocationsBefore(ctx, cutoff)
}
