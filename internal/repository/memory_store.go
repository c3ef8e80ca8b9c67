package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

// memTable hands out and stores clones so callers never share pointer
// fields with the rows held under the store lock.
type memTable[T any] struct {
	rows   map[int64]T
	nextID int64
	clone  func(T) T
}

func newMemTable[T any](clone func(T) T) memTable[T] {
	return memTable[T]{rows: make(map[int64]T), clone: clone}
}

func (t *memTable[T]) next() int64 {
	t.nextID++
	return t.nextID
}

func (t *memTable[T]) put(id int64, row T) {
	t.rows[id] = t.clone(row)
}

func (t *memTable[T]) get(id int64) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	row = t.clone(row)
	return &row, true
}

// list returns matching rows in id order, which is insertion order.
func (t *memTable[T]) list(keep func(T) bool) []T {
	ids := make([]int64, 0, len(t.rows))
	for id, row := range t.rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.clone(t.rows[id]))
	}
	return out
}

func (t *memTable[T]) exists(match func(T) bool) bool {
	for _, row := range t.rows {
		if match(row) {
			return true
		}
	}
	return false
}

func (t *memTable[T]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// MemoryStore keeps every entity in process memory. The zero value is not
// usable; construct one per process or test with NewMemoryStore.
type MemoryStore struct {
	mu         sync.RWMutex
	users      memTable[models.User]
	buildings  memTable[models.Building]
	classrooms memTable[models.Classroom]
	courses    memTable[models.Course]
	events     memTable[models.Event]
	favorites  memTable[models.Favorite]
	locations  memTable[models.StudentLocation]
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      newMemTable(cloneUser),
		buildings:  newMemTable(cloneBuilding),
		classrooms: newMemTable(cloneClassroom),
		courses:    newMemTable(cloneCourse),
		events:     newMemTable(cloneEvent),
		favorites:  newMemTable(cloneFavorite),
		locations:  newMemTable(cloneLocation),
	}
}

var _ Store = (*MemoryStore)(nil)

// ListUsers returns all users.
func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.list(nil), nil
}

// GetUser returns a user by id or nil.
func (s *MemoryStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, _ := s.users.get(id)
	return user, nil
}

// GetUserByUsername matches usernames case-insensitively.
func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := s.users.list(func(u models.User) bool { return strings.EqualFold(u.Username, username) })
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// ListUsersByIDs returns the users whose id is in ids.
func (s *MemoryStore) ListUsersByIDs(_ context.Context, ids []int64) ([]models.User, error) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.list(func(u models.User) bool {
		_, ok := want[u.ID]
		return ok
	}), nil
}

// CreateUser stores a user under a fresh id. Usernames are unique ignoring case.
func (s *MemoryStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users.exists(func(u models.User) bool { return strings.EqualFold(u.Username, user.Username) }) {
		return nil, ErrDuplicateUsername
	}
	user.ID = s.users.next()
	s.users.put(user.ID, user)
	return &user, nil
}

// ListBuildings returns all buildings.
func (s *MemoryStore) ListBuildings(_ context.Context) ([]models.Building, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildings.list(nil), nil
}

// GetBuilding returns a building by id or nil.
func (s *MemoryStore) GetBuilding(_ context.Context, id int64) (*models.Building, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	building, _ := s.buildings.get(id)
	return building, nil
}

// CreateBuilding stores a building under a fresh id.
func (s *MemoryStore) CreateBuilding(_ context.Context, building models.Building) (*models.Building, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	building.ID = s.buildings.next()
	s.buildings.put(building.ID, building)
	return &building, nil
}

// ListClassrooms returns all classrooms.
func (s *MemoryStore) ListClassrooms(_ context.Context) ([]models.Classroom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classrooms.list(nil), nil
}

// ListClassroomsByBuilding returns the classrooms of one building.
func (s *MemoryStore) ListClassroomsByBuilding(_ context.Context, buildingID int64) ([]models.Classroom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classrooms.list(func(c models.Classroom) bool { return c.BuildingID == buildingID }), nil
}

// GetClassroom returns a classroom by id or nil.
func (s *MemoryStore) GetClassroom(_ context.Context, id int64) (*models.Classroom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	classroom, _ := s.classrooms.get(id)
	return classroom, nil
}

// CreateClassroom stores a classroom under a fresh id.
func (s *MemoryStore) CreateClassroom(_ context.Context, classroom models.Classroom) (*models.Classroom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	classroom.ID = s.classrooms.next()
	s.classrooms.put(classroom.ID, classroom)
	return &classroom, nil
}

// ListCourses returns all courses.
func (s *MemoryStore) ListCourses(_ context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses.list(nil), nil
}

// GetCourse returns a course by id or nil.
func (s *MemoryStore) GetCourse(_ context.Context, id int64) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, _ := s.courses.get(id)
	return course, nil
}

// ListCoursesByUser returns every course.
func (s *MemoryStore) ListCoursesByUser(ctx context.Context, _ int64) ([]models.Course, error) {
	return s.ListCourses(ctx)
}

// CreateCourse stores a course under a fresh id.
func (s *MemoryStore) CreateCourse(_ context.Context, course models.Course) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course.ID = s.courses.next()
	s.courses.put(course.ID, course)
	return &course, nil
}

// ListEvents returns all events.
func (s *MemoryStore) ListEvents(_ context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.list(nil), nil
}

// GetEvent returns an event by id or nil.
func (s *MemoryStore) GetEvent(_ context.Context, id int64) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, _ := s.events.get(id)
	return event, nil
}

// ListEventsByDate returns events whose date equals date.
func (s *MemoryStore) ListEventsByDate(_ context.Context, date string) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.list(func(e models.Event) bool { return e.Date == date }), nil
}

// ListEventsByCreator returns events created by a user.
func (s *MemoryStore) ListEventsByCreator(_ context.Context, userID int64) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.list(func(e models.Event) bool { return e.CreatedBy == userID }), nil
}

// CreateEvent stores an event under a fresh id.
func (s *MemoryStore) CreateEvent(_ context.Context, event models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.events.next()
	s.events.put(event.ID, event)
	return &event, nil
}

// UpdateEvent merges patch into the stored event.
func (s *MemoryStore) UpdateEvent(_ context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events.get(id)
	if !ok {
		return nil, nil
	}
	patch.Apply(event)
	s.events.put(id, *event)
	return event, nil
}

// DeleteEvent reports whether an event was removed.
func (s *MemoryStore) DeleteEvent(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.remove(id), nil
}

// ListFavoritesByUser returns a user's favorites.
func (s *MemoryStore) ListFavoritesByUser(_ context.Context, userID int64) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.list(func(f models.Favorite) bool { return f.UserID == userID }), nil
}

// GetFavorite returns a favorite by id or nil.
func (s *MemoryStore) GetFavorite(_ context.Context, id int64) (*models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	favorite, _ := s.favorites.get(id)
	return favorite, nil
}

// CreateFavorite stores a favorite under a fresh id unless the user already
// bookmarked the same target.
func (s *MemoryStore) CreateFavorite(_ context.Context, favorite models.Favorite) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favorites.exists(favorite.SameTarget) {
		return nil, ErrDuplicateFavorite
	}
	favorite.ID = s.favorites.next()
	s.favorites.put(favorite.ID, favorite)
	return &favorite, nil
}

// DeleteFavorite reports whether a favorite was removed.
func (s *MemoryStore) DeleteFavorite(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.remove(id), nil
}

// GetLocation returns the user's current location or nil.
func (s *MemoryStore) GetLocation(_ context.Context, userID int64) (*models.StudentLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocation(userID), nil
}

// ReplaceLocation drops the user's previous rows and inserts loc under the write lock.
func (s *MemoryStore) ReplaceLocation(_ context.Context, loc models.StudentLocation) (*models.StudentLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, row := range s.locations.rows {
		if row.UserID == loc.UserID {
			delete(s.locations.rows, id)
		}
	}
	loc.ID = s.locations.next()
	s.locations.put(loc.ID, loc)
	return &loc, nil
}

// SetSharing flips the sharing flag of the user's current location.
func (s *MemoryStore) SetSharing(_ context.Context, userID int64, isSharing bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.currentLocation(userID)
	if current == nil {
		return false, nil
	}
	current.IsSharing = isSharing
	s.locations.put(current.ID, *current)
	return true, nil
}

// ListSharingLocations returns locations whose owners are sharing.
func (s *MemoryStore) ListSharingLocations(_ context.Context) ([]models.StudentLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locations.list(func(l models.StudentLocation) bool { return l.IsSharing }), nil
}

// PurgeLocationsBefore removes locations older than cutoff.
func (s *MemoryStore) PurgeLocationsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, row := range s.locations.rows {
		if row.Timestamp.Before(cutoff) {
			delete(s.locations.rows, id)
			removed++
		}
	}
	return removed, nil
}

// currentLocation must be called with the lock held.
func (s *MemoryStore) currentLocation(userID int64) *models.StudentLocation {
	rows := s.locations.list(func(l models.StudentLocation) bool { return l.UserID == userID })
	if len(rows) == 0 {
		return nil
	}
	latest := rows[len(rows)-1]
	return &latest
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u models.User) models.User {
	u.DisplayName = clonePtr(u.DisplayName)
	u.AvatarInitials = clonePtr(u.AvatarInitials)
	u.StudentID = clonePtr(u.StudentID)
	u.Department = clonePtr(u.Department)
	u.Semester = clonePtr(u.Semester)
	return u
}

func cloneBuilding(b models.Building) models.Building {
	b.ShortName = clonePtr(b.ShortName)
	b.Description = clonePtr(b.Description)
	b.Type = clonePtr(b.Type)
	b.Address = clonePtr(b.Address)
	b.Campus = clonePtr(b.Campus)
	return b
}

func cloneClassroom(c models.Classroom) models.Classroom {
	c.Floor = clonePtr(c.Floor)
	c.Capacity = clonePtr(c.Capacity)
	return c
}

func cloneCourse(c models.Course) models.Course {
	c.Instructor = clonePtr(c.Instructor)
	c.Description = clonePtr(c.Description)
	return c
}

func cloneEvent(e models.Event) models.Event {
	e.RoomIdentifier = clonePtr(e.RoomIdentifier)
	e.EndTime = clonePtr(e.EndTime)
	e.Description = clonePtr(e.Description)
	return e
}

func cloneFavorite(f models.Favorite) models.Favorite {
	f.BuildingID = clonePtr(f.BuildingID)
	f.ClassroomID = clonePtr(f.ClassroomID)
	return f
}

func cloneLocation(l models.StudentLocation) models.StudentLocation {
	l.Accuracy = clonePtr(l.Accuracy)
	l.BuildingID = clonePtr(l.BuildingID)
	return l
}
