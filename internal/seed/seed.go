// Package seed loads the demo campus into an empty store.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/repository"
)

// DemoPassword is the password of the seeded demo account.
const DemoPassword = "password"

type building struct {
	key       string
	name      string
	shortName string
	desc      string
	lat, lon  string
	kind      models.BuildingType
	address   string
}

type classroom struct {
	key      string
	building string
	room     string
	floor    int
	capacity int
}

var buildings = []building{
	{"sci", "Science Building", "SCI", "Main science building with laboratories and lecture halls", "34.0689", "-118.4452", models.BuildingAcademic, "123 Science Way"},
	{"hum", "Humanities Center", "HUM", "Home to the languages, arts, and literature departments", "34.0702", "-118.4431", models.BuildingAcademic, "456 Humanities Lane"},
	{"tech", "Technology Center", "TECH", "Computer labs and technology classrooms", "34.0715", "-118.4420", models.BuildingAcademic, "789 Tech Avenue"},
	{"stu", "Student Center", "STU", "Student services, dining, and recreation", "34.0670", "-118.4460", models.BuildingFacility, "321 Student Way"},
	{"lib", "Library", "LIB", "Main campus library with study spaces", "34.0680", "-118.4445", models.BuildingLibrary, "654 Library Road"},
}

var classrooms = []classroom{
	{"sci302", "sci", "302", 3, 60},
	{"sci201", "sci", "201", 2, 45},
	{"hum105", "hum", "105", 1, 35},
	{"tech201", "tech", "201", 2, 30},
	{"stuB12", "stu", "B12", -1, 25},
}

// Result reports what Run inserted.
type Result struct {
	Skipped    bool
	Buildings  int
	Classrooms int
	Courses    int
	Users      int
	Events     int
	Favorites  int
}

// Run seeds the demo campus when the store has no buildings. It is safe to
// call on every start.
func Run(ctx context.Context, store repository.Store, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := store.ListBuildings(ctx)
	if err != nil {
		return nil, fmt.Errorf("check existing buildings: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("store already populated, skipping seed", zap.Int("buildings", len(existing)))
		return &Result{Skipped: true}, nil
	}

	res := &Result{}
	buildingIDs := make(map[string]int64, len(buildings))
	for _, b := range buildings {
		kind := b.kind
		created, err := store.CreateBuilding(ctx, models.Building{
			Name:        b.name,
			ShortName:   str(b.shortName),
			Description: str(b.desc),
			Latitude:    b.lat,
			Longitude:   b.lon,
			Type:        &kind,
			Address:     str(b.address),
		})
		if err != nil {
			return nil, fmt.Errorf("seed building %s: %w", b.name, err)
		}
		buildingIDs[b.key] = created.ID
		res.Buildings++
	}

	classroomIDs := make(map[string]int64, len(classrooms))
	for _, c := range classrooms {
		floor, capacity := c.floor, c.capacity
		created, err := store.CreateClassroom(ctx, models.Classroom{
			BuildingID: buildingIDs[c.building],
			RoomNumber: c.room,
			Floor:      &floor,
			Capacity:   &capacity,
		})
		if err != nil {
			return nil, fmt.Errorf("seed classroom %s: %w", c.room, err)
		}
		classroomIDs[c.key] = created.ID
		res.Classrooms++
	}

	courses := []models.Course{
		{Name: "Biology 101", CourseCode: "BIO101", Instructor: str("Dr. Johnson"), ClassroomID: classroomIDs["sci302"], StartTime: "10:00", EndTime: "11:20", DaysOfWeek: "Mon,Wed,Fri", Description: str("Introduction to biological concepts")},
		{Name: "English Literature", CourseCode: "ENG210", Instructor: str("Dr. James Williams"), ClassroomID: classroomIDs["hum105"], StartTime: "12:30", EndTime: "13:50", DaysOfWeek: "Tue,Thu", Description: str("Survey of English literature")},
		{Name: "Computer Science", CourseCode: "CS150", Instructor: str("Prof. Sarah Chen"), ClassroomID: classroomIDs["tech201"], StartTime: "14:15", EndTime: "15:35", DaysOfWeek: "Mon,Wed", Description: str("Introduction to programming concepts")},
	}
	for _, c := range courses {
		if _, err := store.CreateCourse(ctx, c); err != nil {
			return nil, fmt.Errorf("seed course %s: %w", c.CourseCode, err)
		}
		res.Courses++
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	student, err := store.GetUserByUsername(ctx, "student")
	if err != nil {
		return nil, fmt.Errorf("check demo user: %w", err)
	}
	if student == nil {
		student, err = store.CreateUser(ctx, models.User{
			Username:       "student",
			PasswordHash:   string(hash),
			DisplayName:    str("John Student"),
			AvatarInitials: str("JS"),
			Role:           models.RoleStudent,
		})
		if err != nil {
			return nil, fmt.Errorf("seed demo user: %w", err)
		}
		res.Users++
	}

	events := []models.Event{
		{Title: "Student Club Meeting", BuildingID: buildingIDs["stu"], RoomIdentifier: str("B12"), Date: "2023-10-05", StartTime: "16:30", EndTime: str("17:30"), Description: str("Programming Club weekly meeting"), IsPinned: true},
		{Title: "Campus Tour (Volunteer)", BuildingID: buildingIDs["lib"], RoomIdentifier: str("Main Entrance"), Date: "2023-10-06", StartTime: "09:00", EndTime: str("10:30"), Description: str("Volunteer for campus tour guides")},
		{Title: "Career Fair", BuildingID: buildingIDs["stu"], RoomIdentifier: str("Grand Hall"), Date: "2023-10-07", StartTime: "13:00", EndTime: str("16:00"), Description: str("30+ companies attending. Bring your resume!")},
	}
	for _, e := range events {
		e.CreatedBy = student.ID
		if _, err := store.CreateEvent(ctx, e); err != nil {
			return nil, fmt.Errorf("seed event %s: %w", e.Title, err)
		}
		res.Events++
	}

	for _, key := range []string{"lib", "sci", "stu"} {
		id := buildingIDs[key]
		if _, err := store.CreateFavorite(ctx, models.Favorite{UserID: student.ID, BuildingID: &id, Type: models.FavoriteBuilding}); err != nil {
			return nil, fmt.Errorf("seed favorite: %w", err)
		}
		res.Favorites++
	}

	logger.Info("demo campus seeded",
		zap.Int("buildings", res.Buildings),
		zap.Int("classrooms", res.Classrooms),
		zap.Int("courses", res.Courses),
		zap.Int("events", res.Events),
		zap.Int("favorites", res.Favorites),
	)
	return res, nil
}

func str(s string) *string { return &s }
