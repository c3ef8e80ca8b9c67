package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

const classroomColumns = `id, building_id, room_number, floor, capacity`

// ClassroomRepository provides database access for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository creates a new instance of ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// ListClassrooms returns every classroom ordered by id.
func (r *ClassroomRepository) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	classrooms := []models.Classroom{}
	if err := r.db.SelectContext(ctx, &classrooms, `SELECT `+classroomColumns+` FROM classrooms ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// ListClassroomsByBuilding returns the classrooms located in a building.
func (r *ClassroomRepository) ListClassroomsByBuilding(ctx context.Context, buildingID int64) ([]models.Classroom, error) {
	classrooms := []models.Classroom{}
	if err := r.db.SelectContext(ctx, &classrooms, `SELECT `+classroomColumns+` FROM classrooms WHERE building_id = $1 ORDER BY id`, buildingID); err != nil {
		return nil, fmt.Errorf("list classrooms by building: %w", err)
	}
	return classrooms, nil
}

// GetClassroom returns a classroom by identifier.
func (r *ClassroomRepository) GetClassroom(ctx context.Context, id int64) (*models.Classroom, error) {
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, `SELECT `+classroomColumns+` FROM classrooms WHERE id = $1 LIMIT 1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find classroom: %w", err)
	}
	return &classroom, nil
}

// CreateClassroom inserts a classroom and returns the stored record.
func (r *ClassroomRepository) CreateClassroom(ctx context.Context, c models.Classroom) (*models.Classroom, error) {
	const query = `INSERT INTO classrooms (building_id, room_number, floor, capacity) VALUES ($1, $2, $3, $4) RETURNING ` + classroomColumns
	var created models.Classroom
	if err := r.db.GetContext(ctx, &created, query, c.BuildingID, c.RoomNumber, c.Floor, c.Capacity); err != nil {
		return nil, fmt.Errorf("create classroom: %w", err)
	}
	return &created, nil
}
