package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store on PostgreSQL or SQLite through sqlx.
type SQLStore struct {
	*UserRepository
	*BuildingRepository
	*ClassroomRepository
	*CourseRepository
	*EventRepository
	*FavoriteRepository
	*LocationRepository
}

// NewSQLStore wires every repository onto one database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		UserRepository:      NewUserRepository(db),
		BuildingRepository:  NewBuildingRepository(db),
		ClassroomRepository: NewClassroomRepository(db),
		CourseRepository:    NewCourseRepository(db),
		EventRepository:     NewEventRepository(db),
		FavoriteRepository:  NewFavoriteRepository(db),
		LocationRepository:  NewLocationRepository(db),
	}
}

var _ Store = (*SQLStore)(nil)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
