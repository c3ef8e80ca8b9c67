package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

const buildingColumns = `id, name, short_name, description, latitude, longitude, type, address, campus`

// BuildingRepository provides database access for buildings.
type BuildingRepository struct {
	db *sqlx.DB
}

// NewBuildingRepository creates a new instance of BuildingRepository.
func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// ListBuildings returns every building ordered by id.
func (r *BuildingRepository) ListBuildings(ctx context.Context) ([]models.Building, error) {
	buildings := []models.Building{}
	if err := r.db.SelectContext(ctx, &buildings, `SELECT `+buildingColumns+` FROM buildings ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}

// GetBuilding returns a building by identifier.
func (r *BuildingRepository) GetBuilding(ctx context.Context, id int64) (*models.Building, error) {
	var building models.Building
	if err := r.db.GetContext(ctx, &building, `SELECT `+buildingColumns+` FROM buildings WHERE id = $1 LIMIT 1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find building: %w", err)
	}
	return &building, nil
}

// CreateBuilding inserts a building and returns the stored record.
func (r *BuildingRepository) CreateBuilding(ctx context.Context, b models.Building) (*models.Building, error) {
	const query = `INSERT INTO buildings (name, short_name, description, latitude, longitude, type, address, campus) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ` + buildingColumns
	var created models.Building
	if err := r.db.GetContext(ctx, &created, query,
		b.Name, b.ShortName, b.Description, b.Latitude, b.Longitude, b.Type, b.Address, b.Campus,
	); err != nil {
		return nil, fmt.Errorf("create building: %w", err)
	}
	return &created, nil
}
