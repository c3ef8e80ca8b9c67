package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

const locationColumns = `id, user_id, latitude, longitude, accuracy, recorded_at, is_sharing, building_id`

// LocationRepository provides database access for student locations.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new instance of LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// GetLocation returns the user's current location.
func (r *LocationRepository) GetLocation(ctx context.Context, userID int64) (*models.StudentLocation, error) {
	var loc models.StudentLocation
	if err := r.db.GetContext(ctx, &loc, `SELECT `+locationColumns+` FROM student_locations WHERE user_id = $1 ORDER BY id DESC LIMIT 1`, userID); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find location: %w", err)
	}
	return &loc, nil
}

// ReplaceLocation deletes the user's rows and inserts loc in one transaction.
// On PostgreSQL a transaction scoped advisory lock keyed by user id serializes
// concurrent replaces for the same user.
func (r *LocationRepository) ReplaceLocation(ctx context.Context, loc models.StudentLocation) (_ *models.StudentLocation, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace location: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if r.db.DriverName() == "postgres" {
		if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, loc.UserID); err != nil {
			return nil, fmt.Errorf("lock user location: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM student_locations WHERE user_id = $1`, loc.UserID); err != nil {
		return nil, fmt.Errorf("clear user locations: %w", err)
	}

	const insert = `INSERT INTO student_locations (user_id, latitude, longitude, accuracy, recorded_at, is_sharing, building_id) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING ` + locationColumns
	var stored models.StudentLocation
	if err = tx.GetContext(ctx, &stored, insert,
		loc.UserID, loc.Latitude, loc.Longitude, loc.Accuracy, loc.Timestamp.UTC(), loc.IsSharing, loc.BuildingID,
	); err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace location: %w", err)
	}
	return &stored, nil
}

// SetSharing updates the sharing flag and reports whether the user had a location.
func (r *LocationRepository) SetSharing(ctx context.Context, userID int64, isSharing bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE student_locations SET is_sharing = $1 WHERE user_id = $2`, isSharing, userID)
	if err != nil {
		return false, fmt.Errorf("set location sharing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set location sharing rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListSharingLocations returns locations whose owners are sharing.
func (r *LocationRepository) ListSharingLocations(ctx context.Context) ([]models.StudentLocation, error) {
	locations := []models.StudentLocation{}
	if err := r.db.SelectContext(ctx, &locations, `SELECT `+locationColumns+` FROM student_locations WHERE is_sharing = TRUE ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list sharing locations: %w", err)
	}
	return locations, nil
}

// PurgeLocationsBefore deletes locations recorded before cutoff.
func (r *LocationRepository) PurgeLocationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student_locations WHERE recorded_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge locations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge locations rows affected: %w", err)
	}
	return affected, nil
}
