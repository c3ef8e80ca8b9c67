package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

const eventColumns = `id, title, building_id, room_identifier, date, start_time, end_time, description, is_pinned, created_by`

// EventRepository provides database access for campus events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListEvents returns every event ordered by id.
func (r *EventRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetEvent returns an event by identifier.
func (r *EventRepository) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	if err := r.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id = $1 LIMIT 1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

// ListEventsByDate returns events scheduled on the exact date string.
func (r *EventRepository) ListEventsByDate(ctx context.Context, date string) ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events WHERE date = $1 ORDER BY id`, date); err != nil {
		return nil, fmt.Errorf("list events by date: %w", err)
	}
	return events, nil
}

// ListEventsByCreator returns events created by a user.
func (r *EventRepository) ListEventsByCreator(ctx context.Context, userID int64) ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events WHERE created_by = $1 ORDER BY id`, userID); err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	return events, nil
}

// CreateEvent inserts an event and returns the stored record.
func (r *EventRepository) CreateEvent(ctx context.Context, e models.Event) (*models.Event, error) {
	const query = `INSERT INTO events (title, building_id, room_identifier, date, start_time, end_time, description, is_pinned, created_by) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING ` + eventColumns
	var created models.Event
	if err := r.db.GetContext(ctx, &created, query,
		e.Title, e.BuildingID, e.RoomIdentifier, e.Date, e.StartTime, e.EndTime, e.Description, e.IsPinned, e.CreatedBy,
	); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &created, nil
}

// UpdateEvent reads, merges and writes the event inside one transaction.
func (r *EventRepository) UpdateEvent(ctx context.Context, id int64, patch models.EventPatch) (_ *models.Event, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update event: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var event models.Event
	if err = tx.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id = $1 LIMIT 1`, id); err != nil {
		if isNoRows(err) {
			_ = tx.Rollback()
			return nil, nil
		}
		return nil, fmt.Errorf("load event for update: %w", err)
	}

	patch.Apply(&event)

	const query = `UPDATE events SET title = $1, building_id = $2, room_identifier = $3, date = $4, start_time = $5, end_time = $6, description = $7, is_pinned = $8 WHERE id = $9`
	if _, err = tx.ExecContext(ctx, query,
		event.Title, event.BuildingID, event.RoomIdentifier, event.Date, event.StartTime, event.EndTime, event.Description, event.IsPinned, id,
	); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update event: %w", err)
	}
	return &event, nil
}

// DeleteEvent removes an event and reports whether a row existed.
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete event rows affected: %w", err)
	}
	return affected > 0, nil
}
