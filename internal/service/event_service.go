package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
)

type eventRepository interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEventsByDate(ctx context.Context, date string) ([]models.Event, error)
	ListEventsByCreator(ctx context.Context, userID int64) ([]models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) (bool, error)
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
}

// EventService manages campus events.
type EventService struct {
	repo      eventRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService creates a new event service.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, validator: validate, logger: logger}
}

// List returns all events, or only those on date when it is set. The date is
// matched as an exact string.
func (s *EventService) List(ctx context.Context, date string) ([]models.Event, error) {
	var (
		events []models.Event
		err    error
	)
	if date != "" {
		events, err = s.repo.ListEventsByDate(ctx, date)
	} else {
		events, err = s.repo.ListEvents(ctx)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}
	return events, nil
}

// Get returns an event by identifier.
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load event")
	}
	if event == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return event, nil
}

// ListByCreator returns the events a user created.
func (s *EventService) ListByCreator(ctx context.Context, userID int64) ([]models.Event, error) {
	events, err := s.repo.ListEventsByCreator(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list user events")
	}
	return events, nil
}

// Create stores a new event at an existing building.
func (s *EventService) Create(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid event payload")
	}
	if err := s.ensureBuilding(ctx, req.BuildingID); err != nil {
		return nil, err
	}

	event, err := s.repo.CreateEvent(ctx, models.Event{
		Title:          req.Title,
		BuildingID:     req.BuildingID,
		RoomIdentifier: req.RoomIdentifier,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Description:    req.Description,
		IsPinned:       req.IsPinned,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create event")
	}
	s.logger.Info("event created", zap.Int64("event_id", event.ID), zap.String("date", event.Date))
	return event, nil
}

// Patch merges the supplied fields into an event. Fields absent from the patch are kept.
func (s *EventService) Patch(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, appErrors.Validation(err, "invalid event patch")
	}
	if patch.BuildingID != nil {
		if err := s.ensureBuilding(ctx, *patch.BuildingID); err != nil {
			return nil, err
		}
	}

	event, err := s.repo.UpdateEvent(ctx, id, patch)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update event")
	}
	if event == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.DeleteEvent(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to delete event")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	s.logger.Info("event deleted", zap.Int64("event_id", id))
	return nil
}

func (s *EventService) ensureBuilding(ctx context.Context, buildingID int64) error {
	building, err := s.repo.GetBuilding(ctx, buildingID)
	if err != nil {
		return appErrors.Internal(err, "failed to load building")
	}
	if building == nil {
		return appErrors.FieldInvalid("buildingId", "exists", "buildingId does not reference a building")
	}
	return nil
}
