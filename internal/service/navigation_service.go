package service

import (
	"context"

	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
	"github.com/noah-isme/campus-nav-api/pkg/geo"
)

type navigationRepository interface {
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
}

// Endpoint identifies one side of a distance query, either a building or a raw point.
type Endpoint struct {
	BuildingID *int64
	Point      *geo.Point
}

// NavigationService estimates straight line walks between campus points.
type NavigationService struct {
	repo      navigationRepository
	estimator geo.Estimator
}

// NewNavigationService creates a navigation service.
func NewNavigationService(repo navigationRepository, estimator geo.Estimator) *NavigationService {
	return &NavigationService{repo: repo, estimator: estimator}
}

// Distance returns the haversine distance and walking estimate between two endpoints.
func (s *NavigationService) Distance(ctx context.Context, from, to Endpoint) (*models.DistanceResult, error) {
	a, err := s.resolve(ctx, "from", from)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(ctx, "to", to)
	if err != nil {
		return nil, err
	}

	meters := geo.Distance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	return &models.DistanceResult{
		From:           a,
		To:             b,
		DistanceMeters: meters,
		Distance:       geo.FormatDistance(meters),
		WalkingMinutes: s.estimator.WalkingTimeMinutes(meters),
	}, nil
}

func (s *NavigationService) resolve(ctx context.Context, field string, ep Endpoint) (models.Waypoint, error) {
	if ep.Point != nil {
		return models.Waypoint{Latitude: ep.Point.Lat, Longitude: ep.Point.Lon}, nil
	}
	if ep.BuildingID == nil {
		return models.Waypoint{}, appErrors.FieldInvalid(field, "required", field+" requires a building id or coordinates")
	}

	building, err := s.repo.GetBuilding(ctx, *ep.BuildingID)
	if err != nil {
		return models.Waypoint{}, appErrors.Internal(err, "failed to load building")
	}
	if building == nil {
		return models.Waypoint{}, appErrors.Clone(appErrors.ErrNotFound, "building not found")
	}
	p, err := geo.ParsePoint(building.Latitude, building.Longitude)
	if err != nil {
		return models.Waypoint{}, appErrors.Internal(err, "building has invalid coordinates")
	}
	return models.Waypoint{BuildingID: &building.ID, Name: building.Name, Latitude: p.Lat, Longitude: p.Lon}, nil
}
