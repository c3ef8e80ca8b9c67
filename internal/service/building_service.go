package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
	"github.com/noah-isme/campus-nav-api/pkg/geo"
)

type buildingRepository interface {
	ListBuildings(ctx context.Context) ([]models.Building, error)
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
	CreateBuilding(ctx context.Context, building models.Building) (*models.Building, error)
	ListClassroomsByBuilding(ctx context.Context, buildingID int64) ([]models.Classroom, error)
	GetClassroom(ctx context.Context, id int64) (*models.Classroom, error)
	CreateClassroom(ctx context.Context, classroom models.Classroom) (*models.Classroom, error)
}

// BuildingService serves the building and classroom catalog.
type BuildingService struct {
	repo          buildingRepository
	validator     *validator.Validate
	logger        *zap.Logger
	estimator     geo.Estimator
	nearbyDefault float64
}

// NewBuildingService creates a new building service.
func NewBuildingService(repo buildingRepository, validate *validator.Validate, logger *zap.Logger, estimator geo.Estimator, nearbyRadius float64) *BuildingService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildingService{repo: repo, validator: validate, logger: logger, estimator: estimator, nearbyDefault: nearbyRadius}
}

// List returns every building.
func (s *BuildingService) List(ctx context.Context) ([]models.Building, error) {
	buildings, err := s.repo.ListBuildings(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list buildings")
	}
	return buildings, nil
}

// Get returns a building by identifier.
func (s *BuildingService) Get(ctx context.Context, id int64) (*models.Building, error) {
	building, err := s.repo.GetBuilding(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load building")
	}
	if building == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "building not found")
	}
	return building, nil
}

// Create adds a building to the catalog.
func (s *BuildingService) Create(ctx context.Context, req models.CreateBuildingRequest) (*models.Building, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid building payload")
	}
	kind := req.Type
	if kind == nil {
		def := models.BuildingDefault
		kind = &def
	}
	building, err := s.repo.CreateBuilding(ctx, models.Building{
		Name:        req.Name,
		ShortName:   req.ShortName,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Type:        kind,
		Address:     req.Address,
		Campus:      req.Campus,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create building")
	}
	s.logger.Info("building created", zap.Int64("building_id", building.ID), zap.String("name", building.Name))
	return building, nil
}

// ListClassrooms returns the classrooms of an existing building.
func (s *BuildingService) ListClassrooms(ctx context.Context, buildingID int64) ([]models.Classroom, error) {
	if _, err := s.Get(ctx, buildingID); err != nil {
		return nil, err
	}
	classrooms, err := s.repo.ListClassroomsByBuilding(ctx, buildingID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classrooms")
	}
	return classrooms, nil
}

// GetClassroom returns a classroom by identifier.
func (s *BuildingService) GetClassroom(ctx context.Context, id int64) (*models.Classroom, error) {
	classroom, err := s.repo.GetClassroom(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load classroom")
	}
	if classroom == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}
	return classroom, nil
}

// CreateClassroom adds a classroom to an existing building.
func (s *BuildingService) CreateClassroom(ctx context.Context, req models.CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid classroom payload")
	}
	building, err := s.repo.GetBuilding(ctx, req.BuildingID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load building")
	}
	if building == nil {
		return nil, appErrors.FieldInvalid("buildingId", "exists", "buildingId does not reference a building")
	}
	classroom, err := s.repo.CreateClassroom(ctx, models.Classroom{
		BuildingID: req.BuildingID,
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Capacity:   req.Capacity,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create classroom")
	}
	return classroom, nil
}

// Nearby ranks buildings within radius meters of origin, closest first. A
// non-positive radius uses the configured default.
func (s *BuildingService) Nearby(ctx context.Context, origin geo.Point, radius float64) ([]models.NearbyBuilding, error) {
	if radius <= 0 {
		radius = s.nearbyDefault
	}
	buildings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]geo.Point, 0, len(buildings))
	located := make([]models.Building, 0, len(buildings))
	for _, b := range buildings {
		p, err := geo.ParsePoint(b.Latitude, b.Longitude)
		if err != nil {
			s.logger.Warn("building has unusable coordinates", zap.Int64("building_id", b.ID), zap.Error(err))
			continue
		}
		points = append(points, p)
		located = append(located, b)
	}

	ranked := geo.Nearest(origin, points, radius)
	out := make([]models.NearbyBuilding, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, models.NearbyBuilding{
			Building:       located[r.Index],
			DistanceMeters: r.Meters,
			Distance:       geo.FormatDistance(r.Meters),
			WalkingMinutes: s.estimator.WalkingTimeMinutes(r.Meters),
		})
	}
	return out, nil
}
