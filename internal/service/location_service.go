package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
	"github.com/noah-isme/campus-nav-api/pkg/geo"
)

type locationRepository interface {
	GetLocation(ctx context.Context, userID int64) (*models.StudentLocation, error)
	ReplaceLocation(ctx context.Context, loc models.StudentLocation) (*models.StudentLocation, error)
	SetSharing(ctx context.Context, userID int64, isSharing bool) (bool, error)
	ListSharingLocations(ctx context.Context) ([]models.StudentLocation, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	ListBuildings(ctx context.Context) ([]models.Building, error)
}

type locationMetrics interface {
	RecordLocationWrite(operation string)
	SetSharingUsers(n int)
}

// LocationConfig tunes location writes.
type LocationConfig struct {
	// BuildingRadiusMeters enables building inference for writes without a
	// buildingId when positive.
	BuildingRadiusMeters float64
}

// LocationService implements live location sharing.
type LocationService struct {
	repo      locationRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   locationMetrics
	cfg       LocationConfig
	now       func() time.Time
}

// NewLocationService creates a new location service. metrics may be nil.
func NewLocationService(repo locationRepository, validate *validator.Validate, logger *zap.Logger, metrics locationMetrics, cfg LocationConfig) *LocationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the user's current location.
func (s *LocationService) Get(ctx context.Context, userID int64) (*models.StudentLocation, error) {
	loc, err := s.repo.GetLocation(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load location")
	}
	if loc == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}
	return loc, nil
}

// Create records a location for the user. Latitude and longitude are required.
func (s *LocationService) Create(ctx context.Context, userID int64, upd models.LocationUpdate) (*models.StudentLocation, error) {
	if upd.Latitude == nil || *upd.Latitude == "" {
		return nil, appErrors.FieldInvalid("latitude", "required", "latitude is required")
	}
	if upd.Longitude == nil || *upd.Longitude == "" {
		return nil, appErrors.FieldInvalid("longitude", "required", "longitude is required")
	}
	return s.replace(ctx, userID, upd, "create")
}

// Update supersedes the user's location. Omitted coordinates are stored as "0"
// and sharing defaults to true.
func (s *LocationService) Update(ctx context.Context, userID int64, upd models.LocationUpdate) (*models.StudentLocation, error) {
	return s.replace(ctx, userID, upd, "update")
}

// SetSharing toggles the visibility of the user's current location.
func (s *LocationService) SetSharing(ctx context.Context, userID int64, req models.SharingRequest) (*models.SharingResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "isSharing must be a boolean")
	}
	ok, err := s.repo.SetSharing(ctx, userID, *req.IsSharing)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update location sharing")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}
	s.recordWrite("sharing")
	return &models.SharingResponse{Success: true, IsSharing: *req.IsSharing}, nil
}

// ListSharing returns every sharing location with its owner's public profile.
func (s *LocationService) ListSharing(ctx context.Context) ([]models.SharedLocation, error) {
	locations, err := s.repo.ListSharingLocations(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list shared locations")
	}

	ids := make([]int64, 0, len(locations))
	for _, loc := range locations {
		ids = append(ids, loc.UserID)
	}
	users, err := s.repo.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load location owners")
	}
	byID := make(map[int64]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]models.SharedLocation, 0, len(locations))
	for _, loc := range locations {
		out = append(out, models.SharedLocation{StudentLocation: loc, User: byID[loc.UserID].Public()})
	}
	if s.metrics != nil {
		s.metrics.SetSharingUsers(len(out))
	}
	return out, nil
}

func (s *LocationService) replace(ctx context.Context, userID int64, upd models.LocationUpdate, op string) (*models.StudentLocation, error) {
	if err := s.validator.Struct(upd); err != nil {
		return nil, appErrors.Validation(err, "invalid location payload")
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}

	loc := models.NewStudentLocation(userID, upd, s.now())
	if loc.BuildingID == nil && s.cfg.BuildingRadiusMeters > 0 {
		loc.BuildingID = s.containingBuilding(ctx, loc)
	}

	stored, err := s.repo.ReplaceLocation(ctx, loc)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to store location")
	}
	s.recordWrite(op)
	s.logger.Debug("location replaced", zap.Int64("user_id", userID), zap.Bool("sharing", stored.IsSharing))
	return stored, nil
}

// containingBuilding picks the closest building within the configured radius.
// Failures only cost the inference, never the write.
func (s *LocationService) containingBuilding(ctx context.Context, loc models.StudentLocation) *int64 {
	origin, err := geo.ParsePoint(loc.Latitude, loc.Longitude)
	if err != nil {
		return nil
	}
	buildings, err := s.repo.ListBuildings(ctx)
	if err != nil {
		s.logger.Warn("building inference skipped", zap.Error(err))
		return nil
	}
	points := make([]geo.Point, 0, len(buildings))
	ids := make([]int64, 0, len(buildings))
	for _, b := range buildings {
		p, err := geo.ParsePoint(b.Latitude, b.Longitude)
		if err != nil {
			continue
		}
		points = append(points, p)
		ids = append(ids, b.ID)
	}
	ranked := geo.Nearest(origin, points, s.cfg.BuildingRadiusMeters)
	if len(ranked) == 0 {
		return nil
	}
	id := ids[ranked[0].Index]
	return &id
}

func (s *LocationService) recordWrite(op string) {
	if s.metrics != nil {
		s.metrics.RecordLocationWrite(op)
	}
}
