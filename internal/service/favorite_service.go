package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/repository"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
)

type favoriteRepository interface {
	ListFavoritesByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
	CreateFavorite(ctx context.Context, favorite models.Favorite) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, id int64) (bool, error)
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
	GetClassroom(ctx context.Context, id int64) (*models.Classroom, error)
}

// FavoriteService manages user bookmarks.
type FavoriteService struct {
	repo      favoriteRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(repo favoriteRepository, validate *validator.Validate, logger *zap.Logger) *FavoriteService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteService{repo: repo, validator: validate, logger: logger}
}

// ListByUser returns a user's favorites with the referenced building attached.
// Classroom favorites carry the building the classroom belongs to.
func (s *FavoriteService) ListByUser(ctx context.Context, userID int64) ([]models.FavoriteWithBuilding, error) {
	favorites, err := s.repo.ListFavoritesByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list favorites")
	}

	buildings := map[int64]*models.Building{}
	out := make([]models.FavoriteWithBuilding, 0, len(favorites))
	for _, fav := range favorites {
		buildingID, err := s.buildingFor(ctx, fav)
		if err != nil {
			return nil, err
		}
		item := models.FavoriteWithBuilding{Favorite: fav}
		if buildingID != nil {
			building, ok := buildings[*buildingID]
			if !ok {
				if building, err = s.repo.GetBuilding(ctx, *buildingID); err != nil {
					return nil, appErrors.Internal(err, "failed to load building")
				}
				buildings[*buildingID] = building
			}
			item.Building = building
		}
		out = append(out, item)
	}
	return out, nil
}

// Create bookmarks a building or classroom. Bookmarking the same target twice is a conflict.
// Classroom favorites always record the building the classroom belongs to.
func (s *FavoriteService) Create(ctx context.Context, req models.CreateFavoriteRequest) (*models.Favorite, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid favorite payload")
	}

	candidate := models.Favorite{UserID: req.UserID, Type: req.Type}
	switch req.Type {
	case models.FavoriteBuilding:
		candidate.BuildingID = req.BuildingID
		building, err := s.repo.GetBuilding(ctx, *req.BuildingID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load building")
		}
		if building == nil {
			return nil, appErrors.FieldInvalid("buildingId", "exists", "buildingId does not reference a building")
		}
	case models.FavoriteClassroom:
		candidate.ClassroomID = req.ClassroomID
		classroom, err := s.repo.GetClassroom(ctx, *req.ClassroomID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load classroom")
		}
		if classroom == nil {
			return nil, appErrors.FieldInvalid("classroomId", "exists", "classroomId does not reference a classroom")
		}
		if req.BuildingID != nil && *req.BuildingID != classroom.BuildingID {
			return nil, appErrors.FieldInvalid("buildingId", "eqfield", "buildingId must be the building of the classroom")
		}
		buildingID := classroom.BuildingID
		candidate.BuildingID = &buildingID
	}

	favorite, err := s.repo.CreateFavorite(ctx, candidate)
	if errors.Is(err, repository.ErrDuplicateFavorite) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "favorite already exists")
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create favorite")
	}
	return favorite, nil
}

// Delete removes a favorite.
func (s *FavoriteService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.DeleteFavorite(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to delete favorite")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "favorite not found")
	}
	return nil
}

func (s *FavoriteService) buildingFor(ctx context.Context, fav models.Favorite) (*int64, error) {
	if fav.BuildingID != nil || fav.ClassroomID == nil {
		return fav.BuildingID, nil
	}
	classroom, err := s.repo.GetClassroom(ctx, *fav.ClassroomID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load classroom")
	}
	if classroom == nil {
		return nil, nil
	}
	return &classroom.BuildingID, nil
}
