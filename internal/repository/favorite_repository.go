package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

const favoriteColumns = `id, user_id, building_id, classroom_id, type`

// FavoriteRepository provides database access for favorites.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository creates a new instance of FavoriteRepository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ListFavoritesByUser returns a user's favorites ordered by id.
func (r *FavoriteRepository) ListFavoritesByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	if err := r.db.SelectContext(ctx, &favorites, `SELECT `+favoriteColumns+` FROM favorites WHERE user_id = $1 ORDER BY id`, userID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// GetFavorite returns a favorite by identifier.
func (r *FavoriteRepository) GetFavorite(ctx context.Context, id int64) (*models.Favorite, error) {
	var favorite models.Favorite
	if err := r.db.GetContext(ctx, &favorite, `SELECT `+favoriteColumns+` FROM favorites WHERE id = $1 LIMIT 1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	return &favorite, nil
}

// CreateFavorite inserts a favorite and returns the stored record. Bookmarking
// the same target twice yields ErrDuplicateFavorite.
func (r *FavoriteRepository) CreateFavorite(ctx context.Context, f models.Favorite) (*models.Favorite, error) {
	const query = `INSERT INTO favorites (user_id, building_id, classroom_id, type) VALUES ($1, $2, $3, $4) RETURNING ` + favoriteColumns
	var created models.Favorite
	if err := r.db.GetContext(ctx, &created, query, f.UserID, f.BuildingID, f.ClassroomID, f.Type); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateFavorite
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	return &created, nil
}

// DeleteFavorite removes a favorite and reports whether a row existed.
func (r *FavoriteRepository) DeleteFavorite(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite rows affected: %w", err)
	}
	return affected > 0, nil
}
