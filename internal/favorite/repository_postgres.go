package favorite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wichananm65/food-order-backend/internal/infrastructure/database"
	"github.com/wichananm65/food-order-backend/internal/restaurant"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	insertFavoriteQuery = `INSERT INTO favorites (customer_id, restaurant_id) VALUES ($1, $2)`
	deleteFavoriteQuery = `DELETE FROM favorites WHERE customer_id = $1 AND restaurant_id = $2`
	listFavoritesQuery  = `
		SELECT r.id, u.name, COALESCE(r.description, '') AS description, r.location, r.delivery_type,
			COALESCE(r.profile_picture, '') AS profile_picture,
			COALESCE(r.opening_time, '') AS opening_time, COALESCE(r.closing_time, '') AS closing_time
		FROM favorites f
		JOIN restaurant_profiles r ON r.id = f.restaurant_id
		JOIN users u ON u.id = r.user_id
		WHERE f.customer_id = $1
		ORDER BY f.created_at DESC`
	favoriteIDsQuery = `SELECT restaurant_id FROM favorites WHERE customer_id = $1`
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, customerID, restaurantID int64) error {
	_, err := r.db.ExecContext(ctx, insertFavoriteQuery, customerID, restaurantID)
	switch {
	case database.IsUniqueViolation(err):
		return ErrAlreadyFavorite
	case database.IsForeignKeyViolation(err):
		return ErrRestaurantNotFound
	case err != nil:
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, customerID, restaurantID int64) error {
	if _, err := r.db.ExecContext(ctx, deleteFavoriteQuery, customerID, restaurantID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, customerID int64) ([]restaurant.Summary, error) {
	out := make([]restaurant.Summary, 0)
	if err := r.db.SelectContext(ctx, &out, listFavoritesQuery, customerID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	for i := range out {
		out[i].IsFavorite = true
	}
	return out, nil
}

func (r *PostgresRepository) IDs(ctx context.Context, customerID int64) (map[int64]bool, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, favoriteIDsQuery, customerID); err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
