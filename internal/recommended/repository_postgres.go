package recommended

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Item, error)
}

type PostgresRepository struct {
	db *sqlx.DB
}

const listRecommendedQuery = `
	SELECT d.id, d.restaurant_id, d.name, COALESCE(d.description, '') AS description, d.price,
		COALESCE(d.image, '') AS image, COALESCE(d.ingredients, '') AS ingredients,
		d.category, d.created_at, d.updated_at,
		u.name AS restaurant_name, SUM(oi.quantity) AS times_ordered
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	JOIN dishes d ON d.id = oi.dish_id
	JOIN restaurant_profiles r ON r.id = d.restaurant_id
	JOIN users u ON u.id = r.user_id
	WHERE o.status NOT IN ('Cancelled', 'Rejected')
	GROUP BY d.id, u.name
	ORDER BY times_ordered DESC, d.id
	LIMIT $1 OFFSET $2`

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]Item, error) {
	out := []Item{}
	if err := r.db.SelectContext(ctx, &out, listRecommendedQuery, limit, offset); err != nil {
		return nil, fmt.Errorf("list recommended dishes: %w", err)
	}
	return out, nil
}
