package category

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	List(ctx context.Context, limit int) ([]Category, error)
}

type PostgresRepository struct {
	db *sqlx.DB
}

const listCategoriesQuery = `
	SELECT category, COUNT(*) AS dish_count
	FROM dishes
	WHERE COALESCE(category, '') <> ''
	GROUP BY category
	ORDER BY category
	LIMIT $1`

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Category, error) {
	out := []Category{}
	if err := r.db.SelectContext(ctx, &out, listCategoriesQuery, limit); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}
