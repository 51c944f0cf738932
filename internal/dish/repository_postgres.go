package dish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wichananm65/food-order-backend/internal/infrastructure/database"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	dishColumns = `
		id, restaurant_id, name, COALESCE(description, '') AS description, price,
		COALESCE(image, '') AS image, COALESCE(ingredients, '') AS ingredients,
		category, created_at, updated_at`

	listByRestaurantQuery = `SELECT ` + dishColumns + ` FROM dishes WHERE restaurant_id = $1 ORDER BY id`
	findDishQuery         = `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`
	findDishesQuery       = `SELECT ` + dishColumns + ` FROM dishes WHERE id = ANY($1::bigint[]) ORDER BY id`

	insertDishQuery = `
		INSERT INTO dishes (restaurant_id, name, description, price, image, ingredients, category)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at, updated_at`
	updateDishQuery = `
		UPDATE dishes
		SET name = $1, description = NULLIF($2, ''), price = $3, image = NULLIF($4, ''),
			ingredients = NULLIF($5, ''), category = $6, updated_at = NOW()
		WHERE id = $7 AND restaurant_id = $8
		RETURNING created_at, updated_at`
	deleteDishQuery = `DELETE FROM dishes WHERE id = $1 AND restaurant_id = $2`
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]Dish, error) {
	out := make([]Dish, 0)
	if err := r.db.SelectContext(ctx, &out, listByRestaurantQuery, restaurantID); err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Dish, error) {
	var d Dish
	err := r.db.GetContext(ctx, &d, findDishQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Dish{}, ErrNotFound
	}
	if err != nil {
		return Dish{}, fmt.Errorf("find dish: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) FindByIDs(ctx context.Context, ids []int64) ([]Dish, error) {
	out := make([]Dish, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.SelectContext(ctx, &out, findDishesQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find dishes: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d Dish) (Dish, error) {
	err := r.db.QueryRowxContext(ctx, insertDishQuery,
		d.RestaurantID, d.Name, d.Description, d.Price, d.Image, d.Ingredients, d.Category,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Dish{}, fmt.Errorf("insert dish: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Update(ctx context.Context, d Dish) (Dish, error) {
	err := r.db.QueryRowxContext(ctx, updateDishQuery,
		d.Name, d.Description, d.Price, d.Image, d.Ingredients, d.Category, d.ID, d.RestaurantID,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Dish{}, ErrNotFound
	}
	if err != nil {
		return Dish{}, fmt.Errorf("update dish: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, restaurantID int64) error {
	res, err := r.db.ExecContext(ctx, deleteDishQuery, id, restaurantID)
	if database.IsForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
