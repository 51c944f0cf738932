package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	getCartQuery = `
		SELECT customer_id, COALESCE(restaurant_id, 0) AS restaurant_id, items, updated_at
		FROM carts WHERE customer_id = $1`
	upsertCartQuery = `
		INSERT INTO carts (customer_id, restaurant_id, items, updated_at)
		VALUES ($1, NULLIF($2, 0), $3, $4)
		ON CONFLICT (customer_id) DO UPDATE
		SET restaurant_id = EXCLUDED.restaurant_id,
		    items = EXCLUDED.items,
		    updated_at = EXCLUDED.updated_at`
	deleteCartQuery = `DELETE FROM carts WHERE customer_id = $1`
)

type cartRow struct {
	UserID       int64     `db:"customer_id"`
	RestaurantID int64     `db:"restaurant_id"`
	Items        []byte    `db:"items"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (Cart, error) {
	var row cartRow
	err := r.db.GetContext(ctx, &row, getCartQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return empty(userID), nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}

	c := Cart{UserID: row.UserID, RestaurantID: row.RestaurantID, UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal(row.Items, &c.Items); err != nil {
		return Cart{}, fmt.Errorf("decode cart items: %w", err)
	}
	if c.Items == nil {
		c.Items = map[int64]int{}
	}
	return c, nil
}

func (r *PostgresRepository) Save(ctx context.Context, c Cart) error {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, upsertCartQuery, c.UserID, c.RestaurantID, string(items), time.Now().UTC()); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, deleteCartQuery, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
