package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wichananm65/food-order-backend/internal/infrastructure/database"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	findProfileQuery = `
		SELECT c.id, c.user_id, u.name, u.email,
			COALESCE(c.profile_picture, '') AS profile_picture, COALESCE(c.address, '') AS address,
			COALESCE(c.city, '') AS city, COALESCE(c.state, '') AS state,
			COALESCE(c.country, '') AS country, COALESCE(c.phone, '') AS phone
		FROM customer_profiles c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1`

	updateNameQuery    = `UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2`
	updateProfileQuery = `
		UPDATE customer_profiles
		SET address = NULLIF($1, ''), city = NULLIF($2, ''), state = NULLIF($3, ''),
			country = NULLIF($4, ''), phone = NULLIF($5, '')
		WHERE user_id = $6`
	lockPictureQuery = `SELECT COALESCE(profile_picture, '') FROM customer_profiles WHERE user_id = $1 FOR UPDATE`
	setPictureQuery  = `UPDATE customer_profiles SET profile_picture = $1 WHERE user_id = $2`
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) (Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, findProfileQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("find customer profile: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID int64, upd ProfileUpdate) error {
	return database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, updateNameQuery, upd.Name, userID); err != nil {
			return fmt.Errorf("update customer name: %w", err)
		}
		res, err := tx.ExecContext(ctx, updateProfileQuery,
			upd.Address, upd.City, upd.State, upd.Country, upd.Phone, userID)
		if err != nil {
			return fmt.Errorf("update customer profile: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update customer profile: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresRepository) SetPicture(ctx context.Context, userID int64, path string) (string, error) {
	var old string
	err := database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &old, lockPictureQuery, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load customer picture: %w", err)
		}
		if _, err := tx.ExecContext(ctx, setPictureQuery, path, userID); err != nil {
			return fmt.Errorf("set customer picture: %w", err)
		}
		return nil
	})
	return old, err
}
