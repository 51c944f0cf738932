package restaurant

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
	profileColumns = `
		r.id, r.user_id, u.name, u.email, COALESCE(r.description, '') AS description,
		r.location, r.delivery_type, COALESCE(r.contact_info, '') AS contact_info,
		COALESCE(r.profile_picture, '') AS profile_picture,
		COALESCE(r.opening_time, '') AS opening_time, COALESCE(r.closing_time, '') AS closing_time`

	findByIDQuery     = `SELECT ` + profileColumns + ` FROM restaurant_profiles r JOIN users u ON u.id = r.user_id WHERE r.id = $1`
	findByUserIDQuery = `SELECT ` + profileColumns + ` FROM restaurant_profiles r JOIN users u ON u.id = r.user_id WHERE r.user_id = $1`
	existsQuery       = `SELECT EXISTS (SELECT 1 FROM restaurant_profiles WHERE id = $1)`

	listQuery = `
		SELECT r.id, u.name, COALESCE(r.description, '') AS description, r.location, r.delivery_type,
			COALESCE(r.profile_picture, '') AS profile_picture,
			COALESCE(r.opening_time, '') AS opening_time, COALESCE(r.closing_time, '') AS closing_time
		FROM restaurant_profiles r
		JOIN users u ON u.id = r.user_id
		WHERE ($1 = '' OR r.delivery_type = $1 OR r.delivery_type = 'Both')
		ORDER BY r.id
		LIMIT NULLIF($2, 0) OFFSET $3`

	updateNameQuery    = `UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2`
	updateProfileQuery = `
		UPDATE restaurant_profiles
		SET description = NULLIF($1, ''), location = $2, delivery_type = $3, contact_info = NULLIF($4, ''),
			opening_time = NULLIF($5, ''), closing_time = NULLIF($6, '')
		WHERE user_id = $7`
	lockPictureQuery = `SELECT COALESCE(profile_picture, '') FROM restaurant_profiles WHERE user_id = $1 FOR UPDATE`
	setPictureQuery  = `UPDATE restaurant_profiles SET profile_picture = $1 WHERE user_id = $2`
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Profile, error) {
	return r.findOne(ctx, findByIDQuery, id)
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) (Profile, error) {
	return r.findOne(ctx, findByUserIDQuery, userID)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg int64) (Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("find restaurant: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, existsQuery, id); err != nil {
		return false, fmt.Errorf("restaurant exists: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]Summary, error) {
	out := make([]Summary, 0)
	if err := r.db.SelectContext(ctx, &out, listQuery, f.DeliveryType, f.Limit, f.Offset); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID int64, upd ProfileUpdate) error {
	return database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, updateNameQuery, upd.Name, userID); err != nil {
			return fmt.Errorf("update restaurant name: %w", err)
		}
		res, err := tx.ExecContext(ctx, updateProfileQuery,
			upd.Description, upd.Location, upd.DeliveryType, upd.ContactInfo, upd.OpeningTime, upd.ClosingTime, userID)
		if err != nil {
			return fmt.Errorf("update restaurant profile: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update restaurant profile: %w", err)
		} else if n == 0 {
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
			return fmt.Errorf("load restaurant picture: %w", err)
		}
		if _, err := tx.ExecContext(ctx, setPictureQuery, path, userID); err != nil {
			return fmt.Errorf("set restaurant picture: %w", err)
		}
		return nil
	})
	return old, err
}
