package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/database"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	userColumns = `id, name, email, password, user_type, created_at, updated_at`

	getUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	insertUserQuery = `
		INSERT INTO users (name, email, password, user_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	insertCustomerProfileQuery   = `INSERT INTO customer_profiles (user_id) VALUES ($1) RETURNING id`
	insertRestaurantProfileQuery = `INSERT INTO restaurant_profiles (user_id, location) VALUES ($1, $2) RETURNING id`
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u User, location string) (User, int64, error) {
	var profileID int64
	err := database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, insertUserQuery, u.Name, u.Email, u.Password, string(u.UserType)).
			Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
		if database.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		if u.UserType == auth.RoleRestaurant {
			err = tx.QueryRowxContext(ctx, insertRestaurantProfileQuery, u.ID, location).Scan(&profileID)
		} else {
			err = tx.QueryRowxContext(ctx, insertCustomerProfileQuery, u.ID).Scan(&profileID)
		}
		if err != nil {
			return fmt.Errorf("insert %s: %w", profileTable(u.UserType), err)
		}
		return nil
	})
	if err != nil {
		return User{}, 0, err
	}
	return u, profileID, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, getUserByEmailQuery, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (User, error) {
	return r.findOne(ctx, getUserByIDQuery, id)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) ProfileID(ctx context.Context, u User) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT id FROM `+profileTable(u.UserType)+` WHERE user_id = $1`, u.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find profile id: %w", err)
	}
	return id, nil
}
