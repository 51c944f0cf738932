package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

const (
	addressColumns = `id, user_id, COALESCE(address_name, '') AS address_name, address_desc,
		COALESCE(phone, '') AS phone, created_at, updated_at`

	listAddressesQuery = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY id`
	findAddressQuery   = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND id = $2`
	insertAddressQuery = `
		INSERT INTO addresses (user_id, address_name, address_desc, phone)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''))
		RETURNING ` + addressColumns
	updateAddressQuery = `
		UPDATE addresses
		SET address_name = NULLIF($3, ''), address_desc = $4, phone = NULLIF($5, ''), updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING ` + addressColumns
	deleteAddressQuery = `DELETE FROM addresses WHERE user_id = $1 AND id = $2`
)

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]Address, error) {
	out := []Address{}
	if err := r.db.SelectContext(ctx, &out, listAddressesQuery, userID); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, id int64) (Address, error) {
	return r.one(ctx, "find address", findAddressQuery, userID, id)
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, in Input) (Address, error) {
	return r.one(ctx, "insert address", insertAddressQuery, userID, in.AddressName, in.AddressDesc, in.Phone)
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id int64, in Input) (Address, error) {
	return r.one(ctx, "update address", updateAddressQuery, userID, id, in.AddressName, in.AddressDesc, in.Phone)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteAddressQuery, userID, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) one(ctx context.Context, op, query string, args ...any) (Address, error) {
	var a Address
	err := r.db.GetContext(ctx, &a, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return Address{}, ErrNotFound
	}
	if err != nil {
		return Address{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
