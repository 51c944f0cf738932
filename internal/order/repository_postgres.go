package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wichananm65/food-order-backend/internal/infrastructure/database"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectOrders = `SELECT o.id, o.customer_id, o.restaurant_id, o.status, o.total_amount,
        COALESCE(o.delivery_address, '') AS delivery_address, o.created_at,
        cu.name AS customer_name, ru.name AS restaurant_name
    FROM orders o
    JOIN users cu ON cu.id = o.customer_id
    JOIN restaurant_profiles rp ON rp.id = o.restaurant_id
    JOIN users ru ON ru.id = rp.user_id`

// Create inserts the order header and all of its items in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	created := cloneOrder(ord)
	err := database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		id, createdAt, err := insertOrder(ctx, tx, created)
		if err != nil {
			return err
		}
		created.ID = id
		created.CreatedAt = createdAt

		for i := range created.Items {
			itemID, err := insertOrderItem(ctx, tx, id, created.Items[i])
			if err != nil {
				return fmt.Errorf("insert order item %d: %w", i, err)
			}
			created.Items[i].ID = itemID
			created.Items[i].OrderID = id
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return created, nil
}

func insertOrder(ctx context.Context, tx *sqlx.Tx, ord Order) (int64, time.Time, error) {
	var (
		id        int64
		createdAt time.Time
	)
	err := tx.QueryRowxContext(ctx, `INSERT INTO orders (customer_id, restaurant_id, status, total_amount, delivery_address)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''))
        RETURNING id, created_at`,
		ord.CustomerID, ord.RestaurantID, string(ord.Status), ord.TotalAmount, ord.DeliveryAddress).Scan(&id, &createdAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert order: %w", err)
	}
	return id, createdAt, nil
}

func insertOrderItem(ctx context.Context, tx *sqlx.Tx, orderID int64, it Item) (int64, error) {
	var id int64
	err := tx.QueryRowxContext(ctx, `INSERT INTO order_items (order_id, dish_id, quantity, price)
        VALUES ($1, $2, $3, $4)
        RETURNING id`,
		orderID, it.DishID, it.Quantity, it.Price).Scan(&id)
	return id, err
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, selectOrders+` WHERE o.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("find order %d: %w", id, err)
	}

	orders := []Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

// UpdateStatus overwrites the status column only. There is no version check.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update order %d status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order %d status: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return r.list(ctx, selectOrders+` WHERE o.customer_id = $1 ORDER BY o.created_at DESC, o.id DESC`, customerID)
}

func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID int64, status Status) ([]Order, error) {
	return r.list(ctx, selectOrders+` WHERE o.restaurant_id = $1 AND ($2::text = '' OR o.status = $2::text)
        ORDER BY o.created_at DESC, o.id DESC`, restaurantID, string(status))
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	orders := make([]Order, 0)
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of all orders with a single query.
func (r *PostgresRepository) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = make([]Item, 0)
	}

	var items []Item
	err := r.db.SelectContext(ctx, &items, `SELECT oi.id, oi.order_id, oi.dish_id, oi.quantity, oi.price,
        COALESCE(d.name, '') AS dish_name, COALESCE(d.image, '') AS dish_image
    FROM order_items oi
    LEFT JOIN dishes d ON d.id = oi.dish_id
    WHERE oi.order_id = ANY($1::bigint[])
    ORDER BY oi.order_id, oi.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for _, it := range items {
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return nil
}
