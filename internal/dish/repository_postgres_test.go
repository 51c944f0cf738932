package dish

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dishColumnNames = []string{"id", "restaurant_id", "name", "description", "price", "image", "ingredients", "category", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestPostgresFindByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM dishes WHERE id = ANY").
		WithArgs(pq.Array([]int64{100, 101})).
		WillReturnRows(sqlmock.NewRows(dishColumnNames).
			AddRow(100, 5, "Pad Thai", "", "5.00", "", "", "Thai", now, now).
			AddRow(101, 5, "Spring Rolls", "", "3.50", "", "", "Thai", now, now))

	dishes, err := repo.FindByIDs(context.Background(), []int64{100, 101})
	require.NoError(t, err)
	require.Len(t, dishes, 2)
	assert.True(t, dishes[1].Price.Equal(decimal.RequireFromString("3.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM dishes WHERE id =").WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(dishColumnNames))

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO dishes").
		WithArgs(int64(5), "Pad Thai", "", sqlmock.AnyArg(), "", "", "Thai").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	d, err := repo.Create(context.Background(), Dish{RestaurantID: 5, Name: "Pad Thai", Price: decimal.RequireFromString("5"), Category: "Thai"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteMapsForeignKeyViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM dishes").
		WithArgs(int64(7), int64(5)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectExec("DELETE FROM dishes").
		WithArgs(int64(8), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 7, 5), ErrInUse)
	assert.ErrorIs(t, repo.Delete(context.Background(), 8, 5), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
