package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/repository"
	apperrors "github.com/AayushAcharya189/SportGear/pkg/errors"
)

func newOrderTestFixture(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:         "o-1",
		UserID:     "u-1",
		Status:     domain.OrderStatusPending,
		TotalCents: 17998,
		Items: []domain.OrderItem{
			{ID: "oi-1", OrderID: "o-1", ProductID: "p-1", ProductName: "Trail Running Shoes", UnitPriceCents: 8999, Quantity: 2},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.Status, o.TotalCents, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("oi-1", "o-1", "p-1", "Trail Running Shoes", int64(8999), 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemInsertFailureRollsBack(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.Status, o.TotalCents, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("oi-1", "o-1", "p-1", "Trail Running Shoes", int64(8999), 2).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_WithItems(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()
	itemsJSON := []byte(`[{"id":"oi-1","order_id":"o-1","product_id":"p-1","product_name":"Trail Running Shoes","unit_price_cents":8999,"quantity":2}]`)

	rows := pgxmock.NewRows([]string{"id", "user_id", "status", "total_cents", "created_at", "updated_at", "items"}).
		AddRow(o.ID, o.UserID, o.Status, o.TotalCents, o.CreatedAt, o.UpdatedAt, itemsJSON)

	mock.ExpectQuery("SELECT (.+) FROM orders o").
		WithArgs(o.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Trail Running Shoes", got.Items[0].ProductName)
	assert.Equal(t, int64(8999), got.Items[0].UnitPriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_AdminIncludesUserInfo(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	orderRows := pgxmock.NewRows([]string{"id", "user_id", "status", "total_cents", "created_at", "updated_at", "name", "email", "total_count"}).
		AddRow(o.ID, o.UserID, o.Status, o.TotalCents, o.CreatedAt, o.UpdatedAt, "Alice Smith", "alice@example.com", 1)

	mock.ExpectQuery("SELECT (.+) FROM orders o").
		WithArgs(20, 0).
		WillReturnRows(orderRows)

	itemRows := pgxmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "unit_price_cents", "quantity"}).
		AddRow("oi-1", "o-1", "p-1", "Trail Running Shoes", int64(8999), 2)

	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(itemRows)

	got, total, err := repo.List(context.Background(), repository.OrderFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice Smith", got[0].UserName)
	assert.Equal(t, "alice@example.com", got[0].UserEmail)
	require.Len(t, got[0].Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_CustomerOmitsUserInfo(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	orderRows := pgxmock.NewRows([]string{"id", "user_id", "status", "total_cents", "created_at", "updated_at", "name", "email", "total_count"}).
		AddRow(o.ID, o.UserID, o.Status, o.TotalCents, o.CreatedAt, o.UpdatedAt, "Alice Smith", "alice@example.com", 1)

	mock.ExpectQuery("SELECT (.+) FROM orders o").
		WithArgs(o.UserID, 20, 0).
		WillReturnRows(orderRows)

	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "unit_price_cents", "quantity"}))

	userID := o.UserID
	got, _, err := repo.List(context.Background(), repository.OrderFilter{UserID: &userID, Page: 1, PerPage: 20})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].UserName)
	assert.Empty(t, got[0].UserEmail)
	assert.Empty(t, got[0].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders SET status(.+)AND status").
		WithArgs(domain.OrderStatusShipped, "o-1", domain.OrderStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "o-1", domain.OrderStatusPending, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_StaleStatusIsConflict(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders SET status(.+)AND status").
		WithArgs(domain.OrderStatusShipped, "o-1", domain.OrderStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "o-1", domain.OrderStatusPending, domain.OrderStatusShipped)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONCURRENT_MODIFICATION", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Delete_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM orders").
		WithArgs("o-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "o-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
