package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/repository"
	"github.com/AayushAcharya189/SportGear/pkg/httputil"
)

func checkoutBody(t *testing.T, items []map[string]any) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]any{"items": items})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestCheckout_RequiresToken(t *testing.T) {
	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, &mockOrderRepository{}, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/checkout",
		checkoutBody(t, []map[string]any{{"product_id": uuid.NewString(), "quantity": 1}}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckout_Success(t *testing.T) {
	productID := uuid.NewString()
	products := &mockProductRepository{}
	products.On("GetByIDs", mock.Anything, []string{productID}).Return([]domain.Product{
		{ID: productID, Name: "Climbing Rope", PriceCents: 12900, Quantity: 8},
	}, nil)
	products.On("CompareAndSwapQuantity", mock.Anything, productID, 8, 6).Return(true, nil)

	orders := &mockOrderRepository{}
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.UserID == testUserID &&
			o.Status == domain.OrderStatusPending &&
			o.TotalCents == 25800 &&
			len(o.Items) == 1
	})).Return(nil)

	router := setupRouter(&mockUserRepository{}, products, orders, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/checkout",
		checkoutBody(t, []map[string]any{{"product_id": productID, "quantity": 2}}))
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data domain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(25800), resp.Data.TotalCents)
	products.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestCheckout_InsufficientStockIsConflict(t *testing.T) {
	productID := uuid.NewString()
	products := &mockProductRepository{}
	products.On("GetByIDs", mock.Anything, []string{productID}).Return([]domain.Product{
		{ID: productID, Name: "Climbing Rope", PriceCents: 12900, Quantity: 1},
	}, nil)

	router := setupRouter(&mockUserRepository{}, products, &mockOrderRepository{}, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/checkout",
		checkoutBody(t, []map[string]any{{"product_id": productID, "quantity": 5}}))
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")
}

func TestListMine_ScopedToCaller(t *testing.T) {
	orders := &mockOrderRepository{}
	orders.On("List", mock.Anything, mock.MatchedBy(func(f repository.OrderFilter) bool {
		return f.UserID != nil && *f.UserID == testUserID
	})).Return([]domain.Order{
		{ID: uuid.NewString(), UserID: testUserID, Status: domain.OrderStatusPending},
	}, 1, nil)

	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, orders, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/mine", nil)
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httputil.PaginatedResponse[domain.Order]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	orders.AssertExpectations(t)
}

func TestListAll_RequiresAdmin(t *testing.T) {
	orders := &mockOrderRepository{}
	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, orders, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	orders.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetOrder_OtherCustomersOrderIsForbidden(t *testing.T) {
	id := uuid.NewString()
	orders := &mockOrderRepository{}
	orders.On("GetByID", mock.Anything, id).Return(&domain.Order{
		ID:     id,
		UserID: uuid.NewString(),
		Status: domain.OrderStatusPending,
	}, nil)

	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, orders, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id, nil)
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateOrderStatus_ForwardTransition(t *testing.T) {
	id := uuid.NewString()
	orders := &mockOrderRepository{}
	orders.On("GetByID", mock.Anything, id).Return(&domain.Order{
		ID:     id,
		UserID: testUserID,
		Status: domain.OrderStatusPending,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, id, domain.OrderStatusPending, domain.OrderStatusShipped).Return(nil)

	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, orders, &mockContactRepository{})

	body, _ := json.Marshal(map[string]string{"status": "shipped"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+id, bytes.NewReader(body))
	req.Header.Set("Authorization", adminToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}

func TestUpdateOrderStatus_BackwardTransitionIsConflict(t *testing.T) {
	id := uuid.NewString()
	orders := &mockOrderRepository{}
	orders.On("GetByID", mock.Anything, id).Return(&domain.Order{
		ID:     id,
		UserID: testUserID,
		Status: domain.OrderStatusDelivered,
	}, nil)

	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, orders, &mockContactRepository{})

	body, _ := json.Marshal(map[string]string{"status": "pending"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+id, bytes.NewReader(body))
	req.Header.Set("Authorization", adminToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TRANSITION")
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteOrder_AdminOnly_DoesNotTouchStock(t *testing.T) {
	id := uuid.NewString()
	orders := &mockOrderRepository{}
	orders.On("GetByID", mock.Anything, id).Return(&domain.Order{
		ID:     id,
		UserID: testUserID,
		Status: domain.OrderStatusPending,
		Items:  []domain.OrderItem{{ProductID: uuid.NewString(), Quantity: 2}},
	}, nil)
	orders.On("Delete", mock.Anything, id).Return(nil)

	products := &mockProductRepository{}

	router := setupRouter(&mockUserRepository{}, products, orders, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+id, nil)
	req.Header.Set("Authorization", adminToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	products.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
}
