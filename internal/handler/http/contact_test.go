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
	"github.com/AayushAcharya189/SportGear/pkg/httputil"
)

func TestSubmitContact_Public(t *testing.T) {
	contacts := &mockContactRepository{}
	contacts.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.ContactMessage) bool {
		return m.Email == "visitor@example.com" && m.Message == "Do you ship abroad?"
	})).Return(nil)

	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, &mockOrderRepository{}, contacts)

	body, _ := json.Marshal(map[string]string{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "Do you ship abroad?",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	contacts.AssertExpectations(t)
}

func TestSubmitContact_MissingMessage(t *testing.T) {
	contacts := &mockContactRepository{}
	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, &mockOrderRepository{}, contacts)

	body, _ := json.Marshal(map[string]string{
		"name":  "Visitor",
		"email": "visitor@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	contacts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListContact_RequiresAdmin(t *testing.T) {
	contacts := &mockContactRepository{}
	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, &mockOrderRepository{}, contacts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact", nil)
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListContact_AdminPaginated(t *testing.T) {
	contacts := &mockContactRepository{}
	contacts.On("List", mock.Anything, 1, 20).Return([]domain.ContactMessage{
		{ID: uuid.NewString(), Name: "Visitor", Email: "visitor@example.com", Message: "Hi"},
	}, 1, nil)

	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, &mockOrderRepository{}, contacts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contact", nil)
	req.Header.Set("Authorization", adminToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httputil.PaginatedResponse[domain.ContactMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.False(t, resp.HasNext)
	contacts.AssertExpectations(t)
}
