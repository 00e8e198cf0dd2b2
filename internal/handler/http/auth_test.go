package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AayushAcharya189/SportGear/internal/domain"
)

func TestRegister_Success(t *testing.T) {
	users := &mockUserRepository{}
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	router := setupRouter(users, &mockProductRepository{}, &mockOrderRepository{}, &mockContactRepository{})

	body, _ := json.Marshal(map[string]string{
		"name":     "Alex Doe",
		"email":    "Alex@Example.com",
		"password": "s3cret-pass",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data struct {
			User  domain.User `json:"user"`
			Token string      `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alex@example.com", resp.Data.User.Email)
	assert.Equal(t, domain.RoleCustomer, resp.Data.User.Role)
	assert.NotEmpty(t, resp.Data.Token)
	users.AssertExpectations(t)
}

func TestRegister_ValidationFailure(t *testing.T) {
	users := &mockUserRepository{}
	router := setupRouter(users, &mockProductRepository{}, &mockOrderRepository{}, &mockContactRepository{})

	body, _ := json.Marshal(map[string]string{
		"name":     "Alex",
		"email":    "not-an-email",
		"password": "short",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepository{}
	users.On("GetByEmail", mock.Anything, "alex@example.com").Return(&domain.User{
		ID:           testUserID,
		Email:        "alex@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
	}, nil)

	router := setupRouter(users, &mockProductRepository{}, &mockOrderRepository{}, &mockContactRepository{})

	body, _ := json.Marshal(map[string]string{
		"email":    "alex@example.com",
		"password": "wrong-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProfile_RequiresToken(t *testing.T) {
	router := setupRouter(&mockUserRepository{}, &mockProductRepository{}, &mockOrderRepository{}, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProfile_ReturnsCallerAccount(t *testing.T) {
	users := &mockUserRepository{}
	users.On("GetByID", mock.Anything, testUserID).Return(&domain.User{
		ID:    testUserID,
		Name:  "Alex Doe",
		Email: "customer@example.com",
		Role:  domain.RoleCustomer,
	}, nil)

	router := setupRouter(users, &mockProductRepository{}, &mockOrderRepository{}, &mockContactRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer@example.com")
	users.AssertExpectations(t)
}

func TestUpdateProfile_Success(t *testing.T) {
	users := &mockUserRepository{}
	users.On("GetByID", mock.Anything, testUserID).Return(&domain.User{
		ID:           testUserID,
		Name:         "Old Name",
		Email:        "customer@example.com",
		PasswordHash: "old-hash",
		Role:         domain.RoleCustomer,
	}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "New Name" && u.PasswordHash == "old-hash"
	})).Return(nil)

	router := setupRouter(users, &mockProductRepository{}, &mockOrderRepository{}, &mockContactRepository{})

	body, _ := json.Marshal(map[string]string{"name": "New Name"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile", bytes.NewReader(body))
	req.Header.Set("Authorization", customerToken(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}
