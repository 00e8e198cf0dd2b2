package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/AayushAcharya189/SportGear/internal/auth"
	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/event"
	"github.com/AayushAcharya189/SportGear/internal/repository"
	"github.com/AayushAcharya189/SportGear/internal/service"
	"github.com/AayushAcharya189/SportGear/pkg/health"
	pkgkafka "github.com/AayushAcharya189/SportGear/pkg/kafka"
	"github.com/AayushAcharya189/SportGear/pkg/middleware"
)

// --- Mock repositories ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) CompareAndSwapQuantity(ctx context.Context, id string, expectedQty, newQty int) (bool, error) {
	args := m.Called(ctx, id, expectedQty, newQty)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepository) AdjustQuantity(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, fromStatus, toStatus string) error {
	args := m.Called(ctx, id, fromStatus, toStatus)
	return args.Error(0)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockContactRepository struct {
	mock.Mock
}

func (m *mockContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockContactRepository) List(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.ContactMessage), args.Int(1), args.Error(2)
}

// --- Test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

const (
	testJWTSecret = "test-secret-for-handler-tests-only"
	testAdminID   = "3f5d7d02-9f0a-4b3c-8a1e-2d4c6b8e0f1a"
	testUserID    = "a1b2c3d4-e5f6-4789-8abc-def012345678"
)

// setupRouter builds the production router wired to mocked repositories.
func setupRouter(
	users *mockUserRepository,
	products *mockProductRepository,
	orders *mockOrderRepository,
	contacts *mockContactRepository,
) http.Handler {
	logger := testLogger()
	producer := testEventProducer()
	jwt := auth.NewJWTManager(testJWTSecret, time.Hour)

	svc := Services{
		Accounts: service.NewAccountService(users, jwt, logger),
		Catalog:  service.NewCatalogService(products, nil, producer, logger),
		Checkout: service.NewCheckoutService(products, orders, producer, logger),
		Orders:   service.NewOrderService(orders, producer, logger),
		Contact:  service.NewContactService(contacts, nil, producer, logger),
	}

	return NewRouter(svc, RouterConfig{
		TokenValidator: func(token string) (*middleware.Claims, error) {
			claims, err := jwt.Validate(token)
			if err != nil {
				return nil, err
			}
			return &middleware.Claims{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
		},
		CORS:   middleware.DefaultCORSConfig(),
		Health: health.NewHandler(),
		Logger: logger,
	})
}

func bearerToken(t *testing.T, userID, email, role string) string {
	t.Helper()
	jwt := auth.NewJWTManager(testJWTSecret, time.Hour)
	token, err := jwt.Generate(userID, email, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func adminToken(t *testing.T) string {
	return bearerToken(t, testAdminID, "admin@sportgear.local", domain.RoleAdmin)
}

func customerToken(t *testing.T) string {
	return bearerToken(t, testUserID, "customer@example.com", domain.RoleCustomer)
}
