package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/event"
	"github.com/AayushAcharya189/SportGear/internal/repository"
	apperrors "github.com/AayushAcharya189/SportGear/pkg/errors"
)

// maxCheckoutAttempts bounds how often a checkout retries after losing a
// stock race before giving up.
const maxCheckoutAttempts = 3

var (
	checkoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_requests_total",
			Help: "Total checkout attempts by outcome",
		},
		[]string{"outcome"},
	)

	checkoutStockConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_stock_conflicts_total",
			Help: "Total stock reservation conflicts detected during checkout",
		},
	)
)

// CheckoutService places orders, reserving stock atomically so quantities
// never go negative under concurrent checkouts.
type CheckoutService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		products: products,
		orders:   orders,
		producer: producer,
		logger:   logger,
	}
}

// CheckoutItemInput is one cart line submitted at checkout.
type CheckoutItemInput struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CheckoutInput holds the parameters for placing an order. Prices are never
// taken from the client; the catalog is the only price source.
type CheckoutInput struct {
	UserID string
	Items  []CheckoutItemInput
}

// reservation tracks a stock decrement that has been applied and may need to
// be returned if the checkout cannot complete.
type reservation struct {
	productID string
	quantity  int
}

// Checkout validates the cart, reserves stock with per-product
// compare-and-swap updates, and records the order. When a concurrent checkout
// wins a stock race the whole attempt is rolled back and retried.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if len(input.Items) == 0 {
		checkoutTotal.WithLabelValues("empty_cart").Inc()
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items, err := mergeCartLines(input.Items)
	if err != nil {
		checkoutTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxCheckoutAttempts; attempt++ {
		order, err := s.tryCheckout(ctx, input.UserID, items)
		if err == nil {
			checkoutTotal.WithLabelValues("success").Inc()
			s.logger.InfoContext(ctx, "checkout completed",
				slog.String("order_id", order.ID),
				slog.String("user_id", order.UserID),
				slog.Int64("total_cents", order.TotalCents),
				slog.Int("attempt", attempt),
			)
			return order, nil
		}
		if !isStockRace(err) {
			checkoutTotal.WithLabelValues(outcomeLabel(err)).Inc()
			return nil, err
		}

		checkoutStockConflicts.Inc()
		lastErr = err
		s.logger.WarnContext(ctx, "stock race during checkout, retrying",
			slog.String("user_id", input.UserID),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxCheckoutAttempts),
		)
	}

	checkoutTotal.WithLabelValues("concurrent_modification").Inc()
	return nil, apperrors.Conflict(
		"CONCURRENT_MODIFICATION",
		fmt.Sprintf("checkout could not complete after %d attempts due to concurrent stock updates: %v", maxCheckoutAttempts, lastErr),
	)
}

// errStockRace marks an attempt that lost a compare-and-swap race and should
// be retried with a fresh snapshot.
type errStockRace struct {
	productID string
}

func (e *errStockRace) Error() string {
	return fmt.Sprintf("stock changed concurrently for product %s", e.productID)
}

func isStockRace(err error) bool {
	_, ok := err.(*errStockRace)
	return ok
}

func outcomeLabel(err error) string {
	switch apperrors.HTTPStatus(err) {
	case http.StatusNotFound:
		return "product_not_found"
	case http.StatusConflict:
		return "insufficient_stock"
	case http.StatusBadRequest:
		return "invalid"
	default:
		return "error"
	}
}

// tryCheckout performs one full checkout attempt: snapshot, validate,
// reserve, record.
func (s *CheckoutService) tryCheckout(ctx context.Context, userID string, items []CheckoutItemInput) (*domain.Order, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	snapshot, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products for checkout: %w", err)
	}

	byID := make(map[string]domain.Product, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}

	// Validate the whole cart against the snapshot before touching stock,
	// so an order either reserves everything or nothing.
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, apperrors.NotFound("product", item.ProductID)
		}
		if !p.InStock(item.Quantity) {
			return nil, apperrors.Conflict(
				"INSUFFICIENT_STOCK",
				fmt.Sprintf("product %s has %d in stock, %d requested", p.ID, p.Quantity, item.Quantity),
			)
		}
	}

	// Reserve stock product by product. Each decrement only applies if the
	// quantity still matches the snapshot; a mismatch means another checkout
	// got there first and everything applied so far is returned.
	applied := make([]reservation, 0, len(items))
	for _, item := range items {
		p := byID[item.ProductID]
		swapped, err := s.products.CompareAndSwapQuantity(ctx, p.ID, p.Quantity, p.Quantity-item.Quantity)
		if err != nil {
			s.release(ctx, applied)
			return nil, fmt.Errorf("reserve stock for product %s: %w", p.ID, err)
		}
		if !swapped {
			s.release(ctx, applied)
			return nil, &errStockRace{productID: p.ID}
		}
		applied = append(applied, reservation{productID: p.ID, quantity: item.Quantity})
	}

	order := s.buildOrder(userID, items, byID)

	if err := s.orders.Create(ctx, order); err != nil {
		s.release(ctx, applied)
		return nil, fmt.Errorf("record order: %w", err)
	}

	s.publishCheckoutEvents(ctx, order, items, byID)

	return order, nil
}

// buildOrder prices the cart from the catalog snapshot and assembles the
// order aggregate.
func (s *CheckoutService) buildOrder(userID string, items []CheckoutItemInput, byID map[string]domain.Product) *domain.Order {
	now := time.Now().UTC()
	orderID := uuid.New().String()

	var total int64
	orderItems := make([]domain.OrderItem, len(items))
	for i, item := range items {
		p := byID[item.ProductID]
		orderItems[i] = domain.OrderItem{
			ID:             uuid.New().String(),
			OrderID:        orderID,
			ProductID:      p.ID,
			ProductName:    p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       item.Quantity,
		}
		total += orderItems[i].LineTotal()
	}

	return &domain.Order{
		ID:         orderID,
		UserID:     userID,
		Status:     domain.OrderStatusPending,
		Items:      orderItems,
		TotalCents: total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// release returns already reserved stock with relative increments. Additive
// updates cannot lose races, so no compare-and-swap is needed here.
func (s *CheckoutService) release(ctx context.Context, applied []reservation) {
	for _, r := range applied {
		if err := s.products.AdjustQuantity(ctx, r.productID, r.quantity); err != nil {
			s.logger.ErrorContext(ctx, "failed to return reserved stock",
				slog.String("product_id", r.productID),
				slog.Int("quantity", r.quantity),
				slog.String("error", err.Error()),
			)
		}
	}
}

// publishCheckoutEvents emits order.created and any low stock warnings.
// Publish failures are logged, never surfaced to the customer.
func (s *CheckoutService) publishCheckoutEvents(ctx context.Context, order *domain.Order, items []CheckoutItemInput, byID map[string]domain.Product) {
	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	for _, item := range items {
		p := byID[item.ProductID]
		remaining := p.Quantity - item.Quantity
		if remaining <= event.LowStockThreshold {
			if err := s.producer.PublishProductLowStock(ctx, p.ID, p.Name, remaining); err != nil {
				s.logger.ErrorContext(ctx, "failed to publish product.low_stock event",
					slog.String("product_id", p.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// mergeCartLines combines duplicate product lines and rejects non-positive
// quantities.
func mergeCartLines(items []CheckoutItemInput) ([]CheckoutItemInput, error) {
	index := make(map[string]int, len(items))
	merged := make([]CheckoutItemInput, 0, len(items))

	for _, item := range items {
		if item.ProductID == "" {
			return nil, apperrors.InvalidInput("product_id is required for every cart line")
		}
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity for product %s must be positive", item.ProductID))
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	return merged, nil
}
