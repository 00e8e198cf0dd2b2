package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/event"
	"github.com/AayushAcharya189/SportGear/internal/repository"
	apperrors "github.com/AayushAcharya189/SportGear/pkg/errors"
)

// OrderService implements order listing and admin order management.
type OrderService struct {
	repo     repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates an order service.
func NewOrderService(repo repository.OrderRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ListOrdersInput holds the parameters for listing orders.
type ListOrdersInput struct {
	// CallerID and CallerRole identify the requesting user. Customers only
	// see their own orders; admins see everything with customer info joined.
	CallerID   string
	CallerRole string

	Status  string
	Page    int
	PerPage int
}

// ListOrders returns orders visible to the caller, newest first.
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) ([]domain.Order, int, error) {
	if input.Status != "" && !domain.IsValidStatus(input.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", input.Status))
	}

	filter := repository.OrderFilter{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if input.Status != "" {
		filter.Status = &input.Status
	}
	if input.CallerRole != domain.RoleAdmin {
		callerID := input.CallerID
		filter.UserID = &callerID
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// GetOrder retrieves an order. Customers can only read their own orders.
func (s *OrderService) GetOrder(ctx context.Context, id, callerID, callerRole string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if callerRole != domain.RoleAdmin && order.UserID != callerID {
		return nil, apperrors.Forbidden("order belongs to another user")
	}

	return order, nil
}

// UpdateOrderStatus moves an order to a new fulfilment status. Only forward
// transitions are allowed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, newStatus string) (*domain.Order, error) {
	if !domain.IsValidStatus(newStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", newStatus))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if !order.CanTransitionTo(newStatus) {
		return nil, apperrors.Conflict(
			"INVALID_TRANSITION",
			fmt.Sprintf("order cannot move from %q to %q", order.Status, newStatus),
		)
	}

	oldStatus := order.Status
	if err := s.repo.UpdateStatus(ctx, id, oldStatus, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = newStatus

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return order, nil
}

// DeleteOrder removes an order record. Stock is not restored; deletion is an
// administrative cleanup, not a cancellation.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get order for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if err := s.producer.PublishOrderDeleted(ctx, id, order.UserID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.deleted event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order deleted", slog.String("order_id", id))

	return nil
}
