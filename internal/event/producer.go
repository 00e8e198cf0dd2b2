package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	pkgkafka "github.com/AayushAcharya189/SportGear/pkg/kafka"
	"github.com/AayushAcharya189/SportGear/pkg/logger"
)

// Kafka topic constants for storefront domain events.
const (
	TopicOrderCreated       = "sportgear.order.created"
	TopicOrderStatusChanged = "sportgear.order.status_changed"
	TopicOrderDeleted       = "sportgear.order.deleted"
	TopicProductUpdated     = "sportgear.product.updated"
	TopicProductLowStock    = "sportgear.product.low_stock"
	TopicContactReceived    = "sportgear.contact.received"
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
	AggregateTypeContact = "contact"
)

// Source identifier for events originating from this API.
const Source = "sportgear-api"

// Products at or below this remaining quantity trigger a low_stock event.
const LowStockThreshold = 5

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Status     string          `json:"status"`
	Items      []OrderItemData `json:"items"`
	TotalCents int64           `json:"total_cents"`
}

// OrderItemData is the event payload for an order item.
type OrderItemData struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// OrderDeletedData is the payload for an order.deleted event.
type OrderDeletedData struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// ProductUpdatedData is the payload for a product.updated event.
type ProductUpdatedData struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// ProductLowStockData is the payload for a product.low_stock event.
type ProductLowStockData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
}

// ContactReceivedData is the payload for a contact.received event.
type ContactReceivedData struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event with the full order
// snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		}
	}

	data := OrderCreatedData{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Items:      items,
		TotalCents: order.TotalCents,
	}

	return p.publish(ctx, TopicOrderCreated, order.ID, AggregateTypeOrder, data)
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string) error {
	data := OrderStatusChangedData{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
	return p.publish(ctx, TopicOrderStatusChanged, orderID, AggregateTypeOrder, data)
}

// PublishOrderDeleted publishes an order.deleted event.
func (p *Producer) PublishOrderDeleted(ctx context.Context, orderID, userID string) error {
	data := OrderDeletedData{OrderID: orderID, UserID: userID}
	return p.publish(ctx, TopicOrderDeleted, orderID, AggregateTypeOrder, data)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	data := ProductUpdatedData{
		ProductID:  product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Quantity:   product.Quantity,
	}
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, data)
}

// PublishProductLowStock publishes a product.low_stock event.
func (p *Producer) PublishProductLowStock(ctx context.Context, productID, name string, remaining int) error {
	data := ProductLowStockData{
		ProductID: productID,
		Name:      name,
		Remaining: remaining,
	}
	return p.publish(ctx, TopicProductLowStock, productID, AggregateTypeProduct, data)
}

// PublishContactReceived publishes a contact.received event.
func (p *Producer) PublishContactReceived(ctx context.Context, msg *domain.ContactMessage) error {
	data := ContactReceivedData{
		MessageID: msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
	}
	return p.publish(ctx, TopicContactReceived, msg.ID, AggregateTypeContact, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
