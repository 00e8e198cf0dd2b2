package repository

import (
	"context"

	"github.com/AayushAcharya189/SportGear/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Category *string
	// Search matches case-insensitively against the product name.
	Search  *string
	Page    int
	PerPage int
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists changes to name and password hash.
	Update(ctx context.Context, user *domain.User) error
}

// ProductRepository defines catalog persistence operations.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByIDs retrieves the products with the given IDs. Missing IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// List returns products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update persists changes to a product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id string) error

	// CompareAndSwapQuantity sets the product's quantity to newQty only if
	// the stored quantity still equals expectedQty. It returns false when
	// another writer got there first.
	CompareAndSwapQuantity(ctx context.Context, id string, expectedQty, newQty int) (bool, error)

	// AdjustQuantity atomically adds delta to the product's quantity.
	AdjustQuantity(ctx context.Context, id string, delta int) error
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	// Create inserts an order and its items atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID, including its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter with the total count, newest
	// first. When filter.UserID is nil the user's name and email are joined
	// in for admin listings.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes the status of an order. The write only applies
	// while the row still holds fromStatus; a concurrent change is reported
	// as a conflict.
	UpdateStatus(ctx context.Context, id string, fromStatus, toStatus string) error

	// Delete removes an order and its items.
	Delete(ctx context.Context, id string) error
}

// ContactRepository defines contact message persistence operations.
type ContactRepository interface {
	// Create stores a submitted contact message.
	Create(ctx context.Context, msg *domain.ContactMessage) error

	// List returns stored messages, newest first, with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error)
}
