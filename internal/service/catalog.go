package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AayushAcharya189/SportGear/internal/cache"
	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/event"
	"github.com/AayushAcharya189/SportGear/internal/repository"
	apperrors "github.com/AayushAcharya189/SportGear/pkg/errors"
)

// CatalogService implements the business logic for catalog operations.
// Listing pages are served from Redis when possible; every admin write
// invalidates the cache.
type CatalogService struct {
	repo     repository.ProductRepository
	cache    *cache.ProductListCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a catalog service. The cache may be nil, in
// which case every listing hits the database.
func NewCatalogService(
	repo repository.ProductRepository,
	listCache *cache.ProductListCache,
	producer *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:     repo,
		cache:    listCache,
		producer: producer,
		logger:   logger,
	}
}

// ProductInput holds the fields for creating or updating a product.
type ProductInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,max=100"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// ListProductsInput holds the parameters for listing products.
type ListProductsInput struct {
	Category string
	Search   string
	Page     int
	PerPage  int
}

// CreateProduct adds a product to the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		Quantity:    input.Quantity,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidateListings(ctx)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// GetProduct retrieves a product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns a catalog page with the total count, serving from
// cache when the page is fresh.
func (s *CatalogService) ListProducts(ctx context.Context, input ListProductsInput) ([]domain.Product, int, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	// Search queries are long-tail and bypass the listing cache.
	useCache := s.cache != nil && input.Search == ""

	if useCache {
		cached, hit, err := s.cache.Get(ctx, input.Category, page, perPage)
		if err != nil {
			s.logger.WarnContext(ctx, "product list cache read failed",
				slog.String("error", err.Error()),
			)
		} else if hit {
			return cached.Products, cached.Total, nil
		}
	}

	filter := repository.ProductFilter{Page: page, PerPage: perPage}
	if input.Category != "" {
		filter.Category = &input.Category
	}
	if input.Search != "" {
		filter.Search = &input.Search
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	if useCache {
		if err := s.cache.Set(ctx, input.Category, page, perPage, &cache.ProductList{Products: products, Total: total}); err != nil {
			s.logger.WarnContext(ctx, "product list cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return products, total, nil
}

// UpdateProduct applies the input to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.PriceCents = input.PriceCents
	product.Quantity = input.Quantity
	product.ImageURL = input.ImageURL

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateListings(ctx)

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", product.ID))

	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidateListings(ctx)

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}

func (s *CatalogService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "product list cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}

func validateProductInput(input ProductInput) error {
	if input.Name == "" {
		return apperrors.InvalidInput("name is required")
	}
	if input.Category == "" {
		return apperrors.InvalidInput("category is required")
	}
	if input.PriceCents < 0 {
		return apperrors.InvalidInput("price_cents must not be negative")
	}
	if input.Quantity < 0 {
		return apperrors.InvalidInput("quantity must not be negative")
	}
	return nil
}
