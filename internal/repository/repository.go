package repository

import (
	"context"

	"product-catalog/internal/model"
)

// ProductRepository defines the interface for product data access operations.
//
// Lookups by an id the backing store cannot parse behave as lookups of a
// product that does not exist.
type ProductRepository interface {
	// GetAll retrieves every product ordered by creation time.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns nil, nil if the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// FindByNamePatterns retrieves products whose name matches any of the
	// case-insensitive regular expressions, ordered by creation time.
	FindByNamePatterns(ctx context.Context, patterns []string) ([]model.Product, error)

	// Create inserts a product, assigning its ID and creation time.
	Create(ctx context.Context, product *model.Product) error

	// DecrementStock atomically lowers the stock of a product by one when it is positive.
	// Returns model.ErrProductNotFound when the product does not exist and
	// model.ErrInsufficientStock when its stock is already zero.
	DecrementStock(ctx context.Context, id string) (*model.Product, error)

	// Delete removes a product. Returns false if it did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}
