package service

import (
	"context"

	"product-catalog/internal/model"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves every product in creation order.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// MatchByNames resolves name fragments to product links.
	MatchByNames(ctx context.Context, names []string) ([]model.ProductLink, error)

	// DecrementStock takes one unit out of a product's stock.
	DecrementStock(ctx context.Context, id string) (*model.Product, error)

	// Delete removes a product by ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)
}
