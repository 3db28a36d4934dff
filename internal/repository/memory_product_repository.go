package repository

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"product-catalog/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memoryProductRepository implements the ProductRepository interface in process memory.
type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]model.Product
	order    []string // ids in insertion order
	logger   zerolog.Logger
}

// NewMemoryProductRepository creates an empty in-memory product repository.
func NewMemoryProductRepository(logger zerolog.Logger) ProductRepository {
	return &memoryProductRepository{
		products: make(map[string]model.Product),
		logger:   logger.With().Str("repository", "product").Str("driver", "memory").Logger(),
	}
}

// GetAll retrieves every product in insertion order.
func (r *memoryProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *memoryProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// FindByNamePatterns retrieves products whose name matches any of the patterns.
func (r *memoryProductRepository) FindByNamePatterns(ctx context.Context, patterns []string) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matchers := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?is)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile name pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, re)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []model.Product{}
	for _, id := range r.order {
		p := r.products[id]
		for _, re := range matchers {
			if re.MatchString(p.Name) {
				products = append(products, p)
				break
			}
		}
	}
	return products, nil
}

// Create inserts a product, assigning its ID and creation time.
func (r *memoryProductRepository) Create(ctx context.Context, product *model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = uuid.NewString()
	product.CreatedAt = time.Now().UTC()
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)

	r.logger.Debug().Str("product_id", product.ID).Msg("product stored")
	return nil
}

// DecrementStock lowers the stock of a product by one when it is positive.
func (r *memoryProductRepository) DecrementStock(ctx context.Context, id string) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	if p.Stock <= 0 {
		return nil, model.ErrInsufficientStock
	}

	p.Stock--
	r.products[id] = p
	return &p, nil
}

// Delete removes a product. Returns false if it did not exist.
func (r *memoryProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Count returns the number of stored products.
func (r *memoryProductRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.products), nil
}
