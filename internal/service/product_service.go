package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"product-catalog/internal/model"
	"product-catalog/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const defaultQueryTimeout = 5 * time.Second

// Options configures a product service.
type Options struct {
	// BaseURL prefixes the links returned by MatchByNames.
	BaseURL string
	// QueryTimeout bounds every repository call.
	QueryTimeout time.Duration
}

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	validate     *validator.Validate
	baseURL      string
	queryTimeout time.Duration
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, opts Options, logger zerolog.Logger) ProductService {
	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &productService{
		productRepo:  productRepo,
		validate:     validator.New(),
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		queryTimeout: timeout,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves every product in creation order.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and stores a new product. Stock defaults to zero.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:  strings.TrimSpace(req.Name),
		Price: *req.Price,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("name", product.Name).
		Int("stock", product.Stock).
		Msg("product created")

	return product, nil
}

// MatchByNames resolves name fragments to product links. A product matching
// several fragments is listed once, at its first position in store order.
func (s *productService) MatchByNames(ctx context.Context, names []string) ([]model.ProductLink, error) {
	patterns, ok := BuildPatterns(names)
	if !ok {
		s.logger.Warn().Int("names", len(names)).Msg("invalid name list")
		return nil, model.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	products, err := s.productRepo.FindByNamePatterns(ctx, patterns)
	if err != nil {
		s.logger.Error().Err(err).Int("patterns", len(patterns)).Msg("failed to match products by name")
		return nil, fmt.Errorf("failed to match products: %w", err)
	}

	ids := newUniqueSequence(len(products))
	links := make([]model.ProductLink, 0, len(products))
	for _, p := range products {
		if !ids.Add(p.ID) {
			continue
		}
		link, err := s.productLink(p)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	s.logger.Debug().
		Int("requested", len(names)).
		Int("patterns", len(patterns)).
		Int("found", len(links)).
		Msg("matched products by name")

	return links, nil
}

// DecrementStock takes one unit out of a product's stock.
func (s *productService) DecrementStock(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	product, err := s.productRepo.DecrementStock(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) || errors.Is(err, model.ErrInsufficientStock) {
			s.logger.Debug().Err(err).Str("product_id", id).Msg("stock not decremented")
			return nil, err
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to decrement stock")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().
		Str("product_id", id).
		Int("stock", product.Stock).
		Msg("stock decremented")

	return product, nil
}

// Delete removes a product by ID.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")

	return nil
}

// Count returns the number of products in the catalogue.
func (s *productService) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	count, err := s.productRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// validateCreateRequest validates the create product request.
func (s *productService) validateCreateRequest(req *model.CreateProductRequest) error {
	if req == nil {
		return model.NewValidationError("request is required")
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				fields = append(fields, fieldErr.Field()+" failed on rule: "+fieldErr.Tag())
			}
			s.logger.Warn().Strs("errors", fields).Msg("invalid create product request")
			return model.NewValidationError(strings.Join(fields, "; "))
		}
		return model.NewValidationError(err.Error())
	}

	return nil
}

func (s *productService) productLink(p model.Product) (model.ProductLink, error) {
	link, err := url.JoinPath(s.baseURL, "product", p.ID)
	if err != nil {
		return model.ProductLink{}, fmt.Errorf("failed to build product link: %w", err)
	}

	return model.ProductLink{Name: p.Name, ID: p.ID, URL: link}, nil
}
