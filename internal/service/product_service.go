package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatmart/internal/model"
	"chatmart/internal/repository"

	"github.com/rs/zerolog"
)

// CatalogImporter bulk-loads products from a catalog file.
type CatalogImporter interface {
	Import(ctx context.Context, path string) (int, error)
}

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	importer    CatalogImporter
	logger      zerolog.Logger
}

// NewProductService creates a new product service. importer may be nil when
// catalog import is not configured.
func NewProductService(productRepo repository.ProductRepository, importer CatalogImporter, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		importer:    importer,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		s.logger.Warn().Int64("product_id", id).Msg("invalid product ID")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product := productFromInput(0, in)
	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_name", in.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("product_id", product.ID).Str("product_name", product.Name).Msg("product created")
	return product, nil
}

// Update overwrites the editable fields of a product.
func (s *productService) Update(ctx context.Context, id int64, in *model.ProductInput) (*model.Product, error) {
	if id <= 0 {
		return nil, model.ErrProductNotFound
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product := productFromInput(id, in)
	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return product, nil
}

// Delete removes a product. Past order items keep their name and price snapshot.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// Import bulk-loads a catalog file.
func (s *productService) Import(ctx context.Context, path string) (int, error) {
	if s.importer == nil {
		return 0, model.NewDomainError(model.ErrCodeInternalError, "catalog import is not configured")
	}

	n, err := s.importer.Import(ctx, path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("catalog import failed")
		return 0, err
	}
	return n, nil
}

func validateProductInput(in *model.ProductInput) error {
	if in == nil {
		return model.NewValidationError("product is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.NewValidationError("product_name is required")
	}
	if in.Price.IsNegative() {
		return model.NewValidationError("price must not be negative")
	}
	if in.Quantity < 0 {
		return model.NewValidationError("quantity must not be negative")
	}
	return nil
}

func productFromInput(id int64, in *model.ProductInput) *model.Product {
	return &model.Product{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Price:    in.Price,
		Quantity: in.Quantity,
		ImageURL: strings.TrimSpace(in.ImageURL),
	}
}
