package catalog

import (
	"context"
	"fmt"
	"strings"

	"chatmart/internal/model"

	"github.com/rs/zerolog"
)

// ProductWriter persists imported products.
type ProductWriter interface {
	CreateBatch(ctx context.Context, products []model.Product) (int, error)
}

// Importer loads a catalog file and writes its products in one batch.
type Importer struct {
	loader Loader
	writer ProductWriter
	logger zerolog.Logger
}

// NewImporter creates an importer.
func NewImporter(loader Loader, writer ProductWriter, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		writer: writer,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads path and inserts every product. Either all rows are written or none.
func (i *Importer) Import(ctx context.Context, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, model.NewValidationError("path is required")
	}
	if strings.Contains(path, "..") {
		return 0, model.NewValidationError("path must not contain '..'")
	}

	products, err := i.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(products) == 0 {
		return 0, model.NewValidationError("catalog file has no products")
	}

	n, err := i.writer.CreateBatch(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	i.logger.Info().Str("path", path).Int("imported", n).Msg("catalog imported")

	return n, nil
}
