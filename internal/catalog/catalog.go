// Package catalog bulk-imports products from gzipped CSV files stored on
// local disk or in S3.
//
// Each record is product_name,price,quantity[,image_url]. A first record
// whose first field is "product_name" is treated as a header.
package catalog

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chatmart/internal/model"

	"github.com/shopspring/decimal"
)

// Loader reads a catalog file and returns the products it describes.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// parseCatalog decodes a gzipped CSV stream.
func parseCatalog(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	reader := csv.NewReader(gz)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var products []model.Product
	for n := 0; ; n++ {
		if n%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}

		if n == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "product_name") {
			continue
		}

		product, err := parseRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, model.NewValidationError(fmt.Sprintf("catalog line %d: %v", line, err))
		}
		products = append(products, product)
	}

	return products, nil
}

func parseRecord(record []string) (model.Product, error) {
	if len(record) < 3 || len(record) > 4 {
		return model.Product{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(record))
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return model.Product{}, errors.New("product name is empty")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid price %q", record[1])
	}
	if price.IsNegative() {
		return model.Product{}, fmt.Errorf("negative price %s", price)
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid quantity %q", record[2])
	}

	p := model.Product{Name: name, Price: price, Quantity: quantity}
	if len(record) == 4 {
		p.ImageURL = strings.TrimSpace(record[3])
	}
	return p, nil
}
