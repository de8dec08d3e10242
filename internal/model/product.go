package model

import "github.com/shopspring/decimal"

// Product represents a catalogue entry with its current stock.
type Product struct {
	ID       int64           `json:"product_id" db:"product_id"`
	Name     string          `json:"product_name" db:"product_name"`
	Price    decimal.Decimal `json:"price" db:"price"`
	Quantity int             `json:"quantity" db:"quantity"`
	ImageURL string          `json:"image_url" db:"image_url"`
}

// ProductInput carries the editable product fields for create and update.
type ProductInput struct {
	Name     string          `json:"product_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"image_url"`
}

// CatalogImportRequest names the gzipped CSV file to import.
type CatalogImportRequest struct {
	Path string `json:"path"`
}
