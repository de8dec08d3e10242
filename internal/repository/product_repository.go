package repository

import (
	"context"
	"errors"
	"fmt"

	"chatmart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository and InventoryLedger using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return newProductRepository(pool, logger)
}

// NewInventoryLedger returns the stock ledger backed by the products table.
func NewInventoryLedger(pool *pgxpool.Pool, logger zerolog.Logger) InventoryLedger {
	return newProductRepository(pool, logger)
}

func newProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) *productRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves every product ordered by ID.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT product_id, product_name, price, quantity, image_url
		FROM products
		ORDER BY product_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.ImageURL); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT product_id, product_name, price, quantity, image_url
		FROM products
		WHERE product_id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Create inserts a product and fills in its assigned ID.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (product_name, price, quantity, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING product_id
	`

	err := r.pool.QueryRow(ctx, query, product.Name, product.Price, product.Quantity, product.ImageURL).Scan(&product.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_name", product.Name).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// CreateBatch inserts products in one transaction using a pgx batch.
func (r *productRepository) CreateBatch(ctx context.Context, products []model.Product) (count int, err error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback product batch")
			}
		}
	}()

	query := `
		INSERT INTO products (product_name, price, quantity, image_url)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.Name, p.Price, p.Quantity, p.ImageURL)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range products {
		if _, err = results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().
				Err(err).
				Str("product_name", products[i].Name).
				Msg("failed to insert product")
			return 0, fmt.Errorf("failed to insert product %q: %w", products[i].Name, err)
		}
	}
	if err = results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit product batch: %w", err)
	}

	r.logger.Info().Int("count", len(products)).Msg("products imported")

	return len(products), nil
}

// Update overwrites the editable fields of a product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET product_name = $1, price = $2, quantity = $3, image_url = $4
		WHERE product_id = $5
	`

	tag, err := r.pool.Exec(ctx, query, product.Name, product.Price, product.Quantity, product.ImageURL, product.ID)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Delete removes a product. Past order items keep their snapshot.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Decrement subtracts quantity from stock within the provided transaction.
// There is no floor: the result may be negative.
func (r *productRepository) Decrement(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (int, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $1
		WHERE product_id = $2
		RETURNING quantity
	`

	var remaining int
	err := tx.QueryRow(ctx, query, quantity, productID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn().Int64("product_id", productID).Msg("decrement on unknown product")
			return 0, model.ErrProductNotFound
		}
		r.logger.Error().
			Err(err).
			Int64("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return remaining, nil
}
