//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"chatmart/internal/config"
	"chatmart/internal/database"
)

// Applies the schema using the same DB_* environment as the API server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	if err := database.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Schema migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Schema applied to database: %s\n", dbName)
}
