package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"chatmart/internal/database"
	"chatmart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedProducts inserts the fixture catalog and returns the products with IDs.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) []model.Product {
	t.Helper()

	ctx := context.Background()

	products := []model.Product{
		{Name: "ข้าวหอมมะลิ 5kg", Price: decimal.RequireFromString("185.00"), Quantity: 20},
		{Name: "น้ำปลา", Price: decimal.RequireFromString("32.50"), Quantity: 50},
		{Name: "ไข่ไก่ 10 ฟอง", Price: decimal.RequireFromString("55.00"), Quantity: 1},
	}

	for i := range products {
		err := pool.QueryRow(ctx,
			"INSERT INTO products (product_name, price, quantity, image_url) VALUES ($1, $2, $3, $4) RETURNING product_id",
			products[i].Name, products[i].Price, products[i].Quantity, products[i].ImageURL,
		).Scan(&products[i].ID)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", products[i].Name, err)
		}
	}

	return products
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"payments", "order_items", "orders", "products", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// fakeLINE stands in for the messaging platform. It answers profile lookups
// for known tokens and records every push.
type fakeLINE struct {
	server *httptest.Server

	mu     sync.Mutex
	pushes []pushCall
	tokens map[string]model.Profile
}

type pushCall struct {
	To       string            `json:"to"`
	Messages []json.RawMessage `json:"messages"`
}

func newFakeLINE(t *testing.T) *fakeLINE {
	t.Helper()

	f := &fakeLINE{tokens: map[string]model.Profile{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/profile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		profile, ok := f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		f.mu.Unlock()
		if !ok {
			http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	})
	mux.HandleFunc("POST /v2/bot/message/push", func(w http.ResponseWriter, r *http.Request) {
		var call pushCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.pushes = append(f.pushes, call)
		f.mu.Unlock()
		w.Header().Set("X-Line-Request-Id", "req-it")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("POST /v2/bot/user/{userId}/richmenu/{richMenuId}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeLINE) allow(token string, profile model.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = profile
}

func (f *fakeLINE) pushed() []pushCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pushCall(nil), f.pushes...)
}

func (f *fakeLINE) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = nil
}
