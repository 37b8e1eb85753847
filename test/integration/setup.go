package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Fixed IDs for the seeded catalogue so tests can address products directly.
var (
	HeadphonesID = uuid.MustParse("6f1c1f6e-0b8a-4df1-9a67-05cbb80a0101")
	JacketID     = uuid.MustParse("6f1c1f6e-0b8a-4df1-9a67-05cbb80a0102")
	KettleID     = uuid.MustParse("6f1c1f6e-0b8a-4df1-9a67-05cbb80a0103")
	NovelID      = uuid.MustParse("6f1c1f6e-0b8a-4df1-9a67-05cbb80a0104")
	YogaMatID    = uuid.MustParse("6f1c1f6e-0b8a-4df1-9a67-05cbb80a0105")

	SellerID = uuid.MustParse("6f1c1f6e-0b8a-4df1-9a67-05cbb80a0001")
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema
// migrations and returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.RunMigrations(connStr, "../../migrations", zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
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

// SeedProducts inserts the fixed test catalogue into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	discount := 149.99
	products := []struct {
		id            uuid.UUID
		name          string
		description   string
		price         float64
		discountPrice *float64
		category      string
		stock         int
	}{
		{HeadphonesID, "Wireless Headphones", "Noise cancelling over-ear headphones", 199.99, &discount, "Electronics", 10},
		{JacketID, "Denim Jacket", "Classic fit denim jacket", 89.99, nil, "Fashion", 5},
		{KettleID, "Electric Kettle", "1.7L fast boil kettle", 40.00, nil, "Home", 0},
		{NovelID, "Mystery Novel", "A page turner", 15.00, nil, "Books", 25},
		{YogaMatID, "Yoga Mat", "Non-slip exercise mat", 30.00, nil, "Sports", 8},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, description, price, discount_price, image, category, stock, rating, num_reviews, seller_id, is_active)
			 VALUES ($1, $2, $3, $4, $5, '', $6, $7, 0, 0, $8, TRUE)`,
			p.id, p.name, p.description, p.price, p.discountPrice, p.category, p.stock, SellerID,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.name, err)
		}
	}
}

// CleanupDB cleans all data from the storefront tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "cart_items", "carts", "product_reviews", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
