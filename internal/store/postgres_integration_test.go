//go:build integration

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := runMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func runMigrations(db *sql.DB) error {
	migrationDir := "../../migrations"
	files, err := os.ReadDir(migrationDir)
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		content, err := os.ReadFile(filepath.Join(migrationDir, filename))
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", filename, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return nil
}

// The SQL seed and the embedded YAML seed describe the same catalog.
func TestPostgresStoreMatchesSeed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	pg := NewPostgresStore(db)
	mem := newTestStore(t)

	pgVendors, err := pg.ListVendors(ctx)
	require.NoError(t, err)
	memVendors, err := mem.ListVendors(ctx)
	require.NoError(t, err)
	require.Len(t, pgVendors, len(memVendors))
	for i := range memVendors {
		assert.Equal(t, memVendors[i].Name, pgVendors[i].Name)
		assert.Equal(t, memVendors[i].Status, pgVendors[i].Status)
	}

	pgProducts, err := pg.ListProducts(ctx)
	require.NoError(t, err)
	memProducts, err := mem.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, pgProducts, len(memProducts))
	for i := range memProducts {
		want := models.Summarize(memProducts[i], 50)
		got := models.Summarize(pgProducts[i], 50)
		assert.Equal(t, want.TotalStock, got.TotalStock, want.ID)
		assert.True(t, want.LowestPrice.Equal(got.LowestPrice), want.ID)
	}

	pgOrders, err := pg.ListOrders(ctx)
	require.NoError(t, err)
	memOrders, err := mem.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, pgOrders, len(memOrders))
	for i := range memOrders {
		assert.True(t, memOrders[i].TotalAmount.Equal(pgOrders[i].TotalAmount), memOrders[i].ID)
		assert.Equal(t, memOrders[i].VendorName, pgOrders[i].VendorName)
	}

	catalog, err := pg.VendorCatalog(ctx, "1")
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, "P001", catalog[0].ProductID)
}

func TestPostgresStoreAdvanceOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	pg := NewPostgresStore(db)

	order, err := pg.AdvanceOrder(ctx, "PO-004", models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, 2, order.Version)

	_, err = pg.AdvanceOrder(ctx, "PO-004", models.OrderStatusDelivered)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = pg.AdvanceOrder(ctx, "PO-003", models.OrderStatusDelivered)
	assert.ErrorIs(t, err, models.ErrOrderFinal)

	_, err = pg.GetOrder(ctx, "PO-404")
	assert.ErrorIs(t, err, database.ErrOrderNotFound)
}

func TestPostgresStoreConcurrentAdvance(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	pg := NewPostgresStore(db)

	concurrency := 5
	var wg sync.WaitGroup
	results := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pg.AdvanceOrder(ctx, "PO-002", models.OrderStatusShipped)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successCount := 0
	for err := range results {
		if err == nil {
			successCount++
		}
	}
	assert.Equal(t, 1, successCount)

	order, err := pg.GetOrder(ctx, "PO-002")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.Equal(t, 2, order.Version)
}
