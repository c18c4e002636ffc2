package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "")
	t.Setenv("AUTH_SIGNIN_DELAY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CatalogMemory, cfg.Catalog.Backend)
	assert.Equal(t, 50, cfg.Catalog.LowStockThreshold)
	assert.Equal(t, "password", cfg.Auth.DemoPassword)
	assert.Equal(t, time.Second, cfg.Auth.SignInDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Orders.SubmitDelay)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", CatalogPostgres)
	t.Setenv("AUTH_SIGNIN_DELAY", "0s")
	t.Setenv("PRODUCTS_LOW_STOCK_THRESHOLD", "10")
	t.Setenv("ORDERS_SUBMIT_DELAY", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CatalogPostgres, cfg.Catalog.Backend)
	assert.Equal(t, time.Duration(0), cfg.Auth.SignInDelay)
	assert.Equal(t, 10, cfg.Catalog.LowStockThreshold)
	assert.Equal(t, 1500*time.Millisecond, cfg.Orders.SubmitDelay)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "redis")

	_, err := Load()
	assert.Error(t, err)
}
