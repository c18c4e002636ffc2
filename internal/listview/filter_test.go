package listview

import (
	"net/url"
	"testing"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) *store.Seed {
	t.Helper()
	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	return seed
}

func TestEmptyFilterReturnsEverything(t *testing.T) {
	seed := seedCatalog(t)
	all := Filter{Facets: map[string]string{"status": All, "category": All, "vendor": All}}

	assert.Len(t, Vendors(seed.Vendors, all), len(seed.Vendors))
	assert.Len(t, Products(models.SummarizeAll(seed.Products, 50), all), len(seed.Products))
	assert.Len(t, Orders(seed.Orders, all), len(seed.Orders))
	assert.Len(t, VendorOrders(seed.Orders, Filter{}), len(seed.Orders))
}

func TestFilterIsSubset(t *testing.T) {
	seed := seedCatalog(t)
	products := models.SummarizeAll(seed.Products, 50)

	filters := []Filter{
		{Query: "DESK"},
		{Query: "ele", Facets: map[string]string{"category": "Electronics"}},
		{Facets: map[string]string{"status": "low-stock"}},
		{Query: "no such product"},
	}

	ids := make(map[string]bool)
	for _, p := range products {
		ids[p.ID] = true
	}
	for _, f := range filters {
		for _, p := range Products(products, f) {
			assert.True(t, ids[p.ID], "%s not in source", p.ID)
		}
	}
}

func TestProductsQueryMatchesNameOrSKU(t *testing.T) {
	products := []models.ProductSummary{
		{Product: models.Product{ID: "P1", Name: "Laptop Pro", SKU: "ELE-001", Category: "Electronics"}, Status: models.ProductStatusActive},
		{Product: models.Product{ID: "P2", Name: "Office Chair", SKU: "FUR-002", Category: "Furniture"}, Status: models.ProductStatusLowStock},
	}

	got := Products(products, Filter{Query: "fur"})
	require.Len(t, got, 1)
	assert.Equal(t, "P2", got[0].ID)

	got = Products(products, Filter{Query: "laptop"})
	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].ID)

	got = Products(products, Filter{Facets: map[string]string{"category": "Electronics", "status": "low-stock"}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestMatchingIsExact(t *testing.T) {
	products := []models.ProductSummary{
		{Product: models.Product{ID: "P1", Name: "Laptop Pro", SKU: "ELE-001", Category: "Electronics"}, Status: models.ProductStatusActive},
	}

	assert.Empty(t, Products(products, Filter{Facets: map[string]string{"category": "electronics"}}))
	assert.Empty(t, Products(products, Filter{Facets: map[string]string{"status": "ACTIVE"}}))
	assert.Empty(t, Products(products, Filter{Query: " laptop"}))
	assert.Len(t, Products(products, Filter{Query: "LAPTOP"}), 1)
	assert.Len(t, Products(products, Filter{Facets: map[string]string{"category": All}}), 1)
}

func TestOrdersFacets(t *testing.T) {
	orders := []models.PurchaseOrder{
		{ID: "PO-001", VendorID: "1", VendorName: "TechCorp Solutions", Status: models.OrderStatusShipped},
		{ID: "PO-002", VendorID: "2", VendorName: "Global Supplies Inc", Status: models.OrderStatusPending},
	}

	got := Orders(orders, Filter{Query: "global"})
	require.Len(t, got, 1)
	assert.Equal(t, "PO-002", got[0].ID)

	got = Orders(orders, Filter{Facets: map[string]string{"vendor": "1", "status": "shipped"}})
	require.Len(t, got, 1)
	assert.Equal(t, "PO-001", got[0].ID)

	assert.Empty(t, VendorOrders(orders, Filter{Query: "global"}))
}

func TestFilterFromQuery(t *testing.T) {
	values := url.Values{"q": {"lap"}, "category": {"Electronics"}, "status": {""}}
	f := FilterFromQuery(values, "category", "status")

	assert.Equal(t, "lap", f.Query)
	assert.Equal(t, "Electronics", f.facet("category"))
	assert.Equal(t, All, f.facet("status"))
}

func TestParseViewMode(t *testing.T) {
	m, err := ParseViewMode("")
	require.NoError(t, err)
	assert.Equal(t, ViewTable, m)

	m, err = ParseViewMode("Cards")
	require.NoError(t, err)
	assert.Equal(t, ViewCards, m)

	_, err = ParseViewMode("kanban")
	assert.Error(t, err)
}

func TestSummarizeOrders(t *testing.T) {
	seed := seedCatalog(t)
	s := SummarizeOrders(seed.Orders)

	assert.Equal(t, len(seed.Orders), s.Count)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Shipped)
	assert.Equal(t, 1, s.Delivered)
	assert.True(t, s.TotalValue.IsPositive())
}
