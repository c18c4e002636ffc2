package dashboard

import (
	"testing"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForAdmin(t *testing.T) {
	seed, err := store.DefaultSeed()
	require.NoError(t, err)

	a := ForAdmin(seed.Vendors, models.SummarizeAll(seed.Products, 50), seed.Orders)

	assert.Equal(t, 4, a.VendorCount)
	assert.Equal(t, 2, a.ActiveVendors)
	assert.Equal(t, 4, a.ActiveProducts)
	assert.Equal(t, 0, a.LowStock)
	assert.Equal(t, 4, a.OrderCount)

	want := decimal.Zero
	for _, o := range seed.Orders {
		want = want.Add(o.TotalAmount)
	}
	assert.True(t, a.TotalValue.Equal(want.Round(2)))

	require.Len(t, a.RecentVendors, 4)
	assert.Equal(t, "3", a.RecentVendors[0].ID)
	assert.Equal(t, "4", a.RecentVendors[3].ID)
	assert.Equal(t, "PO-004", a.RecentOrders[0].ID)
}

func TestForVendor(t *testing.T) {
	seed, err := store.DefaultSeed()
	require.NoError(t, err)

	v := ForVendor(seed.Orders)
	assert.Equal(t, 4, v.TotalOrders)
	assert.Equal(t, 1, v.PendingOrders)
	assert.Equal(t, 1, v.ShippedOrders)
	assert.Equal(t, "25", v.CompletionRate.String())

	revenue := decimal.Zero
	for _, o := range seed.Orders {
		revenue = revenue.Add(o.TotalAmount)
	}
	assert.True(t, v.Revenue.Equal(revenue.Round(2)))
	assert.True(t, v.AverageOrder.Equal(revenue.Div(decimal.NewFromInt(4)).Round(2)))
}

func TestForVendorWithoutOrders(t *testing.T) {
	v := ForVendor(nil)
	assert.Equal(t, 0, v.TotalOrders)
	assert.True(t, v.AverageOrder.IsZero())
	assert.True(t, v.CompletionRate.IsZero())
	assert.NotNil(t, v.RecentOrders)
}
