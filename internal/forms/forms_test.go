package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	return NewService(store.NewMemoryStore(seed), 0)
}

func fields(t *testing.T, err error) []string {
	t.Helper()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	var out []string
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestGenerateSKU(t *testing.T) {
	seven := func(int) int { return 7 }
	assert.Equal(t, "ELE-007", GenerateSKU("Electronics", seven))
	assert.Equal(t, "HOM-007", GenerateSKU("Home & Garden", seven))
	assert.Equal(t, "PRD-007", GenerateSKU("", seven))

	s := newService(t)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, `^BOO-\d{3}$`, s.GenerateSKU("Books"))
	}
}

func TestCreateProduct(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	res, err := s.CreateProduct(ctx, ProductForm{
		Name:     "Desk Lamp",
		Category: "Furniture",
		SKU:      "FUR-123",
		Price:    "49.99",
		VendorID: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin/products", res.Redirect)
	assert.Equal(t, "Desk Lamp has been added to the product catalog.", res.Notification.Description)

	_, err = s.CreateProduct(ctx, ProductForm{Name: " ", Category: "Toys", Price: "0"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, []string{"name", "category", "sku", "price"}, fields(t, err))

	_, err = s.CreateProduct(ctx, ProductForm{Name: "Lamp", Category: "Books", SKU: "BOO-1", Price: "5", VendorID: "42"})
	assert.Equal(t, []string{"vendor_id"}, fields(t, err))
}

type failingVendors struct{ err error }

func (f failingVendors) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	return nil, f.err
}

func TestCreateProductVendorLookupFailure(t *testing.T) {
	down := errors.New("connection refused")
	s := NewService(failingVendors{err: down}, 0)

	_, err := s.CreateProduct(context.Background(), ProductForm{
		Name:     "Desk Lamp",
		Category: "Furniture",
		SKU:      "FUR-123",
		Price:    "49.99",
		VendorID: "2",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, models.ErrValidation)
}

func TestCreateVendor(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	res, err := s.CreateVendor(ctx, VendorForm{Name: "Acme", Email: "sales@acme.example", Phone: "+966 11 000 0000"})
	require.NoError(t, err)
	assert.Equal(t, "/admin/vendors", res.Redirect)
	assert.Equal(t, models.NotificationDefault, res.Notification.Variant)

	_, err = s.CreateVendor(ctx, VendorForm{Name: "Acme", Email: "not-an-email"})
	assert.Equal(t, []string{"email", "phone"}, fields(t, err))
}
