package store

import (
	"context"
	"sort"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/shopspring/decimal"
)

// Store is the read-mostly catalog behind every screen. The only write is the
// vendor-driven order status transition.
type Store interface {
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	GetVendor(ctx context.Context, id string) (*models.Vendor, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	VendorCatalog(ctx context.Context, vendorID string) ([]CatalogItem, error)
	ListOrders(ctx context.Context) ([]models.PurchaseOrder, error)
	GetOrder(ctx context.Context, id string) (*models.PurchaseOrder, error)
	AdvanceOrder(ctx context.Context, id string, to models.OrderStatus) (*models.PurchaseOrder, error)
}

// CatalogItem is a product as offered by one vendor.
type CatalogItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func catalogFor(products []models.Product, vendorID string) []CatalogItem {
	var items []CatalogItem
	for _, p := range products {
		offer, ok := p.Offer(vendorID)
		if !ok {
			continue
		}
		items = append(items, CatalogItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       offer.Price,
			Stock:       offer.Stock,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}
