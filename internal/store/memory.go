package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/models"
)

// MemoryStore serves the catalog from process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	vendors  []models.Vendor
	products []models.Product
	orders   []models.PurchaseOrder
}

func NewMemoryStore(seed *Seed) *MemoryStore {
	s := &MemoryStore{
		vendors:  append([]models.Vendor(nil), seed.Vendors...),
		products: make([]models.Product, 0, len(seed.Products)),
		orders:   make([]models.PurchaseOrder, 0, len(seed.Orders)),
	}
	for _, p := range seed.Products {
		s.products = append(s.products, copyProduct(p))
	}
	for _, o := range seed.Orders {
		s.orders = append(s.orders, copyOrder(o))
	}
	return s
}

func (s *MemoryStore) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Vendor(nil), s.vendors...), nil
}

func (s *MemoryStore) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vendors {
		if v.ID == id {
			v := v
			return &v, nil
		}
	}
	return nil, database.ErrVendorNotFound
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func (s *MemoryStore) VendorCatalog(ctx context.Context, vendorID string) ([]CatalogItem, error) {
	if _, err := s.GetVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalogFor(s.products, vendorID), nil
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PurchaseOrder, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, copyOrder(o))
	}
	return out, nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			o = copyOrder(o)
			return &o, nil
		}
	}
	return nil, database.ErrOrderNotFound
}

func (s *MemoryStore) AdvanceOrder(ctx context.Context, id string, to models.OrderStatus) (*models.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		o := &s.orders[i]
		if o.ID != id {
			continue
		}
		if err := models.CheckTransition(o.Status, to); err != nil {
			return nil, fmt.Errorf("advance order %s: %w", id, err)
		}
		o.Status = to
		o.Version++
		out := copyOrder(*o)
		return &out, nil
	}
	return nil, database.ErrOrderNotFound
}

func copyProduct(p models.Product) models.Product {
	p.Offers = append([]models.VendorOffer(nil), p.Offers...)
	return p
}

func copyOrder(o models.PurchaseOrder) models.PurchaseOrder {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}
