package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
)

type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusInactive VendorStatus = "inactive"
)

type Vendor struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Email        string       `json:"email" yaml:"email"`
	Phone        string       `json:"phone" yaml:"phone"`
	Address      string       `json:"address" yaml:"address"`
	Status       VendorStatus `json:"status" yaml:"status"`
	ProductCount int          `json:"product_count" yaml:"product_count"`
	OrderCount   int          `json:"order_count" yaml:"order_count"`
	JoinDate     time.Time    `json:"join_date" yaml:"join_date"`
}

// VendorOffer is one vendor's price and stock for a product.
type VendorOffer struct {
	VendorID string          `json:"vendor_id" yaml:"vendor_id"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Stock    int             `json:"stock" yaml:"stock"`
}

type Product struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Category    string        `json:"category" yaml:"category"`
	SKU         string        `json:"sku" yaml:"sku"`
	Description string        `json:"description,omitempty" yaml:"description"`
	Offers      []VendorOffer `json:"offers" yaml:"offers"`
}

// Offer returns the offer the given vendor makes for p.
func (p Product) Offer(vendorID string) (VendorOffer, bool) {
	for _, o := range p.Offers {
		if o.VendorID == vendorID {
			return o, true
		}
	}
	return VendorOffer{}, false
}

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusLowStock   ProductStatus = "low-stock"
	ProductStatusOutOfStock ProductStatus = "out-of-stock"
)

// ProductSummary is a product with the aggregates derived from its offers.
type ProductSummary struct {
	Product
	TotalStock  int             `json:"total_stock"`
	LowestPrice decimal.Decimal `json:"lowest_price"`
	Status      ProductStatus   `json:"status"`
}

// Summarize derives total stock, lowest price and status from p's offers.
// A product without offers has zero stock and a zero lowest price.
func Summarize(p Product, lowStockThreshold int) ProductSummary {
	s := ProductSummary{Product: p}
	for i, o := range p.Offers {
		s.TotalStock += o.Stock
		if i == 0 || o.Price.LessThan(s.LowestPrice) {
			s.LowestPrice = o.Price
		}
	}

	switch {
	case s.TotalStock == 0:
		s.Status = ProductStatusOutOfStock
	case s.TotalStock < lowStockThreshold:
		s.Status = ProductStatusLowStock
	default:
		s.Status = ProductStatusActive
	}
	return s
}

func SummarizeAll(products []Product, lowStockThreshold int) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, Summarize(p, lowStockThreshold))
	}
	return out
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type OrderItem struct {
	ProductID   string          `json:"product_id" yaml:"product_id"`
	ProductName string          `json:"product_name" yaml:"product_name"`
	Quantity    int             `json:"quantity" yaml:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	Total       decimal.Decimal `json:"total" yaml:"-"`
}

type PurchaseOrder struct {
	ID               string          `json:"id" yaml:"id"`
	VendorID         string          `json:"vendor_id" yaml:"vendor_id"`
	VendorName       string          `json:"vendor_name" yaml:"-"`
	OrderDate        time.Time       `json:"order_date" yaml:"order_date"`
	ExpectedDelivery time.Time       `json:"expected_delivery" yaml:"expected_delivery"`
	Status           OrderStatus     `json:"status" yaml:"status"`
	Priority         Priority        `json:"priority" yaml:"priority"`
	Notes            string          `json:"notes,omitempty" yaml:"notes"`
	Items            []OrderItem     `json:"items" yaml:"items"`
	ItemCount        int             `json:"item_count" yaml:"-"`
	TotalAmount      decimal.Decimal `json:"total_amount" yaml:"-"`
	Version          int             `json:"version" yaml:"-"`
}

// Recompute fills the line totals, item count and total amount from the items.
func (o *PurchaseOrder) Recompute() {
	o.ItemCount = 0
	for i := range o.Items {
		o.Items[i].Total = o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(o.Items[i].Quantity)))
		o.ItemCount += o.Items[i].Quantity
	}
	o.TotalAmount = ComputeTotals(o.Items).Total
}
