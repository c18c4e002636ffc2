// Package dashboard computes the landing screens of both roles from the catalog.
package dashboard

import (
	"sort"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/shopspring/decimal"
)

const recentLimit = 4

type Admin struct {
	VendorCount    int                    `json:"vendor_count"`
	ActiveVendors  int                    `json:"active_vendors"`
	ActiveProducts int                    `json:"active_products"`
	LowStock       int                    `json:"low_stock_products"`
	OrderCount     int                    `json:"order_count"`
	TotalValue     decimal.Decimal        `json:"total_value"`
	RecentVendors  []models.Vendor        `json:"recent_vendors"`
	RecentOrders   []models.PurchaseOrder `json:"recent_orders"`
}

// ForAdmin summarizes the whole catalog. Recent lists are newest first.
func ForAdmin(vendors []models.Vendor, products []models.ProductSummary, orders []models.PurchaseOrder) Admin {
	a := Admin{
		VendorCount: len(vendors),
		OrderCount:  len(orders),
		TotalValue:  decimal.Zero,
	}
	for _, v := range vendors {
		if v.Status == models.VendorStatusActive {
			a.ActiveVendors++
		}
	}
	for _, p := range products {
		switch p.Status {
		case models.ProductStatusActive:
			a.ActiveProducts++
		case models.ProductStatusLowStock:
			a.LowStock++
		}
	}
	for _, o := range orders {
		a.TotalValue = a.TotalValue.Add(o.TotalAmount)
	}
	a.TotalValue = a.TotalValue.Round(2)

	a.RecentVendors = append([]models.Vendor{}, vendors...)
	sort.SliceStable(a.RecentVendors, func(i, j int) bool {
		return a.RecentVendors[i].JoinDate.After(a.RecentVendors[j].JoinDate)
	})
	a.RecentVendors = a.RecentVendors[:min(recentLimit, len(a.RecentVendors))]

	a.RecentOrders = recentOrders(orders)
	return a
}

type Vendor struct {
	PendingOrders  int                    `json:"pending_orders"`
	TotalOrders    int                    `json:"total_orders"`
	ShippedOrders  int                    `json:"shipped_orders"`
	Revenue        decimal.Decimal        `json:"revenue"`
	AverageOrder   decimal.Decimal        `json:"average_order_value"`
	CompletionRate decimal.Decimal        `json:"completion_rate"`
	RecentOrders   []models.PurchaseOrder `json:"recent_orders"`
}

// ForVendor summarizes the orders visible to a vendor. Completion rate is the
// delivered share of all orders, as a percentage.
func ForVendor(orders []models.PurchaseOrder) Vendor {
	v := Vendor{
		TotalOrders:    len(orders),
		Revenue:        decimal.Zero,
		AverageOrder:   decimal.Zero,
		CompletionRate: decimal.Zero,
	}
	delivered := 0
	for _, o := range orders {
		v.Revenue = v.Revenue.Add(o.TotalAmount)
		switch o.Status {
		case models.OrderStatusPending:
			v.PendingOrders++
		case models.OrderStatusShipped:
			v.ShippedOrders++
		case models.OrderStatusDelivered:
			delivered++
		}
	}
	if n := decimal.NewFromInt(int64(len(orders))); len(orders) > 0 {
		v.AverageOrder = v.Revenue.Div(n).Round(2)
		v.CompletionRate = decimal.NewFromInt(int64(delivered * 100)).Div(n).Round(1)
	}
	v.Revenue = v.Revenue.Round(2)
	v.RecentOrders = recentOrders(orders)
	return v
}

func recentOrders(orders []models.PurchaseOrder) []models.PurchaseOrder {
	out := append([]models.PurchaseOrder{}, orders...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return out[:min(recentLimit, len(out))]
}
