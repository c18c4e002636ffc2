// Package listview filters the catalog collections behind the list screens.
package listview

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/shopspring/decimal"
)

// All is the facet value that places no constraint.
const All = "all"

type ViewMode string

const (
	ViewTable ViewMode = "table"
	ViewCards ViewMode = "cards"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(s)) {
	case "", ViewTable:
		return ViewTable, nil
	case ViewCards:
		return ViewCards, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}

// Filter is the state of a list screen: a free-text query plus one selection
// per facet. A missing facet is the same as All.
type Filter struct {
	Query  string
	Facets map[string]string
}

// FilterFromQuery reads the query and the named facets from URL parameters.
func FilterFromQuery(values url.Values, facets ...string) Filter {
	f := Filter{Query: values.Get("q"), Facets: make(map[string]string, len(facets))}
	for _, name := range facets {
		if v := values.Get(name); v != "" {
			f.Facets[name] = v
		}
	}
	return f
}

func (f Filter) facet(name string) string {
	v, ok := f.Facets[name]
	if !ok || v == "" {
		return All
	}
	return v
}

func (f Filter) matchesText(fields ...string) bool {
	q := strings.ToLower(f.Query)
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (f Filter) matchesFacet(name, value string) bool {
	sel := f.facet(name)
	return sel == All || sel == value
}

// Apply keeps the items accepted by match, preserving order. The result is
// never nil.
func Apply[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Vendors matches the query against name and email.
func Vendors(vendors []models.Vendor, f Filter) []models.Vendor {
	return Apply(vendors, func(v models.Vendor) bool {
		return f.matchesText(v.Name, v.Email) && f.matchesFacet("status", string(v.Status))
	})
}

// Products matches the query against name and SKU; facets are category and status.
func Products(products []models.ProductSummary, f Filter) []models.ProductSummary {
	return Apply(products, func(p models.ProductSummary) bool {
		return f.matchesText(p.Name, p.SKU) &&
			f.matchesFacet("category", p.Category) &&
			f.matchesFacet("status", string(p.Status))
	})
}

// Orders matches the query against order id and vendor name; facets are
// status and vendor (by id).
func Orders(orders []models.PurchaseOrder, f Filter) []models.PurchaseOrder {
	return Apply(orders, func(o models.PurchaseOrder) bool {
		return f.matchesText(o.ID, o.VendorName) &&
			f.matchesFacet("status", string(o.Status)) &&
			f.matchesFacet("vendor", o.VendorID)
	})
}

// VendorOrders is the vendor-side order list: the query matches the order id only.
func VendorOrders(orders []models.PurchaseOrder, f Filter) []models.PurchaseOrder {
	return Apply(orders, func(o models.PurchaseOrder) bool {
		return f.matchesText(o.ID) && f.matchesFacet("status", string(o.Status))
	})
}

type OrderSummary struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
	Pending    int             `json:"pending"`
	Shipped    int             `json:"shipped"`
	Delivered  int             `json:"delivered"`
}

func SummarizeOrders(orders []models.PurchaseOrder) OrderSummary {
	s := OrderSummary{Count: len(orders), TotalValue: decimal.Zero}
	for _, o := range orders {
		s.TotalValue = s.TotalValue.Add(o.TotalAmount)
		switch o.Status {
		case models.OrderStatusPending:
			s.Pending++
		case models.OrderStatusShipped:
			s.Shipped++
		case models.OrderStatusDelivered:
			s.Delivered++
		}
	}
	s.TotalValue = s.TotalValue.Round(2)
	return s
}
