// Package orderbuilder assembles a purchase order draft against one vendor's
// catalog and submits it.
package orderbuilder

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/store"
	"github.com/shopspring/decimal"
)

var (
	ErrNoVendor           = errors.New("no vendor selected")
	ErrProductUnavailable = errors.New("product not in vendor catalog")
)

// Line is one product in a draft. UnitPrice is the vendor's price at the
// moment the line was added.
type Line struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

func (l *Line) setQuantity(q int) {
	l.Quantity = q
	l.Total = l.UnitPrice.Mul(decimal.NewFromInt(int64(q)))
}

// Draft is the working state of the order builder. Product ids are unique
// across Lines.
type Draft struct {
	VendorID         string
	VendorName       string
	OrderDate        time.Time
	ExpectedDelivery time.Time
	Notes            string
	Lines            []Line

	catalog []store.CatalogItem
}

// NewDraft returns an empty draft dated today.
func NewDraft(now time.Time) *Draft {
	y, m, d := now.Date()
	return &Draft{OrderDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// SelectVendor switches the draft to another vendor. Existing lines are
// dropped because their prices belonged to the previous vendor.
func (d *Draft) SelectVendor(v models.Vendor, catalog []store.CatalogItem) {
	d.VendorID = v.ID
	d.VendorName = v.Name
	d.catalog = append([]store.CatalogItem(nil), catalog...)
	d.Lines = nil
}

// Catalog is what the selected vendor offers.
func (d *Draft) Catalog() []store.CatalogItem {
	return append([]store.CatalogItem(nil), d.catalog...)
}

func (d *Draft) lineIndex(productID string) int {
	for i := range d.Lines {
		if d.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine adds one unit of a product from the vendor's catalog.
func (d *Draft) AddLine(productID string) error {
	if d.VendorID == "" {
		return ErrNoVendor
	}

	if i := d.lineIndex(productID); i >= 0 {
		d.Lines[i].setQuantity(d.Lines[i].Quantity + 1)
		return nil
	}

	for _, item := range d.catalog {
		if item.ProductID != productID {
			continue
		}
		line := Line{ProductID: item.ProductID, ProductName: item.ProductName, UnitPrice: item.Price}
		line.setQuantity(1)
		d.Lines = append(d.Lines, line)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrProductUnavailable, productID)
}

// SetQuantity sets a line's quantity. Zero or less removes the line. Setting
// a product that has no line is a no-op.
func (d *Draft) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		d.RemoveLine(productID)
		return
	}
	if i := d.lineIndex(productID); i >= 0 {
		d.Lines[i].setQuantity(quantity)
	}
}

func (d *Draft) RemoveLine(productID string) {
	if i := d.lineIndex(productID); i >= 0 {
		d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
	}
}

// ParseQuantity reads quantity input the way a number field does: the leading
// integer counts, anything unparseable is 0. Values past the int32 range are
// clamped to it.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || end == 0 && (c == '-' || c == '+') {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	switch {
	case errors.Is(err, strconv.ErrRange):
		if s[0] == '-' {
			return math.MinInt32
		}
		return math.MaxInt32
	case err != nil:
		return 0
	}
	return n
}

func (d *Draft) items() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		items = append(items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
		})
	}
	return items
}

func (d *Draft) Totals() models.Totals {
	return models.ComputeTotals(d.items())
}

// Summary is the draft as shown next to the builder form.
type Summary struct {
	VendorID         string              `json:"vendor_id,omitempty"`
	VendorName       string              `json:"vendor_name,omitempty"`
	OrderDate        string              `json:"order_date"`
	ExpectedDelivery string              `json:"expected_delivery,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	Lines            []Line              `json:"lines"`
	Catalog          []store.CatalogItem `json:"catalog"`
	ItemCount        int                 `json:"item_count"`
	TotalQuantity    int                 `json:"total_quantity"`
	Totals           models.Totals       `json:"totals"`
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func (d *Draft) Summary() Summary {
	s := Summary{
		VendorID:         d.VendorID,
		VendorName:       d.VendorName,
		OrderDate:        formatDate(d.OrderDate),
		ExpectedDelivery: formatDate(d.ExpectedDelivery),
		Notes:            d.Notes,
		Lines:            append([]Line{}, d.Lines...),
		Catalog:          append([]store.CatalogItem{}, d.catalog...),
		ItemCount:        len(d.Lines),
		Totals:           d.Totals().Rounded(),
	}
	for _, l := range d.Lines {
		s.TotalQuantity += l.Quantity
	}
	return s
}

// SetDetails parses and stores the order dates and notes. An empty
// orderDate keeps the current one; an empty expectedDelivery clears it.
func (d *Draft) SetDetails(orderDate, expectedDelivery, notes string) error {
	verr := &models.ValidationError{}

	if orderDate != "" {
		t, err := time.Parse(dateLayout, orderDate)
		if err != nil {
			verr.Add("order_date", "must be a date in YYYY-MM-DD form")
		} else {
			d.OrderDate = t
		}
	}

	if expectedDelivery == "" {
		d.ExpectedDelivery = time.Time{}
	} else if t, err := time.Parse(dateLayout, expectedDelivery); err != nil {
		verr.Add("expected_delivery", "must be a date in YYYY-MM-DD form")
	} else {
		d.ExpectedDelivery = t
	}

	d.Notes = notes
	return verr.Err()
}

// Validate reports why the draft cannot be submitted.
func (d *Draft) Validate() error {
	verr := &models.ValidationError{}
	if d.VendorID == "" {
		verr.Add("vendor_id", "select a vendor")
	}
	if len(d.Lines) == 0 {
		verr.Add("lines", "add at least one item")
	}
	if d.OrderDate.IsZero() {
		verr.Add("order_date", "order date is required")
	}
	return verr.Err()
}
