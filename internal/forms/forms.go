// Package forms validates the create-vendor and create-product forms. Accepted
// submissions are acknowledged but not retained.
package forms

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/mail"
	"strings"
	"time"

	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/simulate"
	"github.com/shopspring/decimal"
)

var Categories = []string{
	"Electronics",
	"Furniture",
	"Home & Garden",
	"Clothing",
	"Books",
	"Sports & Outdoors",
	"Automotive",
	"Health & Beauty",
}

func isCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

type VendorForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (f VendorForm) Validate() error {
	verr := &models.ValidationError{}
	if strings.TrimSpace(f.Name) == "" {
		verr.Add("name", "vendor name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		verr.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		verr.Add("email", "email is not a valid address")
	}
	if strings.TrimSpace(f.Phone) == "" {
		verr.Add("phone", "phone is required")
	}
	return verr.Err()
}

type ProductForm struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	SKU            string `json:"sku"`
	Price          string `json:"price"`
	VendorID       string `json:"vendor_id"`
	Specifications string `json:"specifications"`
	Warranty       string `json:"warranty"`
	Weight         string `json:"weight"`
	Dimensions     string `json:"dimensions"`
}

func (f ProductForm) Validate() error {
	verr := &models.ValidationError{}
	if strings.TrimSpace(f.Name) == "" {
		verr.Add("name", "product name is required")
	}
	if !isCategory(f.Category) {
		verr.Add("category", "select a category from the list")
	}
	if strings.TrimSpace(f.SKU) == "" {
		verr.Add("sku", "SKU is required")
	}
	if price, err := decimal.NewFromString(strings.TrimSpace(f.Price)); err != nil || !price.IsPositive() {
		verr.Add("price", "price must be a positive amount")
	}
	if f.Weight != "" {
		if w, err := decimal.NewFromString(f.Weight); err != nil || w.IsNegative() {
			verr.Add("weight", "weight must be a non-negative number")
		}
	}
	return verr.Err()
}

// GenerateSKU returns <first three letters of category, upper-cased>-<NNN>,
// or PRD-<NNN> when no category is chosen.
func GenerateSKU(category string, intN func(int) int) string {
	prefix := "PRD"
	if category != "" {
		r := []rune(category)
		if len(r) > 3 {
			r = r[:3]
		}
		prefix = strings.ToUpper(string(r))
	}
	return fmt.Sprintf("%s-%03d", prefix, intN(1000))
}

// VendorChecker reports whether a vendor exists.
type VendorChecker interface {
	GetVendor(ctx context.Context, id string) (*models.Vendor, error)
}

type Result struct {
	Notification *models.Notification `json:"notification"`
	Redirect     string               `json:"redirect"`
}

type Service struct {
	vendors VendorChecker
	delay   time.Duration
	intN    func(int) int
}

func NewService(vendors VendorChecker, delay time.Duration) *Service {
	return &Service{vendors: vendors, delay: delay, intN: rand.IntN}
}

func (s *Service) GenerateSKU(category string) string {
	return GenerateSKU(category, s.intN)
}

func (s *Service) CreateVendor(ctx context.Context, f VendorForm) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := simulate.Delay(ctx, s.delay); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return &Result{
		Notification: models.Success(
			"Vendor created successfully",
			fmt.Sprintf("%s has been added to the vendor list.", f.Name),
		),
		Redirect: "/admin/vendors",
	}, nil
}

func (s *Service) CreateProduct(ctx context.Context, f ProductForm) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.VendorID != "" {
		_, err := s.vendors.GetVendor(ctx, f.VendorID)
		switch {
		case errors.Is(err, database.ErrVendorNotFound):
			verr := &models.ValidationError{}
			verr.Add("vendor_id", "unknown vendor")
			return nil, verr
		case err != nil:
			return nil, fmt.Errorf("create product: %w", err)
		}
	}
	if err := simulate.Delay(ctx, s.delay); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &Result{
		Notification: models.Success(
			"Product created successfully",
			fmt.Sprintf("%s has been added to the product catalog.", f.Name),
		),
		Redirect: "/admin/products",
	}, nil
}
