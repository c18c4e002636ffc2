package store

import (
	_ "embed"
	"fmt"

	"github.com/safar/vendor-portal/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var defaultCatalog []byte

// Seed is the static catalog the dashboard ships with.
type Seed struct {
	Vendors  []models.Vendor        `yaml:"vendors"`
	Products []models.Product       `yaml:"products"`
	Orders   []models.PurchaseOrder `yaml:"purchase_orders"`
}

func DefaultSeed() (*Seed, error) {
	return LoadSeed(defaultCatalog)
}

// LoadSeed decodes a YAML catalog, checks its references and fills the
// derived order fields.
func LoadSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}

	vendors := make(map[string]string, len(seed.Vendors))
	for _, v := range seed.Vendors {
		if _, dup := vendors[v.ID]; dup {
			return nil, fmt.Errorf("duplicate vendor %q", v.ID)
		}
		vendors[v.ID] = v.Name
	}

	products := make(map[string]models.Product, len(seed.Products))
	for _, p := range seed.Products {
		if _, dup := products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product %q", p.ID)
		}
		for _, o := range p.Offers {
			if _, ok := vendors[o.VendorID]; !ok {
				return nil, fmt.Errorf("product %s: unknown vendor %q", p.ID, o.VendorID)
			}
		}
		products[p.ID] = p
	}

	for i := range seed.Orders {
		o := &seed.Orders[i]
		name, ok := vendors[o.VendorID]
		if !ok {
			return nil, fmt.Errorf("order %s: unknown vendor %q", o.ID, o.VendorID)
		}
		if _, err := models.ParseOrderStatus(string(o.Status)); err != nil {
			return nil, fmt.Errorf("order %s: %w", o.ID, err)
		}
		o.VendorName = name
		for j := range o.Items {
			p, ok := products[o.Items[j].ProductID]
			if !ok {
				return nil, fmt.Errorf("order %s: unknown product %q", o.ID, o.Items[j].ProductID)
			}
			if o.Items[j].ProductName == "" {
				o.Items[j].ProductName = p.Name
			}
		}
		o.Version = 1
		o.Recompute()
	}

	return &seed, nil
}
