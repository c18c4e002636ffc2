package server

import (
	"net/http"
	"strings"

	"github.com/safar/vendor-portal/internal/dashboard"
	"github.com/safar/vendor-portal/internal/forms"
	"github.com/safar/vendor-portal/internal/listview"
	"github.com/safar/vendor-portal/internal/models"
)

func methodGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !methodGet(w, r) {
		return
	}
	ctx := r.Context()

	vendors, err := s.Store.ListVendors(ctx)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	products, err := s.Store.ListProducts(ctx)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	s.render(w, r, http.StatusOK,
		dashboard.ForAdmin(vendors, models.SummarizeAll(products, s.LowStockThreshold), orders), nil)
}

func (s *Server) handleVendors(w http.ResponseWriter, r *http.Request) {
	if !methodGet(w, r) {
		return
	}

	vendors, err := s.Store.ListVendors(r.Context())
	if err != nil {
		writeError(w, err, nil)
		return
	}

	f := listview.FilterFromQuery(r.URL.Query(), "status")
	writeList(s, w, r, f, listview.Vendors(vendors, f), listview.VendorSheet, nil)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if !methodGet(w, r) {
		return
	}

	products, err := s.Store.ListProducts(r.Context())
	if err != nil {
		writeError(w, err, nil)
		return
	}

	f := listview.FilterFromQuery(r.URL.Query(), "category", "status")
	summaries := models.SummarizeAll(products, s.LowStockThreshold)
	writeList(s, w, r, f, listview.Products(summaries, f), listview.ProductSheet, nil)
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if !methodGet(w, r) {
		return
	}

	orders, err := s.Store.ListOrders(r.Context())
	if err != nil {
		writeError(w, err, nil)
		return
	}

	f := listview.FilterFromQuery(r.URL.Query(), "status", "vendor")
	filtered := listview.Orders(orders, f)
	writeList(s, w, r, f, filtered, listview.OrderSheet, listview.SummarizeOrders(filtered))
}

type orderDetail struct {
	Order  *models.PurchaseOrder `json:"order"`
	Totals models.Totals         `json:"totals"`
}

func detailOf(o *models.PurchaseOrder) orderDetail {
	return orderDetail{Order: o, Totals: models.ComputeTotals(o.Items).Rounded()}
}

func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	if !methodGet(w, r) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/admin/purchase-orders/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusNotFound, "Page not found")
		return
	}

	order, err := s.Store.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	s.render(w, r, http.StatusOK, detailOf(order), nil)
}

type vendorOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) vendorOptions(r *http.Request) ([]vendorOption, error) {
	vendors, err := s.Store.ListVendors(r.Context())
	if err != nil {
		return nil, err
	}
	opts := make([]vendorOption, 0, len(vendors))
	for _, v := range vendors {
		opts = append(opts, vendorOption{ID: v.ID, Name: v.Name})
	}
	return opts, nil
}

func (s *Server) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, http.StatusOK, forms.VendorForm{}, nil)

	case http.MethodPost:
		var form forms.VendorForm
		if err := decodeBody(r, &form); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := s.Forms.CreateVendor(r.Context(), form)
		if err != nil {
			s.Metrics.FormsSubmitted.WithLabelValues("vendor", "rejected").Inc()
			writeError(w, err, models.Failure("Vendor not created", "Please correct the highlighted fields."))
			return
		}
		s.Metrics.FormsSubmitted.WithLabelValues("vendor", "ok").Inc()
		s.acknowledge(w, r, result)

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		vendors, err := s.vendorOptions(r)
		if err != nil {
			writeError(w, err, nil)
			return
		}

		data := map[string]any{
			"categories": forms.Categories,
			"vendors":    vendors,
		}
		if category := r.URL.Query().Get("category"); category != "" {
			data["sku"] = s.Forms.GenerateSKU(category)
		}
		s.render(w, r, http.StatusOK, data, nil)

	case http.MethodPost:
		var form forms.ProductForm
		if err := decodeBody(r, &form); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := s.Forms.CreateProduct(r.Context(), form)
		if err != nil {
			s.Metrics.FormsSubmitted.WithLabelValues("product", "rejected").Inc()
			writeError(w, err, models.Failure("Product not created", "Please correct the highlighted fields."))
			return
		}
		s.Metrics.FormsSubmitted.WithLabelValues("product", "ok").Inc()
		s.acknowledge(w, r, result)

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// acknowledge answers an accepted form: a notification plus the list to
// return to.
func (s *Server) acknowledge(w http.ResponseWriter, r *http.Request, result *forms.Result) {
	session, screen := sessionFrom(r.Context())
	respondJSON(w, http.StatusOK, view{
		Screen:       screen,
		Locale:       localeFor(r),
		Session:      session,
		Notification: result.Notification,
		Redirect:     result.Redirect,
	})
}
