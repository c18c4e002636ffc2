package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/orderbuilder"
)

const builderPath = "/admin/purchase-orders/create"

type builderView struct {
	Draft   orderbuilder.Summary `json:"draft"`
	Vendors []vendorOption       `json:"vendors"`
}

// handleBuilder shows the session's draft. DELETE discards it, as leaving the
// builder does.
func (s *Server) handleBuilder(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		vendors, err := s.vendorOptions(r)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		s.render(w, r, http.StatusOK, builderView{
			Draft:   s.Builder.View(session.ID),
			Vendors: vendors,
		}, nil)

	case http.MethodDelete:
		s.Builder.Discard(session.ID)
		redirect(w, "/admin/purchase-orders")

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleBuilderAction(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, builderPath+"/")

	switch {
	case action == "vendor" && r.Method == http.MethodPost:
		s.builderSelectVendor(w, r)
	case action == "lines" && r.Method == http.MethodPost:
		s.builderAddLine(w, r)
	case strings.HasPrefix(action, "lines/") && r.Method == http.MethodPut:
		s.builderSetQuantity(w, r, strings.TrimPrefix(action, "lines/"))
	case strings.HasPrefix(action, "lines/") && r.Method == http.MethodDelete:
		s.builderRemoveLine(w, r, strings.TrimPrefix(action, "lines/"))
	case action == "details" && r.Method == http.MethodPut:
		s.builderSetDetails(w, r)
	case action == "submit" && r.Method == http.MethodPost:
		s.builderSubmit(w, r)
	case action == "vendor", action == "lines", action == "details", action == "submit",
		strings.HasPrefix(action, "lines/"):
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		respondError(w, http.StatusNotFound, "Page not found")
	}
}

func (s *Server) builderSelectVendor(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var req struct {
		VendorID string `json:"vendor_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary, err := s.Builder.SelectVendor(r.Context(), session.ID, req.VendorID)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	s.render(w, r, http.StatusOK, summary, nil)
}

func (s *Server) builderAddLine(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary, err := s.Builder.Update(session.ID, func(d *orderbuilder.Draft) error {
		return d.AddLine(req.ProductID)
	})
	if err != nil {
		writeError(w, err, nil)
		return
	}
	s.render(w, r, http.StatusOK, summary, nil)
}

// quantityInput accepts the quantity as a JSON number or as the raw text of
// the input field.
func quantityInput(raw json.RawMessage) int {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	return orderbuilder.ParseQuantity(text)
}

func (s *Server) builderSetQuantity(w http.ResponseWriter, r *http.Request, productID string) {
	session, _ := sessionFrom(r.Context())

	var req struct {
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary, _ := s.Builder.Update(session.ID, func(d *orderbuilder.Draft) error {
		d.SetQuantity(productID, quantityInput(req.Quantity))
		return nil
	})
	s.render(w, r, http.StatusOK, summary, nil)
}

func (s *Server) builderRemoveLine(w http.ResponseWriter, r *http.Request, productID string) {
	session, _ := sessionFrom(r.Context())

	summary, _ := s.Builder.Update(session.ID, func(d *orderbuilder.Draft) error {
		d.RemoveLine(productID)
		return nil
	})
	s.render(w, r, http.StatusOK, summary, nil)
}

func (s *Server) builderSetDetails(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var req struct {
		OrderDate        string `json:"order_date"`
		ExpectedDelivery string `json:"expected_delivery"`
		Notes            string `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary, err := s.Builder.Update(session.ID, func(d *orderbuilder.Draft) error {
		return d.SetDetails(req.OrderDate, req.ExpectedDelivery, req.Notes)
	})
	if err != nil {
		writeError(w, err, nil)
		return
	}
	s.render(w, r, http.StatusOK, summary, nil)
}

func (s *Server) builderSubmit(w http.ResponseWriter, r *http.Request) {
	session, screen := sessionFrom(r.Context())

	sub, err := s.Builder.Submit(r.Context(), session.ID)
	if err != nil {
		var n *models.Notification
		if errors.Is(err, models.ErrValidation) {
			s.Metrics.SubmitRejected.Inc()
			n = models.Failure("Validation Error", "Please select a vendor and add at least one item.")
		}
		writeError(w, err, n)
		return
	}
	s.Metrics.OrdersSubmitted.Inc()

	respondJSON(w, http.StatusOK, view{
		Screen:       screen,
		Locale:       localeFor(r),
		Session:      session,
		Data:         sub,
		Notification: sub.Notification,
		Redirect:     "/admin/purchase-orders",
	})
}
