package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/safar/vendor-portal/internal/auth"
	"github.com/safar/vendor-portal/internal/dashboard"
	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/listview"
	"github.com/safar/vendor-portal/internal/models"
)

// visibleOrders returns the orders a vendor session may see: its own when the
// session is bound to a vendor, every order otherwise.
func (s *Server) visibleOrders(ctx context.Context, session *auth.Session) ([]models.PurchaseOrder, error) {
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if session.VendorID == "" {
		return orders, nil
	}
	return listview.Apply(orders, func(o models.PurchaseOrder) bool {
		return o.VendorID == session.VendorID
	}), nil
}

func (s *Server) visibleOrder(ctx context.Context, session *auth.Session, id string) (*models.PurchaseOrder, error) {
	order, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.VendorID != "" && order.VendorID != session.VendorID {
		return nil, database.ErrOrderNotFound
	}
	return order, nil
}

func (s *Server) handleVendorDashboard(w http.ResponseWriter, r *http.Request) {
	if !methodGet(w, r) {
		return
	}
	session, _ := sessionFrom(r.Context())

	orders, err := s.visibleOrders(r.Context(), session)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	s.render(w, r, http.StatusOK, dashboard.ForVendor(orders), nil)
}

func (s *Server) handleVendorOrders(w http.ResponseWriter, r *http.Request) {
	if !methodGet(w, r) {
		return
	}
	session, _ := sessionFrom(r.Context())

	orders, err := s.visibleOrders(r.Context(), session)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	f := listview.FilterFromQuery(r.URL.Query(), "status")
	filtered := listview.VendorOrders(orders, f)
	writeList(s, w, r, f, filtered, listview.OrderSheet, listview.SummarizeOrders(filtered))
}

// handleVendorOrderByID serves GET /vendor/orders/{id} and
// POST /vendor/orders/{id}/advance.
func (s *Server) handleVendorOrderByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/vendor/orders/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		respondError(w, http.StatusNotFound, "Page not found")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.vendorOrderDetail(w, r, id)
	case action == "advance" && r.Method == http.MethodPost:
		s.advanceOrder(w, r, id)
	case action == "" || action == "advance":
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		respondError(w, http.StatusNotFound, "Page not found")
	}
}

func (s *Server) vendorOrderDetail(w http.ResponseWriter, r *http.Request, id string) {
	session, _ := sessionFrom(r.Context())

	order, err := s.visibleOrder(r.Context(), session, id)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	s.render(w, r, http.StatusOK, detailOf(order), nil)
}

// advanceOrder moves an order one step forward. A body naming the target
// status is checked against the allowed step.
func (s *Server) advanceOrder(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	session, _ := sessionFrom(ctx)

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := s.visibleOrder(ctx, session, id)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	var to models.OrderStatus
	if req.Status != "" {
		to, err = models.ParseOrderStatus(strings.ToLower(req.Status))
	} else {
		to, err = order.Status.Next()
	}
	if err != nil {
		writeError(w, err, nil)
		return
	}

	updated, err := s.Store.AdvanceOrder(ctx, id, to)
	if err != nil {
		writeError(w, err, models.Failure("Order not updated", err.Error()))
		return
	}
	s.Metrics.StatusTransitions.WithLabelValues(string(to)).Inc()

	s.render(w, r, http.StatusOK, detailOf(updated), models.Success(
		"Order Updated",
		fmt.Sprintf("Order %s has been marked as %s.", updated.ID, statusLabel(to)),
	))
}

func statusLabel(s models.OrderStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
