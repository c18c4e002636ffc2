// Package server exposes the portal screens as JSON over HTTP. Every screen
// path goes through the role guard before it reaches a handler.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/safar/vendor-portal/internal/auth"
	"github.com/safar/vendor-portal/internal/config"
	"github.com/safar/vendor-portal/internal/forms"
	"github.com/safar/vendor-portal/internal/metrics"
	"github.com/safar/vendor-portal/internal/orderbuilder"
	"github.com/safar/vendor-portal/internal/store"
)

type Deps struct {
	Store             store.Store
	Sessions          *auth.Manager
	Builder           *orderbuilder.Builder
	Forms             *forms.Service
	Metrics           *metrics.Registry
	LowStockThreshold int
}

type Server struct {
	Deps
	server *http.Server
}

func New(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{Deps: deps}
	s.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	screens := http.NewServeMux()
	screens.HandleFunc("/login", s.handleLogin)
	screens.HandleFunc("/admin", s.handleAdminDashboard)
	screens.HandleFunc("/admin/vendors", s.handleVendors)
	screens.HandleFunc("/admin/vendors/create", s.handleCreateVendor)
	screens.HandleFunc("/admin/products", s.handleProducts)
	screens.HandleFunc("/admin/products/create", s.handleCreateProduct)
	screens.HandleFunc("/admin/purchase-orders", s.handleOrders)
	screens.HandleFunc("/admin/purchase-orders/", s.handleOrderByID)
	screens.HandleFunc("/admin/purchase-orders/create", s.handleBuilder)
	screens.HandleFunc("/admin/purchase-orders/create/", s.handleBuilderAction)
	screens.HandleFunc("/vendor", s.handleVendorDashboard)
	screens.HandleFunc("/vendor/orders", s.handleVendorOrders)
	screens.HandleFunc("/vendor/orders/", s.handleVendorOrderByID)
	screens.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Page not found")
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.Metrics.Handler())
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/locale", s.handleLocale)
	mux.Handle("/", s.guard(screens))

	return s.logRequests(mux)
}

// Start serves in the background. Listen errors other than a clean shutdown
// are logged.
func (s *Server) Start() error {
	log.Printf("Server starting on %s", s.server.Addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("Shutting down server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.Sessions.Count(),
	})
}
