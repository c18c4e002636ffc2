package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safar/vendor-portal/internal/auth"
	"github.com/safar/vendor-portal/internal/config"
	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/forms"
	"github.com/safar/vendor-portal/internal/metrics"
	"github.com/safar/vendor-portal/internal/orderbuilder"
	"github.com/safar/vendor-portal/internal/server"
	"github.com/safar/vendor-portal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, closeCatalog, err := openCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("Open catalog: %v", err)
	}
	defer closeCatalog()

	builder := orderbuilder.New(catalog, cfg.Orders.SubmitDelay)
	srv := server.New(cfg.Server, server.Deps{
		Store:             catalog,
		Sessions:          auth.NewManager(cfg.Auth, catalog, builder.Discard),
		Builder:           builder,
		Forms:             forms.NewService(catalog, cfg.Orders.SubmitDelay),
		Metrics:           metrics.NewRegistry(),
		LowStockThreshold: cfg.Catalog.LowStockThreshold,
	})

	if err := srv.Start(); err != nil {
		log.Fatalf("Start server: %v", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}

// openCatalog returns the configured store and a function releasing it.
func openCatalog(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Catalog.Backend {
	case config.CatalogPostgres:
		db, err := database.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to database successfully")
		return store.NewPostgresStore(db), func() { db.Close() }, nil

	default:
		seed, err := store.DefaultSeed()
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Serving embedded catalog: %d vendors, %d products, %d orders",
			len(seed.Vendors), len(seed.Products), len(seed.Orders))
		return store.NewMemoryStore(seed), func() {}, nil
	}
}
