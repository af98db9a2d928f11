package main

import (
	"context"
	"log"

	"github.com/i474232898/soil-health-map/internal/config"
	"github.com/i474232898/soil-health-map/internal/soil"
	"github.com/i474232898/soil-health-map/internal/store"
)

// backend is the data layer selected by configuration: Postgres when a
// database is configured, the seeded in-memory store otherwise.
type backend struct {
	pg        *store.PostgresStore
	mem       *store.MemoryStore
	estimator soil.Estimator
}

func openBackend(ctx context.Context, cfg *config.AppConfig) (*backend, error) {
	if cfg.Offline() {
		log.Println("INFO: DATABASE_URL not set; running offline on sample data")
		mem := store.NewMemoryStore(cfg.StoreMaxHistory)
		store.SeedMemory(mem)
		return &backend{mem: mem, estimator: mem}, nil
	}

	db, err := store.Open(ctx, store.DBConfig{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		PingTimeout:  cfg.QueryTimeout,
	})
	if err != nil {
		return nil, err
	}
	pg := store.NewPostgresStore(db, cfg.QueryTimeout)

	// Datastore reads behind a circuit breaker; an open breaker falls back
	// to the global defaults immediately.
	guarded := store.NewGuardedEstimator(pg, store.DefaultBreakerConfig)
	return &backend{pg: pg, estimator: guarded}, nil
}

func (b *backend) recommender(cfg *config.AppConfig) (*soil.Service, error) {
	crops, err := soil.LoadCropTable(cfg.CropTablePath)
	if err != nil {
		return nil, err
	}
	return soil.NewService(b.estimator, crops), nil
}

func (b *backend) Close() {
	if b.pg != nil {
		if err := b.pg.Close(); err != nil {
			log.Printf("ERROR: closing database: %v", err)
		}
	}
}
