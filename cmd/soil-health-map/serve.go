package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/soil-health-map/internal/api/http"
	"github.com/i474232898/soil-health-map/internal/auth"
	"github.com/i474232898/soil-health-map/internal/config"
	"github.com/i474232898/soil-health-map/internal/scheduler"
	"github.com/i474232898/soil-health-map/internal/store"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the status reconciliation job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP server port (overrides PORT)")
	return cmd
}

func runServe(parent context.Context, cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	recommender, err := b.recommender(cfg)
	if err != nil {
		return err
	}

	deps := httpapi.Dependencies{
		Recommender: recommender,
		Crops:       store.StaticCatalog{},
	}

	if b.pg != nil {
		deps.Crops = b.pg
		deps.Saved = b.pg
		deps.Map = b.pg
		deps.Dashboard = b.pg
		deps.Auth = auth.NewService(b.pg, newLocator(cfg, b.pg), auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL))

		// Scheduler that periodically re-bands stored soil records.
		sched := scheduler.New(b.pg, cfg.ReconcileInterval)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	app := httpapi.NewApp(httpapi.Options{
		AppName:      "soil-health-map",
		AllowOrigins: cfg.CORSAllowedOrigins,
		StaticDir:    cfg.StaticDir,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	httpapi.RegisterRoutes(app, deps)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}

// newLocator resolves postal codes with the geocoder when a key is
// configured, falling back to the static table.
func newLocator(cfg *config.AppConfig, pg *store.PostgresStore) auth.Locator {
	static := auth.NewStaticLocator(pg)
	if cfg.GeocoderAPIKey == "" {
		return static
	}
	return auth.NewGeocodeLocator(cfg.GeocoderAPIKey, pg, static)
}
