package main

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/i474232898/soil-health-map/internal/config"
	"github.com/i474232898/soil-health-map/internal/store"
)

func migrateCmd() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and load the sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg, !skipSeed)
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "apply the schema without loading sample data")
	return cmd
}

func runMigrate(ctx context.Context, cfg *config.AppConfig, seed bool) error {
	if cfg.Offline() {
		return errors.New("DATABASE_URL is required to migrate")
	}

	db, err := store.Open(ctx, store.DBConfig{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		PingTimeout:  cfg.QueryTimeout,
	})
	if err != nil {
		return err
	}
	pg := store.NewPostgresStore(db, cfg.QueryTimeout)
	defer pg.Close()

	applied, err := pg.Migrate(ctx)
	if err != nil {
		return err
	}
	log.Printf("INFO: %d migration(s) applied", len(applied))

	if !seed {
		return nil
	}
	if _, err := pg.SeedSampleData(ctx); err != nil {
		return err
	}
	return nil
}
