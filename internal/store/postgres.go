package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/i474232898/soil-health-map/internal/soil"
)

// DBConfig holds connection pool settings for Open.
type DBConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	PingTimeout  time.Duration
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("INFO: database connected")
	return db, nil
}

// PostgresStore reads and writes soil, map, dashboard and farmer data in a
// PostGIS-enabled PostgreSQL database.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresStore wraps db. Each query runs with the given timeout; zero
// means no per-query timeout.
func NewPostgresStore(db *sql.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

// Close closes the underlying pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// EstimateNutrient implements soil.Estimator: the most recent district
// average for n. A missing record or a NULL average is reported as absent.
func (s *PostgresStore) EstimateNutrient(ctx context.Context, loc soil.Location, n soil.Nutrient) (float64, bool, error) {
	column := n.Column()
	if column == "" {
		return 0, false, fmt.Errorf("unknown nutrient %q", n)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s_avg FROM soil_health_data
		WHERE district_name = $1 AND state_name = $2
		ORDER BY measurement_year DESC
		LIMIT 1`, column)

	var v sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, loc.District, loc.State).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("estimate %s for %s: %w", column, loc.Key(), err)
	}
	if !v.Valid {
		return 0, false, nil
	}
	return v.Float64, true, nil
}
