package store

import (
	"context"
	"fmt"
	"log"
)

// Migration is a named schema change applied at most once.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the schema changes in application order.
var Migrations = []Migration{
	{
		Name: "001_enable_postgis",
		SQL:  `CREATE EXTENSION IF NOT EXISTS postgis`,
	},
	{
		Name: "002_create_states",
		SQL: `
		CREATE TABLE IF NOT EXISTS states (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			code VARCHAR(2) NOT NULL UNIQUE,
			geom geometry(MultiPolygon, 4326),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS states_geom_gix ON states USING GIST (geom)`,
	},
	{
		Name: "003_create_districts",
		SQL: `
		CREATE TABLE IF NOT EXISTS districts (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			state_id BIGINT REFERENCES states(id) ON DELETE CASCADE,
			state_name TEXT NOT NULL,
			geom geometry(MultiPolygon, 4326) NOT NULL,
			area_km2 DOUBLE PRECISION,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, state_name)
		);
		CREATE INDEX IF NOT EXISTS districts_geom_gix ON districts USING GIST (geom);
		CREATE INDEX IF NOT EXISTS districts_state_idx ON districts(state_id)`,
	},
	{
		Name: "004_create_soil_health_data",
		SQL: `
		CREATE TABLE IF NOT EXISTS soil_health_data (
			id BIGSERIAL PRIMARY KEY,
			district_id BIGINT REFERENCES districts(id) ON DELETE CASCADE,
			district_name TEXT NOT NULL,
			state_name TEXT NOT NULL,
			nitrogen_avg DOUBLE PRECISION,
			nitrogen_status VARCHAR(20),
			phosphorus_avg DOUBLE PRECISION,
			phosphorus_status VARCHAR(20),
			potassium_avg DOUBLE PRECISION,
			potassium_status VARCHAR(20),
			ph_avg DOUBLE PRECISION,
			organic_carbon DOUBLE PRECISION,
			ec_avg DOUBLE PRECISION,
			zinc_avg DOUBLE PRECISION,
			iron_avg DOUBLE PRECISION,
			copper_avg DOUBLE PRECISION,
			manganese_avg DOUBLE PRECISION,
			boron_avg DOUBLE PRECISION,
			sulphur_avg DOUBLE PRECISION,
			samples_analyzed INTEGER,
			measurement_year INTEGER,
			season VARCHAR(20),
			data_source TEXT,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(district_id, measurement_year, season)
		);
		CREATE INDEX IF NOT EXISTS soil_health_location_idx
			ON soil_health_data(district_name, state_name, measurement_year DESC)`,
	},
	{
		Name: "005_create_crop_recommendations",
		SQL: `
		CREATE TABLE IF NOT EXISTS crop_recommendations (
			id BIGSERIAL PRIMARY KEY,
			crop_name TEXT NOT NULL UNIQUE,
			crop_type VARCHAR(50),
			nitrogen_min DOUBLE PRECISION,
			nitrogen_max DOUBLE PRECISION,
			phosphorus_min DOUBLE PRECISION,
			phosphorus_max DOUBLE PRECISION,
			potassium_min DOUBLE PRECISION,
			potassium_max DOUBLE PRECISION,
			ph_min DOUBLE PRECISION,
			ph_max DOUBLE PRECISION,
			organic_carbon_min DOUBLE PRECISION,
			season VARCHAR(20),
			water_requirement VARCHAR(20),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		Name: "006_create_farmers",
		SQL: `
		CREATE TABLE IF NOT EXISTS farmers (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			postal_code VARCHAR(6) NOT NULL,
			district_id BIGINT REFERENCES districts(id) ON DELETE SET NULL,
			district_name TEXT,
			state_name TEXT,
			full_name TEXT,
			phone TEXT,
			last_login TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		Name: "007_create_saved_recommendations",
		SQL: `
		CREATE TABLE IF NOT EXISTS saved_recommendations (
			id UUID PRIMARY KEY,
			farmer_id BIGINT NOT NULL REFERENCES farmers(id) ON DELETE CASCADE,
			payload JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS saved_recommendations_farmer_idx ON saved_recommendations(farmer_id)`,
	},
}

// Migrate creates the migrations tracking table and applies every pending
// migration. It returns the names of the migrations it ran.
func (s *PostgresStore) Migrate(ctx context.Context) ([]string, error) {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []string
	for _, m := range Migrations {
		ran, err := s.runMigrationIfNotExists(ctx, m)
		if err != nil {
			return applied, fmt.Errorf("failed to run migration %s: %w", m.Name, err)
		}
		if ran {
			applied = append(applied, m.Name)
		}
	}
	return applied, nil
}

func (s *PostgresStore) runMigrationIfNotExists(ctx context.Context, m Migration) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE name = $1`, m.Name).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		log.Printf("DEBUG: migration %s already executed, skipping", m.Name)
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	log.Printf("INFO: running migration %s", m.Name)
	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// SeedSampleData loads the sample states, districts, soil records and crops
// when the districts table is empty. It reports whether data was loaded.
func (s *PostgresStore) SeedSampleData(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM districts`).Scan(&count); err != nil {
		return false, fmt.Errorf("count districts: %w", err)
	}
	if count > 0 {
		log.Println("INFO: sample data already present")
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, st := range SampleStates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO states (name, code) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			st.Name, st.Code); err != nil {
			return false, fmt.Errorf("insert state %s: %w", st.Name, err)
		}
	}

	districtIDs := make(map[string]int64, len(SampleDistricts))
	for _, d := range SampleDistricts {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO districts (name, state_id, state_name, geom)
			VALUES ($1, (SELECT id FROM states WHERE name = $2), $2, ST_Multi(ST_GeomFromText($3, 4326)))
			ON CONFLICT (name, state_name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
			RETURNING id`,
			d.Name, d.State, d.Geometry).Scan(&id)
		if err != nil {
			return false, fmt.Errorf("insert district %s: %w", d.Name, err)
		}
		districtIDs[d.Name] = id
	}

	for _, rec := range SampleRecords() {
		b := bands(rec)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO soil_health_data
				(district_id, district_name, state_name,
				 nitrogen_avg, phosphorus_avg, potassium_avg,
				 nitrogen_status, phosphorus_status, potassium_status,
				 ph_avg, organic_carbon, samples_analyzed, measurement_year, season)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (district_id, measurement_year, season) DO NOTHING`,
			districtIDs[rec.District], rec.District, rec.State,
			*rec.Nitrogen, *rec.Phosphorus, *rec.Potassium,
			string(b.N), string(b.P), string(b.K),
			*rec.PH, *rec.OrganicCarbon, rec.Samples, rec.Year, rec.Season); err != nil {
			return false, fmt.Errorf("insert soil data for %s: %w", rec.District, err)
		}
	}

	for _, c := range SampleCrops {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO crop_recommendations
				(crop_name, crop_type, nitrogen_min, nitrogen_max, phosphorus_min, phosphorus_max,
				 potassium_min, potassium_max, ph_min, ph_max, organic_carbon_min, season, water_requirement)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (crop_name) DO NOTHING`,
			c.Name, c.Type, c.NitrogenMin, c.NitrogenMax, c.PhosphorusMin, c.PhosphorusMax,
			c.PotassiumMin, c.PotassiumMax, c.PHMin, c.PHMax, c.OrganicCarbonMin, c.Season, c.WaterRequirement); err != nil {
			return false, fmt.Errorf("insert crop %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	log.Println("INFO: sample data loaded")
	return true, nil
}
