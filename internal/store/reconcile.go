package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/i474232898/soil-health-map/internal/soil"
)

// ReconcileStatuses re-bands the stored N/P/K statuses of every soil record
// from its averages and returns the number of rows changed.
func (s *PostgresStore) ReconcileStatuses(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nitrogen_avg, phosphorus_avg, potassium_avg,
		       nitrogen_status, phosphorus_status, potassium_status
		FROM soil_health_data`)
	if err != nil {
		return 0, fmt.Errorf("query soil statuses: %w", err)
	}

	type pending struct {
		id    int64
		bands soil.Bands
	}
	var updates []pending

	for rows.Next() {
		var (
			id                        int64
			n, p, k                   sql.NullFloat64
			nStatus, pStatus, kStatus sql.NullString
		)
		if err := rows.Scan(&id, &n, &p, &k, &nStatus, &pStatus, &kStatus); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan soil status: %w", err)
		}

		rec := SoilRecord{
			NitrogenStatus:   soil.Band(nStatus.String),
			PhosphorusStatus: soil.Band(pStatus.String),
			PotassiumStatus:  soil.Band(kStatus.String),
		}
		if n.Valid {
			rec.Nitrogen = floatPtr(n.Float64)
		}
		if p.Valid {
			rec.Phosphorus = floatPtr(p.Float64)
		}
		if k.Valid {
			rec.Potassium = floatPtr(k.Float64)
		}
		if rebandRecord(&rec) {
			updates = append(updates, pending{id: id, bands: soil.Bands{
				N: rec.NitrogenStatus,
				P: rec.PhosphorusStatus,
				K: rec.PotassiumStatus,
			}})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	for _, u := range updates {
		if _, err := s.db.ExecContext(ctx, `
			UPDATE soil_health_data
			SET nitrogen_status = $1, phosphorus_status = $2, potassium_status = $3,
			    last_updated = CURRENT_TIMESTAMP
			WHERE id = $4`,
			nullString(string(u.bands.N)), nullString(string(u.bands.P)), nullString(string(u.bands.K)), u.id); err != nil {
			return 0, fmt.Errorf("update soil status %d: %w", u.id, err)
		}
	}
	return len(updates), nil
}
