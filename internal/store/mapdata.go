package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/i474232898/soil-health-map/internal/common"
)

const latestRecordFilter = `
	s.measurement_year = (
		SELECT MAX(measurement_year)
		FROM soil_health_data s2
		WHERE s2.district_id = d.id
	)`

// parseGeometry decodes a ST_AsGeoJSON document. An unparsable geometry is
// logged and reported as nil so the feature is still emitted.
func parseGeometry(raw sql.NullString, district string) orb.Geometry {
	if !raw.Valid {
		return nil
	}
	g, err := geojson.UnmarshalGeometry([]byte(raw.String))
	if err != nil {
		log.Printf("WARN: store: failed to parse geometry for district %s: %v", district, err)
		return nil
	}
	return g.Geometry()
}

func nullFloat(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return 0
}

// DistrictFeatures returns every district joined with its most recent soil
// record as a GeoJSON FeatureCollection, optionally limited to one state.
func (s *PostgresStore) DistrictFeatures(ctx context.Context, state string) (*geojson.FeatureCollection, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			d.id, d.name, d.state_name, ST_AsGeoJSON(d.geom),
			s.nitrogen_avg, s.nitrogen_status,
			s.phosphorus_avg, s.phosphorus_status,
			s.potassium_avg, s.potassium_status,
			s.ph_avg, s.organic_carbon, s.samples_analyzed, s.measurement_year
		FROM districts d
		LEFT JOIN soil_health_data s ON d.id = s.district_id
		WHERE` + latestRecordFilter

	var args []any
	if state != "" {
		query += " AND d.state_name = $1"
		args = append(args, state)
	}
	query += " ORDER BY d.state_name, d.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query district features: %w", err)
	}
	defer rows.Close()

	fc := geojson.NewFeatureCollection()
	for rows.Next() {
		var (
			id                        int64
			name, stateName           string
			geom                      sql.NullString
			nAvg, pAvg, kAvg          sql.NullFloat64
			nStatus, pStatus, kStatus sql.NullString
			ph, oc                    sql.NullFloat64
			samples, year             sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &stateName, &geom,
			&nAvg, &nStatus, &pAvg, &pStatus, &kAvg, &kStatus,
			&ph, &oc, &samples, &year); err != nil {
			return nil, fmt.Errorf("scan district feature: %w", err)
		}

		f := geojson.NewFeature(parseGeometry(geom, name))
		f.Properties = geojson.Properties{
			"district_id":       id,
			"district_name":     name,
			"state_name":        stateName,
			"nitrogen_avg":      nullFloat(nAvg),
			"nitrogen_status":   nStatus.String,
			"phosphorus_avg":    nullFloat(pAvg),
			"phosphorus_status": pStatus.String,
			"potassium_avg":     nullFloat(kAvg),
			"potassium_status":  kStatus.String,
			"ph_avg":            nullFloat(ph),
			"organic_carbon":    nullFloat(oc),
			"samples_analyzed":  samples.Int64,
			"measurement_year":  year.Int64,
		}
		fc.Append(f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate district features: %w", err)
	}
	return fc, nil
}

// DistrictsInBound returns the districts whose geometry intersects b.
func (s *PostgresStore) DistrictsInBound(ctx context.Context, b orb.Bound) (*geojson.FeatureCollection, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, state_name, ST_AsGeoJSON(geom)
		FROM districts
		WHERE ST_Intersects(geom, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		ORDER BY state_name, name`,
		b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
	if err != nil {
		return nil, fmt.Errorf("query districts in bound: %w", err)
	}
	defer rows.Close()

	fc := geojson.NewFeatureCollection()
	for rows.Next() {
		var (
			name, state string
			geom        sql.NullString
		)
		if err := rows.Scan(&name, &state, &geom); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		f := geojson.NewFeature(parseGeometry(geom, name))
		f.Properties = geojson.Properties{"name": name, "state": state}
		fc.Append(f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fc, nil
}

// Nearest returns the district whose geometry is closest to the point.
func (s *PostgresStore) Nearest(ctx context.Context, p orb.Point) (NearestDistrict, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var nd NearestDistrict
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, state_name, ST_Y(ST_Centroid(geom)), ST_X(ST_Centroid(geom))
		FROM districts
		ORDER BY geom <-> ST_SetSRID(ST_Point($1, $2), 4326)
		LIMIT 1`, p.Lon(), p.Lat()).Scan(&nd.ID, &nd.Name, &nd.State, &nd.Lat, &nd.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return NearestDistrict{}, ErrNotFound
	}
	if err != nil {
		return NearestDistrict{}, fmt.Errorf("query nearest district: %w", err)
	}
	return nd, nil
}

// StateStats aggregates the latest soil records of a state's districts. It
// returns ErrNotFound when the state has no district with soil data.
func (s *PostgresStore) StateStats(ctx context.Context, state string) (StateStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			COUNT(DISTINCT d.id),
			AVG(s.nitrogen_avg), AVG(s.phosphorus_avg), AVG(s.potassium_avg),
			AVG(s.ph_avg), AVG(s.organic_carbon), SUM(s.samples_analyzed),
			COUNT(CASE WHEN s.nitrogen_status = 'Low' THEN 1 END),
			COUNT(CASE WHEN s.nitrogen_status = 'Medium' THEN 1 END),
			COUNT(CASE WHEN s.nitrogen_status = 'High' THEN 1 END),
			COUNT(CASE WHEN s.phosphorus_status = 'Low' THEN 1 END),
			COUNT(CASE WHEN s.phosphorus_status = 'Medium' THEN 1 END),
			COUNT(CASE WHEN s.phosphorus_status = 'High' THEN 1 END),
			COUNT(CASE WHEN s.potassium_status = 'Low' THEN 1 END),
			COUNT(CASE WHEN s.potassium_status = 'Medium' THEN 1 END),
			COUNT(CASE WHEN s.potassium_status = 'High' THEN 1 END)
		FROM districts d
		LEFT JOIN soil_health_data s ON d.id = s.district_id
		WHERE d.state_name = $1 AND` + latestRecordFilter

	var (
		st                  = StateStats{State: state}
		avgN, avgP, avgK    sql.NullFloat64
		avgPH, avgOC        sql.NullFloat64
		total               sql.NullInt64
		nDist, pDist, kDist BandCounts
	)
	err := s.db.QueryRowContext(ctx, query, state).Scan(
		&st.DistrictCount, &avgN, &avgP, &avgK, &avgPH, &avgOC, &total,
		&nDist.Low, &nDist.Medium, &nDist.High,
		&pDist.Low, &pDist.Medium, &pDist.High,
		&kDist.Low, &kDist.Medium, &kDist.High)
	if err != nil {
		return StateStats{}, fmt.Errorf("query state stats: %w", err)
	}
	if st.DistrictCount == 0 {
		return StateStats{}, ErrNotFound
	}

	st.AvgNitrogen = common.RoundHalfUp(nullFloat(avgN), 1)
	st.AvgPhosphorus = common.RoundHalfUp(nullFloat(avgP), 1)
	st.AvgPotassium = common.RoundHalfUp(nullFloat(avgK), 1)
	st.AvgPH = common.RoundHalfUp(nullFloat(avgPH), 1)
	st.AvgOrganicCarbon = common.RoundHalfUp(nullFloat(avgOC), 2)
	st.TotalSamples = total.Int64
	st.NPKDistribution = map[string]BandCounts{
		"nitrogen":   nDist,
		"phosphorus": pDist,
		"potassium":  kDist,
	}
	return st, nil
}

// DistrictBounds returns the envelope of a district.
func (s *PostgresStore) DistrictBounds(ctx context.Context, name, state string) (DistrictBounds, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var b orb.Bound
	err := s.db.QueryRowContext(ctx, `
		SELECT
			ST_XMin(ST_Envelope(geom)), ST_YMin(ST_Envelope(geom)),
			ST_XMax(ST_Envelope(geom)), ST_YMax(ST_Envelope(geom))
		FROM districts
		WHERE name = $1 AND state_name = $2`, name, state).
		Scan(&b.Min[0], &b.Min[1], &b.Max[0], &b.Max[1])
	if errors.Is(err, sql.ErrNoRows) {
		return DistrictBounds{}, ErrNotFound
	}
	if err != nil {
		return DistrictBounds{}, fmt.Errorf("query district bounds: %w", err)
	}

	center := b.Center()
	return DistrictBounds{
		MinLng:    b.Min.Lon(),
		MinLat:    b.Min.Lat(),
		MaxLng:    b.Max.Lon(),
		MaxLat:    b.Max.Lat(),
		CenterLng: center.Lon(),
		CenterLat: center.Lat(),
	}, nil
}

// States lists every state with its district count.
func (s *PostgresStore) States(ctx context.Context) ([]StateSummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT state_name, COUNT(id)
		FROM districts
		GROUP BY state_name
		ORDER BY state_name`)
	if err != nil {
		return nil, fmt.Errorf("query states: %w", err)
	}
	defer rows.Close()

	states := []StateSummary{}
	for rows.Next() {
		var st StateSummary
		if err := rows.Scan(&st.Name, &st.DistrictCount); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		states = append(states, st)
	}
	return states, rows.Err()
}
