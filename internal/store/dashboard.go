package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/i474232898/soil-health-map/internal/common"
)

// trendYears is how many measurement years npkTrends covers.
const trendYears = 5

// DashboardMetrics are the headline numbers of the dashboard.
type DashboardMetrics struct {
	DistrictsCovered int     `json:"districtsCovered"`
	TotalSamples     int64   `json:"totalSamples"`
	AvgSoilHealth    float64 `json:"avgSoilHealth"`
	DistrictsGrowth  float64 `json:"districtsGrowth"`
	SamplesGrowth    float64 `json:"samplesGrowth"`
	FarmersBenefited float64 `json:"farmersBenefited"`
}

// NPKTrends holds yearly N/P/K averages, one entry per label.
type NPKTrends struct {
	Labels     []string  `json:"labels"`
	Nitrogen   []float64 `json:"nitrogen"`
	Phosphorus []float64 `json:"phosphorus"`
	Potassium  []float64 `json:"potassium"`
}

// StateDistribution is one state's share of the sampled districts.
type StateDistribution struct {
	State         string  `json:"state"`
	Districts     int     `json:"districts"`
	Samples       int64   `json:"samples"`
	AvgNitrogen   float64 `json:"avgNitrogen"`
	AvgPhosphorus float64 `json:"avgPhosphorus"`
	AvgPotassium  float64 `json:"avgPotassium"`
}

// DistrictSummary is one row of the dashboard district table and CSV export.
type DistrictSummary struct {
	DistrictName     string     `json:"districtName"`
	StateName        string     `json:"stateName"`
	Samples          int        `json:"samples"`
	NitrogenStatus   string     `json:"nitrogenStatus"`
	PhosphorusStatus string     `json:"phosphorusStatus"`
	PotassiumStatus  string     `json:"potassiumStatus"`
	PH               float64    `json:"ph"`
	OrganicCarbon    float64    `json:"organicCarbon"`
	LastUpdated      *time.Time `json:"lastUpdated"`
}

// DashboardSummary is the full dashboard payload.
type DashboardSummary struct {
	Metrics           DashboardMetrics    `json:"metrics"`
	NPKTrends         NPKTrends           `json:"npkTrends"`
	StateDistribution []StateDistribution `json:"stateDistribution"`
	DistrictSummary   []DistrictSummary   `json:"districtSummary"`
}

// stateFilter appends "AND <column> = $n" when state is set.
func stateFilter(column, state string, args []any) (string, []any) {
	if state == "" {
		return "", args
	}
	args = append(args, state)
	return fmt.Sprintf(" AND %s = $%d", column, len(args)), args
}

// GrowthPercent is the percent change from previous to current rounded to one
// decimal. It is 0 when there is no previous value to compare against.
func GrowthPercent(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return common.RoundHalfUp((current-previous)/previous*100, 1)
}

// Dashboard assembles the dashboard summary for a year, optionally limited to
// one state. The state distribution always covers every state.
func (s *PostgresStore) Dashboard(ctx context.Context, state string, year int) (DashboardSummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		summary DashboardSummary
		err     error
	)
	if summary.Metrics, err = s.metrics(ctx, state, year); err != nil {
		return DashboardSummary{}, err
	}
	if summary.NPKTrends, err = s.npkTrends(ctx, state, year); err != nil {
		return DashboardSummary{}, err
	}
	if summary.StateDistribution, err = s.stateDistribution(ctx, year); err != nil {
		return DashboardSummary{}, err
	}
	if summary.DistrictSummary, err = s.districtSummaries(ctx, state, year); err != nil {
		return DashboardSummary{}, err
	}
	return summary, nil
}

// DistrictSummaries returns the top districts by samples for a year.
func (s *PostgresStore) DistrictSummaries(ctx context.Context, state string, year int) ([]DistrictSummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.districtSummaries(ctx, state, year)
}

type yearTotals struct {
	districts int
	samples   int64
	health    float64
}

func (s *PostgresStore) totalsFor(ctx context.Context, state string, year int) (yearTotals, error) {
	args := []any{year}
	filter, args := stateFilter("d.state_name", state, args)

	query := `
		SELECT
			COUNT(DISTINCT d.id),
			SUM(s.samples_analyzed),
			AVG((CASE s.nitrogen_status WHEN 'Medium' THEN 5 WHEN 'High' THEN 8 ELSE 3 END +
			     CASE s.phosphorus_status WHEN 'Medium' THEN 5 WHEN 'High' THEN 8 ELSE 3 END +
			     CASE s.potassium_status WHEN 'Medium' THEN 5 WHEN 'High' THEN 8 ELSE 3 END) / 3.0)
		FROM districts d
		LEFT JOIN soil_health_data s ON d.id = s.district_id
		WHERE s.measurement_year = $1` + filter

	var (
		t       yearTotals
		samples sql.NullInt64
		health  sql.NullFloat64
	)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&t.districts, &samples, &health); err != nil {
		return yearTotals{}, fmt.Errorf("query dashboard metrics for %d: %w", year, err)
	}
	t.samples = samples.Int64
	t.health = nullFloat(health)
	return t, nil
}

func (s *PostgresStore) metrics(ctx context.Context, state string, year int) (DashboardMetrics, error) {
	current, err := s.totalsFor(ctx, state, year)
	if err != nil {
		return DashboardMetrics{}, err
	}
	previous, err := s.totalsFor(ctx, state, year-1)
	if err != nil {
		return DashboardMetrics{}, err
	}

	return DashboardMetrics{
		DistrictsCovered: current.districts,
		TotalSamples:     current.samples,
		AvgSoilHealth:    common.RoundHalfUp(current.health, 1),
		DistrictsGrowth:  GrowthPercent(float64(previous.districts), float64(current.districts)),
		SamplesGrowth:    GrowthPercent(float64(previous.samples), float64(current.samples)),
		FarmersBenefited: float64(current.samples) * 2.5,
	}, nil
}

func (s *PostgresStore) npkTrends(ctx context.Context, state string, year int) (NPKTrends, error) {
	args := []any{year - trendYears, year}
	filter, args := stateFilter("state_name", state, args)

	rows, err := s.db.QueryContext(ctx, `
		SELECT measurement_year, AVG(nitrogen_avg), AVG(phosphorus_avg), AVG(potassium_avg)
		FROM soil_health_data
		WHERE measurement_year > $1 AND measurement_year <= $2`+filter+`
		GROUP BY measurement_year
		ORDER BY measurement_year`, args...)
	if err != nil {
		return NPKTrends{}, fmt.Errorf("query npk trends: %w", err)
	}
	defer rows.Close()

	trends := NPKTrends{Labels: []string{}, Nitrogen: []float64{}, Phosphorus: []float64{}, Potassium: []float64{}}
	for rows.Next() {
		var (
			y       int
			n, p, k sql.NullFloat64
		)
		if err := rows.Scan(&y, &n, &p, &k); err != nil {
			return NPKTrends{}, fmt.Errorf("scan npk trend: %w", err)
		}
		trends.Labels = append(trends.Labels, strconv.Itoa(y))
		trends.Nitrogen = append(trends.Nitrogen, common.RoundHalfUp(nullFloat(n), 1))
		trends.Phosphorus = append(trends.Phosphorus, common.RoundHalfUp(nullFloat(p), 1))
		trends.Potassium = append(trends.Potassium, common.RoundHalfUp(nullFloat(k), 1))
	}
	return trends, rows.Err()
}

func (s *PostgresStore) stateDistribution(ctx context.Context, year int) ([]StateDistribution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			d.state_name,
			COUNT(DISTINCT d.id),
			SUM(s.samples_analyzed),
			AVG(s.nitrogen_avg), AVG(s.phosphorus_avg), AVG(s.potassium_avg)
		FROM districts d
		LEFT JOIN soil_health_data s ON d.id = s.district_id
		WHERE s.measurement_year = $1
		GROUP BY d.state_name
		ORDER BY SUM(s.samples_analyzed) DESC
		LIMIT 10`, year)
	if err != nil {
		return nil, fmt.Errorf("query state distribution: %w", err)
	}
	defer rows.Close()

	dist := []StateDistribution{}
	for rows.Next() {
		var (
			sd      StateDistribution
			samples sql.NullInt64
			n, p, k sql.NullFloat64
		)
		if err := rows.Scan(&sd.State, &sd.Districts, &samples, &n, &p, &k); err != nil {
			return nil, fmt.Errorf("scan state distribution: %w", err)
		}
		sd.Samples = samples.Int64
		sd.AvgNitrogen = nullFloat(n)
		sd.AvgPhosphorus = nullFloat(p)
		sd.AvgPotassium = nullFloat(k)
		dist = append(dist, sd)
	}
	return dist, rows.Err()
}

func (s *PostgresStore) districtSummaries(ctx context.Context, state string, year int) ([]DistrictSummary, error) {
	args := []any{year}
	filter, args := stateFilter("d.state_name", state, args)

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			d.name, d.state_name, s.samples_analyzed,
			s.nitrogen_status, s.phosphorus_status, s.potassium_status,
			s.ph_avg, s.organic_carbon, s.last_updated
		FROM districts d
		LEFT JOIN soil_health_data s ON d.id = s.district_id
		WHERE s.measurement_year = $1`+filter+`
		ORDER BY s.samples_analyzed DESC
		LIMIT 20`, args...)
	if err != nil {
		return nil, fmt.Errorf("query district summary: %w", err)
	}
	defer rows.Close()

	districts := []DistrictSummary{}
	for rows.Next() {
		var (
			ds                        DistrictSummary
			samples                   sql.NullInt64
			nStatus, pStatus, kStatus sql.NullString
			ph, oc                    sql.NullFloat64
			updated                   sql.NullTime
		)
		if err := rows.Scan(&ds.DistrictName, &ds.StateName, &samples,
			&nStatus, &pStatus, &kStatus, &ph, &oc, &updated); err != nil {
			return nil, fmt.Errorf("scan district summary: %w", err)
		}
		ds.Samples = int(samples.Int64)
		ds.NitrogenStatus = nStatus.String
		ds.PhosphorusStatus = pStatus.String
		ds.PotassiumStatus = kStatus.String
		ds.PH = nullFloat(ph)
		ds.OrganicCarbon = nullFloat(oc)
		if updated.Valid {
			t := updated.Time
			ds.LastUpdated = &t
		}
		districts = append(districts, ds)
	}
	return districts, rows.Err()
}
