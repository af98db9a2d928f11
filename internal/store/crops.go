package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// formatRange renders "min-max", keeping one decimal on whole numbers
// ("280.0-560.0") the way the crop catalog has always been displayed.
func formatRange(lo, hi sql.NullFloat64) string {
	return formatBound(lo) + "-" + formatBound(hi)
}

func formatBound(v sql.NullFloat64) string {
	f := nullFloat(v)
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CropCatalog lists the crop reference rows ordered by type then name.
func (s *PostgresStore) CropCatalog(ctx context.Context) ([]CropInfo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			crop_name, crop_type, season,
			nitrogen_min, nitrogen_max,
			phosphorus_min, phosphorus_max,
			potassium_min, potassium_max,
			ph_min, ph_max,
			water_requirement
		FROM crop_recommendations
		ORDER BY crop_type, crop_name`)
	if err != nil {
		return nil, fmt.Errorf("query crop catalog: %w", err)
	}
	defer rows.Close()

	crops := []CropInfo{}
	for rows.Next() {
		var (
			c                CropInfo
			cropType, season sql.NullString
			water            sql.NullString
			nMin, nMax       sql.NullFloat64
			pMin, pMax       sql.NullFloat64
			kMin, kMax       sql.NullFloat64
			phMin, phMax     sql.NullFloat64
		)
		if err := rows.Scan(&c.Name, &cropType, &season,
			&nMin, &nMax, &pMin, &pMax, &kMin, &kMax, &phMin, &phMax, &water); err != nil {
			return nil, fmt.Errorf("scan crop: %w", err)
		}
		c.Type = cropType.String
		c.Season = season.String
		c.WaterRequirement = water.String
		c.NRange = formatRange(nMin, nMax)
		c.PRange = formatRange(pMin, pMax)
		c.KRange = formatRange(kMin, kMax)
		c.PHRange = formatRange(phMin, phMax)
		crops = append(crops, c)
	}
	return crops, rows.Err()
}

// SampleCatalog renders the bootstrap crops the way CropCatalog does, for
// offline mode.
func SampleCatalog() []CropInfo {
	valid := func(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

	crops := make([]CropInfo, 0, len(SampleCrops))
	for _, c := range SampleCrops {
		crops = append(crops, CropInfo{
			Name:             c.Name,
			Type:             c.Type,
			Season:           c.Season,
			NRange:           formatRange(valid(c.NitrogenMin), valid(c.NitrogenMax)),
			PRange:           formatRange(valid(c.PhosphorusMin), valid(c.PhosphorusMax)),
			KRange:           formatRange(valid(c.PotassiumMin), valid(c.PotassiumMax)),
			PHRange:          formatRange(valid(c.PHMin), valid(c.PHMax)),
			WaterRequirement: c.WaterRequirement,
		})
	}
	sort.SliceStable(crops, func(i, j int) bool {
		if crops[i].Type != crops[j].Type {
			return crops[i].Type < crops[j].Type
		}
		return crops[i].Name < crops[j].Name
	})
	return crops
}

// StaticCatalog serves the bootstrap crop catalog without a database.
type StaticCatalog struct{}

// CropCatalog implements the catalog lookup for offline mode.
func (StaticCatalog) CropCatalog(context.Context) ([]CropInfo, error) {
	return SampleCatalog(), nil
}
