package store

import (
	"time"

	"github.com/i474232898/soil-health-map/internal/soil"
)

// SampleState is a state row of the bootstrap data.
type SampleState struct {
	Name string
	Code string
}

// SampleCrop is a crop_recommendations row of the bootstrap data.
type SampleCrop struct {
	Name             string
	Type             string
	NitrogenMin      float64
	NitrogenMax      float64
	PhosphorusMin    float64
	PhosphorusMax    float64
	PotassiumMin     float64
	PotassiumMax     float64
	PHMin            float64
	PHMax            float64
	OrganicCarbonMin float64
	Season           string
	WaterRequirement string
}

// SampleYear and SampleSeason tag the bootstrap soil records.
const (
	SampleYear   = 2025
	SampleSeason = "Rabi"
)

var SampleStates = []SampleState{
	{"Delhi", "DL"},
	{"Haryana", "HR"},
	{"Punjab", "PB"},
	{"Uttar Pradesh", "UP"},
	{"Maharashtra", "MH"},
	{"Karnataka", "KA"},
	{"Tamil Nadu", "TN"},
	{"Gujarat", "GJ"},
	{"Rajasthan", "RJ"},
	{"West Bengal", "WB"},
}

var SampleDistricts = []District{
	{ID: 1, Name: "Delhi", State: "Delhi", Geometry: "POLYGON((77.05 28.38, 77.40 28.38, 77.40 28.88, 77.05 28.88, 77.05 28.38))"},
	{ID: 2, Name: "Gurugram", State: "Haryana", Geometry: "POLYGON((77.00 28.35, 77.15 28.35, 77.15 28.55, 77.00 28.55, 77.00 28.35))"},
	{ID: 3, Name: "Ludhiana", State: "Punjab", Geometry: "POLYGON((75.70 30.80, 75.95 30.80, 75.95 31.00, 75.70 31.00, 75.70 30.80))"},
}

// SampleRecords returns the bootstrap soil records, one per sample district.
// Statuses are left for the caller to band.
func SampleRecords() []SoilRecord {
	type averages struct {
		n, p, k, ph, oc float64
		samples         int
	}
	byDistrict := map[string]averages{
		"Delhi":    {110, 18, 140, 7.6, 0.55, 15234},
		"Gurugram": {320, 28, 290, 7.8, 0.62, 12876},
		"Ludhiana": {580, 22, 310, 7.4, 0.71, 18945},
	}

	now := time.Now().UTC()
	records := make([]SoilRecord, 0, len(SampleDistricts))
	for _, d := range SampleDistricts {
		a := byDistrict[d.Name]
		records = append(records, SoilRecord{
			DistrictID:    d.ID,
			District:      d.Name,
			State:         d.State,
			Nitrogen:      floatPtr(a.n),
			Phosphorus:    floatPtr(a.p),
			Potassium:     floatPtr(a.k),
			PH:            floatPtr(a.ph),
			OrganicCarbon: floatPtr(a.oc),
			Samples:       a.samples,
			Year:          SampleYear,
			Season:        SampleSeason,
			LastUpdated:   now,
		})
	}
	return records
}

var SampleCrops = []SampleCrop{
	{"Wheat", "Cereal", 280, 560, 10, 25, 110, 280, 6.0, 7.5, 0.5, "Rabi", "Medium"},
	{"Rice", "Cereal", 280, 560, 10, 25, 110, 280, 5.5, 7.0, 0.5, "Kharif", "High"},
	{"Maize", "Cereal", 280, 560, 10, 25, 110, 280, 5.5, 7.8, 0.5, "Kharif", "Medium"},
	{"Cotton", "Cash Crop", 280, 560, 15, 30, 150, 300, 7.0, 8.0, 0.5, "Kharif", "Medium"},
	{"Sugarcane", "Cash Crop", 350, 600, 20, 35, 200, 350, 6.0, 7.5, 0.75, "Annual", "High"},
	{"Mustard", "Oilseed", 200, 400, 10, 20, 100, 200, 6.0, 7.5, 0.4, "Rabi", "Low"},
	{"Tomato", "Vegetable", 250, 450, 15, 30, 150, 280, 6.0, 7.0, 0.5, "All", "Medium"},
	{"Potato", "Vegetable", 280, 500, 20, 35, 200, 350, 5.5, 6.5, 0.5, "Rabi", "Medium"},
	{"Groundnut", "Oilseed", 200, 350, 15, 25, 150, 250, 6.0, 7.0, 0.5, "Kharif", "Medium"},
	{"Onion", "Vegetable", 200, 400, 15, 30, 150, 280, 6.0, 7.5, 0.5, "All", "Medium"},
}

// SeedMemory loads the sample districts into s with statuses banded by the
// classifier.
func SeedMemory(s *MemoryStore) {
	for _, rec := range SampleRecords() {
		rebandRecord(&rec)
		s.SaveRecord(rec)
	}
}

// bands returns the classifier statuses for a record's averages, used when
// writing sample data to Postgres.
func bands(rec SoilRecord) soil.Bands {
	rebandRecord(&rec)
	return soil.Bands{N: rec.NitrogenStatus, P: rec.PhosphorusStatus, K: rec.PotassiumStatus}
}

func floatPtr(v float64) *float64 {
	return &v
}
