package store

import (
	"time"

	"github.com/i474232898/soil-health-map/internal/soil"
)

// SoilRecord is one district's soil health aggregate for a measurement year
// and season. Nil averages mean the survey did not report the nutrient.
type SoilRecord struct {
	DistrictID int64
	District   string
	State      string

	Nitrogen   *float64
	Phosphorus *float64
	Potassium  *float64

	NitrogenStatus   soil.Band
	PhosphorusStatus soil.Band
	PotassiumStatus  soil.Band

	PH            *float64
	OrganicCarbon *float64
	Samples       int
	Year          int
	Season        string
	LastUpdated   time.Time
}

// Location returns the district/state pair the record belongs to.
func (r SoilRecord) Location() soil.Location {
	return soil.Location{District: r.District, State: r.State}
}

// Value returns the average for n and whether it was reported.
func (r SoilRecord) Value(n soil.Nutrient) (float64, bool) {
	var v *float64
	switch n {
	case soil.Nitrogen:
		v = r.Nitrogen
	case soil.Phosphorus:
		v = r.Phosphorus
	case soil.Potassium:
		v = r.Potassium
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// District is a district boundary. Geometry is WKT in EPSG:4326.
type District struct {
	ID       int64
	Name     string
	State    string
	Geometry string
}

// NearestDistrict is the district whose centroid is closest to a point.
type NearestDistrict struct {
	ID    int64   `json:"-"`
	Name  string  `json:"name"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// DistrictBounds is the envelope of one district with its center.
type DistrictBounds struct {
	MinLng    float64 `json:"min_lng"`
	MinLat    float64 `json:"min_lat"`
	MaxLng    float64 `json:"max_lng"`
	MaxLat    float64 `json:"max_lat"`
	CenterLng float64 `json:"center_lng"`
	CenterLat float64 `json:"center_lat"`
}

// BandCounts counts districts per band for one nutrient.
type BandCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// StateStats aggregates the latest soil record of every district in a state.
type StateStats struct {
	State            string                `json:"state"`
	DistrictCount    int                   `json:"district_count"`
	AvgNitrogen      float64               `json:"avg_nitrogen"`
	AvgPhosphorus    float64               `json:"avg_phosphorus"`
	AvgPotassium     float64               `json:"avg_potassium"`
	AvgPH            float64               `json:"avg_ph"`
	AvgOrganicCarbon float64               `json:"avg_organic_carbon"`
	TotalSamples     int64                 `json:"total_samples"`
	NPKDistribution  map[string]BandCounts `json:"npk_distribution"`
}

// StateSummary is a state with the number of districts on record.
type StateSummary struct {
	Name          string `json:"name"`
	DistrictCount int    `json:"district_count"`
}

// CropInfo is a row of the crop reference catalog with ranges rendered as
// "min-max".
type CropInfo struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Season           string `json:"season"`
	NRange           string `json:"nRange"`
	PRange           string `json:"pRange"`
	KRange           string `json:"kRange"`
	PHRange          string `json:"phRange"`
	WaterRequirement string `json:"waterRequirement"`
}

// Farmer is a registered user.
type Farmer struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	PostalCode string     `json:"postalCode"`
	DistrictID *int64     `json:"-"`
	District   string     `json:"district"`
	State      string     `json:"state"`
	FullName   string     `json:"fullName,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	LastLogin  *time.Time `json:"-"`
}

// NewFarmer carries the fields needed to register a farmer.
type NewFarmer struct {
	Username     string
	PasswordHash string
	PostalCode   string
	DistrictID   *int64
	District     string
	State        string
	FullName     string
	Phone        string
}
