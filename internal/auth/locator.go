package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kelvins/geocoder"
	"github.com/paulmach/orb"

	"github.com/i474232898/soil-health-map/internal/store"
)

// Placement is the district a postal code was resolved to. DistrictID is nil
// when the district is not on record.
type Placement struct {
	DistrictID *int64
	District   string
	State      string
}

// Locator resolves a postal code to a district.
type Locator interface {
	Locate(ctx context.Context, postalCode string) (Placement, error)
}

// DistrictFinder looks up a district on record by name or state.
type DistrictFinder interface {
	FindDistrict(ctx context.Context, name, state string) (store.District, error)
}

// NearestFinder looks up the district closest to a point.
type NearestFinder interface {
	Nearest(ctx context.Context, p orb.Point) (store.NearestDistrict, error)
}

var postalDistricts = map[string]Placement{
	"110001": {District: "Delhi", State: "Delhi"},
	"122001": {District: "Gurugram", State: "Haryana"},
	"141001": {District: "Ludhiana", State: "Punjab"},
}

var defaultPlacement = Placement{District: "Delhi", State: "Delhi"}

// StaticLocator maps a few known postal codes to districts and everything
// else to Delhi. When a finder is set, the placement is matched against the
// districts on record to pick up the district id.
type StaticLocator struct {
	finder DistrictFinder
}

// NewStaticLocator creates a StaticLocator. finder may be nil.
func NewStaticLocator(finder DistrictFinder) *StaticLocator {
	return &StaticLocator{finder: finder}
}

// Locate implements Locator.
func (l *StaticLocator) Locate(ctx context.Context, postalCode string) (Placement, error) {
	p, ok := postalDistricts[postalCode]
	if !ok {
		p = defaultPlacement
	}
	if l.finder == nil {
		return p, nil
	}

	d, err := l.finder.FindDistrict(ctx, p.District, p.State)
	if errors.Is(err, store.ErrNotFound) {
		return p, nil
	}
	if err != nil {
		return Placement{}, err
	}
	id := d.ID
	return Placement{DistrictID: &id, District: d.Name, State: d.State}, nil
}

// geocode resolves a postal code to a point. Tests replace it.
var geocode = func(postalCode, country string) (orb.Point, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{PostalCode: postalCode, Country: country})
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{loc.Longitude, loc.Latitude}, nil
}

// GeocodeLocator geocodes the postal code and picks the nearest district on
// record. Any failure falls back to the next locator.
type GeocodeLocator struct {
	nearest  NearestFinder
	fallback Locator
	country  string
}

// NewGeocodeLocator configures the geocoding API key and returns a locator.
func NewGeocodeLocator(apiKey string, nearest NearestFinder, fallback Locator) *GeocodeLocator {
	geocoder.ApiKey = apiKey
	return &GeocodeLocator{nearest: nearest, fallback: fallback, country: "India"}
}

// Locate implements Locator.
func (l *GeocodeLocator) Locate(ctx context.Context, postalCode string) (Placement, error) {
	p, err := l.locate(ctx, postalCode)
	if err == nil {
		return p, nil
	}
	log.Printf("WARN: geocoding postal code %s failed, using fallback: %v", postalCode, err)
	return l.fallback.Locate(ctx, postalCode)
}

func (l *GeocodeLocator) locate(ctx context.Context, postalCode string) (Placement, error) {
	point, err := geocode(postalCode, l.country)
	if err != nil {
		return Placement{}, fmt.Errorf("geocode: %w", err)
	}
	d, err := l.nearest.Nearest(ctx, point)
	if err != nil {
		return Placement{}, fmt.Errorf("nearest district: %w", err)
	}
	id := d.ID
	return Placement{DistrictID: &id, District: d.Name, State: d.State}, nil
}
