package soil

import (
	"context"
	"log"
)

// Source records where a resolved reading came from.
type Source string

const (
	SourceRequest  Source = "request"
	SourceDistrict Source = "district"
	SourceDefault  Source = "default"
)

var globalDefaults = map[Nutrient]float64{
	Nitrogen:   250,
	Phosphorus: 15,
	Potassium:  150,
}

// GlobalDefault is the reading used when neither the request nor district
// history provides one.
func GlobalDefault(n Nutrient) float64 {
	return globalDefaults[n]
}

// ResolveNutrient picks a concrete reading for n: the explicit value if set,
// otherwise the latest district average, otherwise the global default.
// Estimator failures degrade to the default and are only logged.
func ResolveNutrient(ctx context.Context, explicit *float64, loc Location, n Nutrient, est Estimator) (float64, Source) {
	if explicit != nil {
		return *explicit, SourceRequest
	}

	if est != nil && loc.Known() {
		v, ok, err := est.EstimateNutrient(ctx, loc, n)
		switch {
		case err != nil:
			log.Printf("WARN: could not fetch district data for %s (%s): %v", loc.Key(), n.Column(), err)
		case ok:
			return v, SourceDistrict
		}
	}

	return GlobalDefault(n), SourceDefault
}
