package soil

import "context"

// Estimator supplies historical district averages for a nutrient. ok is false
// when no record exists for the location.
type Estimator interface {
	EstimateNutrient(ctx context.Context, loc Location, n Nutrient) (value float64, ok bool, err error)
}
