package common

import "math"

// RoundHalfUp rounds v to the given number of decimal places, with ties
// going towards positive infinity.
func RoundHalfUp(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Floor(v*p+0.5) / p
}
