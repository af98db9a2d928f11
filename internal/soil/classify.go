package soil

// bandLimits holds the classification cut points for one nutrient: a value
// below low is Low, a value up to and including high is Medium, anything
// above high is High.
type bandLimits struct {
	low  float64
	high float64
}

var bandThresholds = map[Nutrient]bandLimits{
	Nitrogen:   {low: 280, high: 560},
	Phosphorus: {low: 10, high: 25},
	Potassium:  {low: 110, high: 280},
}

// Classify maps a reading in kg/ha to its band. Callers must resolve absent
// readings and reject negative ones before calling.
func Classify(value float64, n Nutrient) Band {
	limits, ok := bandThresholds[n]
	if !ok {
		return BandUnknown
	}
	switch {
	case value < limits.low:
		return BandLow
	case value <= limits.high:
		return BandMedium
	default:
		return BandHigh
	}
}

// ClassifyAll bands each of the three readings.
func ClassifyAll(r Readings) Bands {
	return Bands{
		N: Classify(r.N, Nitrogen),
		P: Classify(r.P, Phosphorus),
		K: Classify(r.K, Potassium),
	}
}
