package soil

import (
	"math"

	"github.com/i474232898/soil-health-map/internal/common"
)

// Agronomic constants used by the dose formulas.
const (
	SoilAvailability = 0.5 // share of the soil reading assumed available to the crop

	UreaNitrogen   = 0.46 // N content of urea
	DAPPhosphate   = 0.46 // P2O5 content of DAP
	SSPPhosphate   = 0.16 // P2O5 content of SSP
	MOPPotash      = 0.60 // K2O content of MOP
	AcidicPHCutoff = 6.0  // lime is recommended below this pH
)

// Deficit is the nutrient still needed after crediting half of the current
// soil reading. It is never negative.
func Deficit(required, current float64) float64 {
	return math.Max(0, required-current*SoilAvailability)
}

func productDose(deficit, content float64) float64 {
	return common.RoundHalfUp(deficit/content, 1)
}

// ComputeDoses converts N/P/K deficits into urea, DAP, SSP and MOP quantities.
// DAP and SSP are alternative phosphorus sources, each computed from the same
// deficit. Lime is included only when ph is present and acidic.
func ComputeDoses(r Readings, req CropRequirement, ph *float64) FertilizerDose {
	nDeficit := Deficit(req.Nitrogen, r.N)
	pDeficit := Deficit(req.Phosphorus, r.P)
	kDeficit := Deficit(req.Potassium, r.K)

	d := FertilizerDose{
		UreaKg: productDose(nDeficit, UreaNitrogen),
		DAPKg:  productDose(pDeficit, DAPPhosphate),
		SSPKg:  productDose(pDeficit, SSPPhosphate),
		MOPKg:  productDose(kDeficit, MOPPotash),
	}
	if LimeRequired(ph) {
		d.LimeKg = LimeDose(*ph)
	}
	return d
}

// LimeRequired reports whether ph calls for a lime amendment.
func LimeRequired(ph *float64) bool {
	return ph != nil && *ph < AcidicPHCutoff
}

// LimeDose maps an acidic pH to a lime quantity in kg/ha.
// Callers gate on LimeRequired, so the final 500 tier is never reached in
// practice; it is kept so the mapping stays total.
func LimeDose(ph float64) float64 {
	switch {
	case ph < 5.5:
		return 2000
	case ph < AcidicPHCutoff:
		return 1000
	default:
		return 500
	}
}
