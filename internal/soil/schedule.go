package soil

import (
	"fmt"
	"strconv"
)

const (
	tipMoisture   = "Apply fertilizers when soil has adequate moisture"
	tipHeavyRain  = "Avoid fertilizer application during heavy rain"
	tipLowN       = "Consider adding organic manure to improve nitrogen content"
	tipLowP       = "Phosphorus deficiency may delay maturity - monitor crop closely"
	tipLowK       = "Potassium deficiency may affect disease resistance"
	tipRetestSoil = "Conduct soil testing every 2-3 years for best results"
)

// Advisor builds application schedules and advisory tips.
type Advisor struct {
	crops *CropTable
}

// NewAdvisor creates an Advisor backed by the given crop table.
func NewAdvisor(crops *CropTable) *Advisor {
	return &Advisor{crops: crops}
}

// Schedule returns the basal and topdress timetable for crop. The basal line
// embeds the computed urea, DAP and MOP doses.
func (a *Advisor) Schedule(crop string, d FertilizerDose) Schedule {
	first, second := a.crops.Topdress(crop)
	return Schedule{
		Basal:          BasalText(d),
		FirstTopdress:  first,
		SecondTopdress: second,
	}
}

// BasalText formats the basal application sentence.
func BasalText(d FertilizerDose) string {
	return fmt.Sprintf("Apply 50%% of N (%s kg Urea), full P (%s kg DAP) and K (%s kg MOP) at sowing",
		formatKg(d.UreaKg), formatKg(d.DAPKg), formatKg(d.MOPKg))
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Tips returns the advisory tips: two generic tips, one per Low nutrient in
// N, P, K order, then the soil retest reminder.
func (a *Advisor) Tips(b Bands) []string {
	tips := []string{tipMoisture, tipHeavyRain}

	if b.N == BandLow {
		tips = append(tips, tipLowN)
	}
	if b.P == BandLow {
		tips = append(tips, tipLowP)
	}
	if b.K == BandLow {
		tips = append(tips, tipLowK)
	}

	return append(tips, tipRetestSoil)
}
