package soil

// Nutrient identifies one of the primary soil macronutrients.
type Nutrient string

const (
	Nitrogen   Nutrient = "N"
	Phosphorus Nutrient = "P"
	Potassium  Nutrient = "K"
)

// Nutrients lists N, P and K in the order results and tips are reported.
var Nutrients = []Nutrient{Nitrogen, Phosphorus, Potassium}

// Column returns the soil_health_data column prefix for the nutrient.
func (n Nutrient) Column() string {
	switch n {
	case Nitrogen:
		return "nitrogen"
	case Phosphorus:
		return "phosphorus"
	case Potassium:
		return "potassium"
	default:
		return ""
	}
}

// Band is the Low/Medium/High classification of a nutrient reading.
type Band string

const (
	BandLow     Band = "Low"
	BandMedium  Band = "Medium"
	BandHigh    Band = "High"
	BandUnknown Band = "Unknown"
)

// Readings holds resolved N, P and K values in kg/ha.
type Readings struct {
	N float64 `json:"nitrogen"`
	P float64 `json:"phosphorus"`
	K float64 `json:"potassium"`
}

// Bands holds the classification of each nutrient.
type Bands struct {
	N Band
	P Band
	K Band
}

// Location names an administrative district. Both parts are needed to look up
// historical soil averages.
type Location struct {
	District string `json:"district"`
	State    string `json:"state"`
}

// Known reports whether both district and state are set.
func (l Location) Known() bool {
	return l.District != "" && l.State != ""
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.District + ":" + l.State
}

// CropRequirement is the per-crop N/P/K target in kg/ha.
type CropRequirement struct {
	Crop       string  `json:"crop"`
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
}

// FertilizerDose is the product quantity in kg/ha for each fertilizer.
// All values are non-negative and rounded to one decimal place.
type FertilizerDose struct {
	UreaKg float64
	DAPKg  float64
	MOPKg  float64
	SSPKg  float64
	LimeKg float64
}

// Schedule is the application timetable for a crop.
type Schedule struct {
	Basal          string `json:"basal"`
	FirstTopdress  string `json:"firstTopdress"`
	SecondTopdress string `json:"secondTopdress"`
}

// Request is a single recommendation request. Nil readings are resolved from
// district history or global defaults.
type Request struct {
	Crop       string   `json:"crop"`
	Nitrogen   *float64 `json:"nitrogen,omitempty" validate:"omitempty,gte=0"`
	Phosphorus *float64 `json:"phosphorus,omitempty" validate:"omitempty,gte=0"`
	Potassium  *float64 `json:"potassium,omitempty" validate:"omitempty,gte=0"`
	PH         *float64 `json:"ph,omitempty"`
	District   string   `json:"district,omitempty"`
	State      string   `json:"state,omitempty"`
}

func (r Request) reading(n Nutrient) *float64 {
	switch n {
	case Nitrogen:
		return r.Nitrogen
	case Phosphorus:
		return r.Phosphorus
	case Potassium:
		return r.Potassium
	default:
		return nil
	}
}

// Result is the computed recommendation returned to clients.
type Result struct {
	NitrogenStatus   Band     `json:"nitrogenStatus"`
	PhosphorusStatus Band     `json:"phosphorusStatus"`
	PotassiumStatus  Band     `json:"potassiumStatus"`
	UreaDose         float64  `json:"ureaDose"`
	DAPDose          float64  `json:"dapDose"`
	MOPDose          float64  `json:"mopDose"`
	SSPDose          float64  `json:"sspDose"`
	LimeRequired     *bool    `json:"limeRequired,omitempty"`
	LimeDose         *float64 `json:"limeDose,omitempty"`
	Schedule         Schedule `json:"schedule"`
	Tips             []string `json:"tips"`
}
