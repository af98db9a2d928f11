package soil

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed crops.yaml
var embeddedCrops []byte

// CropProfile is one entry of the crop table.
type CropProfile struct {
	Nitrogen       float64 `yaml:"nitrogen"`
	Phosphorus     float64 `yaml:"phosphorus"`
	Potassium      float64 `yaml:"potassium"`
	FirstTopdress  string  `yaml:"firstTopdress"`
	SecondTopdress string  `yaml:"secondTopdress"`
}

type cropDocument struct {
	Default CropProfile            `yaml:"default"`
	Crops   map[string]CropProfile `yaml:"crops"`
}

// CropTable is the static per-crop reference data. It is immutable once
// loaded and safe for concurrent reads.
type CropTable struct {
	fallback CropProfile
	crops    map[string]CropProfile
}

// DefaultCropTable returns the table compiled into the binary.
func DefaultCropTable() *CropTable {
	t, err := ParseCropTable(embeddedCrops)
	if err != nil {
		panic(fmt.Sprintf("soil: embedded crop table is invalid: %v", err))
	}
	return t
}

// LoadCropTable reads a crop table from a YAML file. An empty path yields the
// embedded table.
func LoadCropTable(path string) (*CropTable, error) {
	if path == "" {
		return DefaultCropTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading crop table: %w", err)
	}
	return ParseCropTable(data)
}

// ParseCropTable decodes and checks a YAML crop table.
func ParseCropTable(data []byte) (*CropTable, error) {
	var doc cropDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing crop table YAML: %w", err)
	}

	if doc.Default.FirstTopdress == "" || doc.Default.SecondTopdress == "" {
		return nil, fmt.Errorf("default topdress timing must not be empty")
	}
	if err := checkTargets("default", doc.Default); err != nil {
		return nil, err
	}

	t := &CropTable{
		fallback: doc.Default,
		crops:    make(map[string]CropProfile, len(doc.Crops)),
	}
	for name, p := range doc.Crops {
		key := cropKey(name)
		if key == "" {
			return nil, fmt.Errorf("crop table has an entry with an empty name")
		}
		if err := checkTargets(key, p); err != nil {
			return nil, err
		}
		if p.FirstTopdress == "" {
			p.FirstTopdress = doc.Default.FirstTopdress
		}
		if p.SecondTopdress == "" {
			p.SecondTopdress = doc.Default.SecondTopdress
		}
		t.crops[key] = p
	}
	return t, nil
}

func checkTargets(name string, p CropProfile) error {
	if p.Nitrogen < 0 || p.Phosphorus < 0 || p.Potassium < 0 {
		return fmt.Errorf("crop %q has a negative nutrient target", name)
	}
	return nil
}

func cropKey(crop string) string {
	return strings.ToLower(strings.TrimSpace(crop))
}

func (t *CropTable) profile(crop string) CropProfile {
	if p, ok := t.crops[cropKey(crop)]; ok {
		return p
	}
	return t.fallback
}

// RequirementsFor returns the N/P/K targets for crop. Lookup ignores case;
// unlisted crops get the default targets.
func (t *CropTable) RequirementsFor(crop string) CropRequirement {
	p := t.profile(crop)
	return CropRequirement{
		Crop:       cropKey(crop),
		Nitrogen:   p.Nitrogen,
		Phosphorus: p.Phosphorus,
		Potassium:  p.Potassium,
	}
}

// Topdress returns the first and second topdress timing text for crop.
func (t *CropTable) Topdress(crop string) (first, second string) {
	p := t.profile(crop)
	return p.FirstTopdress, p.SecondTopdress
}
