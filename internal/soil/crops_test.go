package soil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRequirementsForIsCaseInsensitive(t *testing.T) {
	table := DefaultCropTable()

	for _, name := range []string{"wheat", "Wheat", " WHEAT "} {
		got := table.RequirementsFor(name)
		if got.Nitrogen != 120 || got.Phosphorus != 60 || got.Potassium != 60 {
			t.Errorf("RequirementsFor(%q) = %+v", name, got)
		}
		if got.Crop != "wheat" {
			t.Errorf("RequirementsFor(%q).Crop = %q", name, got.Crop)
		}
	}
}

func TestRequirementsForUnknownCropFallsBack(t *testing.T) {
	got := DefaultCropTable().RequirementsFor("quinoa")
	if got.Nitrogen != 100 || got.Phosphorus != 50 || got.Potassium != 50 {
		t.Fatalf("unexpected fallback requirement %+v", got)
	}
}

func TestTopdressTiming(t *testing.T) {
	table := DefaultCropTable()

	cases := []struct {
		crop, first, second string
	}{
		{"rice", "20-25 days after transplanting", "45-50 days after transplanting"},
		{"sugarcane", "45-50 days after planting", "90-100 days after planting"},
		{"mustard", "30 days after sowing/planting", "60 days after sowing/planting"},
		{"quinoa", "30 days after sowing/planting", "60 days after sowing/planting"},
	}
	for _, c := range cases {
		first, second := table.Topdress(c.crop)
		if first != c.first || second != c.second {
			t.Errorf("Topdress(%q) = (%q, %q), want (%q, %q)", c.crop, first, second, c.first, c.second)
		}
	}
}

func TestParseCropTableRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"missing default timing": "default:\n  nitrogen: 1\n",
		"negative target":        "default:\n  firstTopdress: a\n  secondTopdress: b\ncrops:\n  rye:\n    nitrogen: -1\n",
		"malformed yaml":         "default: [",
	}
	for name, doc := range cases {
		if _, err := ParseCropTable([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCropTableFromFile(t *testing.T) {
	doc := "default:\n  nitrogen: 90\n  phosphorus: 45\n  potassium: 45\n  firstTopdress: early\n  secondTopdress: late\n" +
		"crops:\n  Barley:\n    nitrogen: 60\n    phosphorus: 30\n    potassium: 20\n"
	path := filepath.Join(t.TempDir(), "crops.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := LoadCropTable(path)
	if err != nil {
		t.Fatalf("LoadCropTable: %v", err)
	}
	if got := table.RequirementsFor("barley"); got.Nitrogen != 60 {
		t.Fatalf("unexpected barley requirement %+v", got)
	}
	if first, _ := table.Topdress("barley"); first != "early" {
		t.Fatalf("expected default timing for barley, got %q", first)
	}
	if got := table.RequirementsFor("wheat"); got.Nitrogen != 90 {
		t.Fatalf("expected override default for wheat, got %+v", got)
	}

	if _, err := LoadCropTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
