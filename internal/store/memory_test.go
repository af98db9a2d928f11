package store

import (
	"context"
	"errors"
	"testing"

	"github.com/i474232898/soil-health-map/internal/soil"
)

var delhi = soil.Location{District: "Delhi", State: "Delhi"}

// history returns a copy of the stored records for loc, oldest first.
func history(s *MemoryStore, loc soil.Location) []SoilRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[loc.Key()]
	if !ok {
		return nil
	}
	return append([]SoilRecord(nil), h.Records...)
}

func record(year int, n float64) SoilRecord {
	return SoilRecord{District: "Delhi", State: "Delhi", Nitrogen: floatPtr(n), Year: year, Season: SampleSeason}
}

func TestMemoryStoreLatestAndOrder(t *testing.T) {
	s := NewMemoryStore(0)

	if _, err := s.Latest(delhi); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Saved out of order on purpose.
	s.SaveRecord(record(2024, 120))
	s.SaveRecord(record(2022, 100))
	s.SaveRecord(record(2023, 110))

	latest, err := s.Latest(delhi)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Year != 2024 {
		t.Fatalf("expected 2024, got %d", latest.Year)
	}

	recs := history(s, delhi)
	if len(recs) != 3 || recs[0].Year != 2022 || recs[1].Year != 2023 || recs[2].Year != 2024 {
		t.Fatalf("records are not ordered by year: %+v", recs)
	}
}

func TestMemoryStoreReplacesSameYearAndSeason(t *testing.T) {
	s := NewMemoryStore(0)
	s.SaveRecord(record(2025, 100))
	s.SaveRecord(record(2025, 300))

	recs := history(s, delhi)
	if len(recs) != 1 || *recs[0].Nitrogen != 300 {
		t.Fatalf("expected the record to be replaced, got %+v", recs)
	}
}

func TestMemoryStoreRetention(t *testing.T) {
	s := NewMemoryStore(2)
	for year := 2020; year <= 2024; year++ {
		s.SaveRecord(record(year, float64(year)))
	}

	recs := history(s, delhi)
	if len(recs) != 2 || recs[0].Year != 2023 {
		t.Fatalf("expected the two most recent years, got %+v", recs)
	}
}

func TestMemoryStoreEstimateNutrient(t *testing.T) {
	s := NewMemoryStore(0)
	SeedMemory(s)
	ctx := context.Background()

	v, ok, err := s.EstimateNutrient(ctx, soil.Location{District: "Gurugram", State: "Haryana"}, soil.Potassium)
	if err != nil || !ok || v != 290 {
		t.Fatalf("got (%v, %v, %v)", v, ok, err)
	}

	_, ok, err = s.EstimateNutrient(ctx, soil.Location{District: "Pune", State: "Maharashtra"}, soil.Nitrogen)
	if err != nil || ok {
		t.Fatalf("unknown district must be absent without error, got ok=%v err=%v", ok, err)
	}

	s.SaveRecord(SoilRecord{District: "Pune", State: "Maharashtra", Year: 2025, Nitrogen: floatPtr(300)})
	_, ok, err = s.EstimateNutrient(ctx, soil.Location{District: "Pune", State: "Maharashtra"}, soil.Phosphorus)
	if err != nil || ok {
		t.Fatalf("unreported nutrient must be absent, got ok=%v err=%v", ok, err)
	}
}

func TestSeedMemoryBandsStatuses(t *testing.T) {
	s := NewMemoryStore(0)
	SeedMemory(s)

	want := map[string]soil.Bands{
		"Delhi":    {N: soil.BandLow, P: soil.BandMedium, K: soil.BandMedium},
		"Gurugram": {N: soil.BandMedium, P: soil.BandHigh, K: soil.BandHigh},
		"Ludhiana": {N: soil.BandHigh, P: soil.BandMedium, K: soil.BandHigh},
	}
	for _, d := range SampleDistricts {
		rec, err := s.Latest(soil.Location{District: d.Name, State: d.State})
		if err != nil {
			t.Fatalf("Latest(%s): %v", d.Name, err)
		}
		got := soil.Bands{N: rec.NitrogenStatus, P: rec.PhosphorusStatus, K: rec.PotassiumStatus}
		if got != want[d.Name] {
			t.Errorf("%s: got %+v, want %+v", d.Name, got, want[d.Name])
		}
	}
}
