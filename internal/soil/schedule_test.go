package soil

import (
	"reflect"
	"testing"
)

func TestBasalText(t *testing.T) {
	got := BasalText(FertilizerDose{UreaKg: 0, DAPKg: 114.1, MOPKg: 16.7})
	want := "Apply 50% of N (0.0 kg Urea), full P (114.1 kg DAP) and K (16.7 kg MOP) at sowing"
	if got != want {
		t.Fatalf("BasalText() = %q, want %q", got, want)
	}
}

func TestScheduleNeverEmpty(t *testing.T) {
	a := NewAdvisor(DefaultCropTable())
	for _, crop := range []string{"wheat", "cotton", "tomato", "unknown-crop", ""} {
		s := a.Schedule(crop, FertilizerDose{})
		if s.Basal == "" || s.FirstTopdress == "" || s.SecondTopdress == "" {
			t.Errorf("empty schedule entry for %q: %+v", crop, s)
		}
	}
}

func TestTipsOrder(t *testing.T) {
	a := NewAdvisor(DefaultCropTable())

	got := a.Tips(Bands{N: BandLow, P: BandLow, K: BandLow})
	want := []string{tipMoisture, tipHeavyRain, tipLowN, tipLowP, tipLowK, tipRetestSoil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tips(all low) = %v", got)
	}

	got = a.Tips(Bands{N: BandHigh, P: BandLow, K: BandMedium})
	want = []string{tipMoisture, tipHeavyRain, tipLowP, tipRetestSoil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tips(P low) = %v", got)
	}

	got = a.Tips(Bands{N: BandMedium, P: BandHigh, K: BandHigh})
	if len(got) != 3 || got[2] != tipRetestSoil {
		t.Fatalf("Tips(none low) = %v", got)
	}
}
