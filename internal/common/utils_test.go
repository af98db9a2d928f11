package common

import (
	"errors"
	"testing"
)

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in     float64
		places int
		want   float64
	}{
		{114.13043478260869, 1, 114.1},
		{328.125, 1, 328.1},
		{0.05, 1, 0.1},
		{2.346, 2, 2.35},
		{0, 1, 0},
		{7.25, 0, 7},
	}

	for _, c := range cases {
		if got := RoundHalfUp(c.in, c.places); got != c.want {
			t.Errorf("RoundHalfUp(%v, %d) = %v, want %v", c.in, c.places, got, c.want)
		}
	}
}

func TestValidationErrorAs(t *testing.T) {
	err := Invalid("crop", "Crop selection is required")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Message != "Crop selection is required" {
		t.Fatalf("unexpected message %q", verr.Message)
	}
	if err.Error() != "crop: Crop selection is required" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}
