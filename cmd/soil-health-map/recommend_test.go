package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/i474232898/soil-health-map/internal/config"
	"github.com/i474232898/soil-health-map/internal/soil"
)

func offlineService(t *testing.T) *soil.Service {
	t.Helper()
	cfg := &config.AppConfig{StoreMaxHistory: 10}
	b, err := openBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	t.Cleanup(b.Close)

	svc, err := b.recommender(cfg)
	if err != nil {
		t.Fatalf("recommender: %v", err)
	}
	return svc
}

func TestRecommendEstimatesFromSampleDistrict(t *testing.T) {
	svc := offlineService(t)

	var out bytes.Buffer
	err := runRecommend(context.Background(), svc, soil.Request{
		Crop:     "Rice",
		District: "Ludhiana",
		State:    "Punjab",
	}, &out)
	if err != nil {
		t.Fatalf("runRecommend: %v", err)
	}

	var got soil.Result
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", out.String(), err)
	}
	if got.NitrogenStatus != soil.BandHigh || got.PhosphorusStatus != soil.BandMedium || got.PotassiumStatus != soil.BandHigh {
		t.Fatalf("unexpected bands %s/%s/%s", got.NitrogenStatus, got.PhosphorusStatus, got.PotassiumStatus)
	}
	if got.DAPDose != 106.5 {
		t.Fatalf("expected DAP 106.5, got %v", got.DAPDose)
	}
}

func TestRecommendRejectsNegativeReadings(t *testing.T) {
	svc := offlineService(t)
	negative := -5.0

	var out bytes.Buffer
	err := runRecommend(context.Background(), svc, soil.Request{Crop: "Wheat", Nitrogen: &negative}, &out)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %s", out.String())
	}
}

func TestRecommendFlagsOnlySetChangedReadings(t *testing.T) {
	cmd := recommendCmd()
	if err := cmd.Flags().Parse([]string{"--crop", "Wheat", "--nitrogen", "0", "--ph", "5.2"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var req soil.Request
	if err := readingFlags(cmd.Flags(), &req); err != nil {
		t.Fatalf("readingFlags: %v", err)
	}
	if req.Nitrogen == nil || *req.Nitrogen != 0 {
		t.Fatalf("explicit zero nitrogen must be kept, got %v", req.Nitrogen)
	}
	if req.Phosphorus != nil || req.Potassium != nil {
		t.Fatalf("unset readings must stay nil")
	}
	if req.PH == nil || *req.PH != 5.2 {
		t.Fatalf("expected ph 5.2, got %v", req.PH)
	}
}
