package soil

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/soil-health-map/internal/common"
)

// Service turns a crop and optional soil readings into a fertilizer
// recommendation.
type Service struct {
	estimator Estimator
	crops     *CropTable
	advisor   *Advisor
}

// NewService creates a new Service. estimator may be nil, in which case
// missing readings always fall back to global defaults.
func NewService(estimator Estimator, crops *CropTable) *Service {
	if crops == nil {
		crops = DefaultCropTable()
	}
	return &Service{
		estimator: estimator,
		crops:     crops,
		advisor:   NewAdvisor(crops),
	}
}

// Resolve fills every reading of req, querying the estimator for those that
// are missing. The lookups are independent and run concurrently.
func (s *Service) Resolve(ctx context.Context, req Request) (Readings, map[Nutrient]Source) {
	loc := Location{District: strings.TrimSpace(req.District), State: strings.TrimSpace(req.State)}

	var (
		values  [3]float64
		sources [3]Source
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, n := range Nutrients {
		i, n := i, n
		g.Go(func() error {
			values[i], sources[i] = ResolveNutrient(gctx, req.reading(n), loc, n, s.estimator)
			return nil
		})
	}
	_ = g.Wait()

	src := make(map[Nutrient]Source, len(Nutrients))
	for i, n := range Nutrients {
		src[n] = sources[i]
	}
	return Readings{N: values[0], P: values[1], K: values[2]}, src
}

// Calculate runs the full pipeline for one request. It fails only when the
// crop is missing.
func (s *Service) Calculate(ctx context.Context, req Request) (Result, error) {
	crop := strings.TrimSpace(req.Crop)
	if crop == "" {
		return Result{}, common.Invalid("crop", "Crop selection is required")
	}

	readings, sources := s.Resolve(ctx, req)
	log.Printf("DEBUG: recommendation for %s using N=%v(%s) P=%v(%s) K=%v(%s)",
		crop,
		readings.N, sources[Nitrogen],
		readings.P, sources[Phosphorus],
		readings.K, sources[Potassium])

	bands := ClassifyAll(readings)
	requirement := s.crops.RequirementsFor(crop)
	dose := ComputeDoses(readings, requirement, req.PH)

	result := Result{
		NitrogenStatus:   bands.N,
		PhosphorusStatus: bands.P,
		PotassiumStatus:  bands.K,
		UreaDose:         dose.UreaKg,
		DAPDose:          dose.DAPKg,
		MOPDose:          dose.MOPKg,
		SSPDose:          dose.SSPKg,
		Schedule:         s.advisor.Schedule(crop, dose),
		Tips:             s.advisor.Tips(bands),
	}

	if LimeRequired(req.PH) {
		required := true
		lime := dose.LimeKg
		result.LimeRequired = &required
		result.LimeDose = &lime
	}

	return result, nil
}
