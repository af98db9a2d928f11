package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/soil-health-map/internal/soil"
)

type stubEstimator struct {
	calls int
	value float64
	ok    bool
	err   error
}

func (s *stubEstimator) EstimateNutrient(context.Context, soil.Location, soil.Nutrient) (float64, bool, error) {
	s.calls++
	return s.value, s.ok, s.err
}

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Hour,
		FailureThreshold: 3,
	}
}

func TestGuardedEstimatorPassesThrough(t *testing.T) {
	next := &stubEstimator{value: 320, ok: true}
	g := NewGuardedEstimator(next, testBreakerConfig())

	v, ok, err := g.EstimateNutrient(context.Background(), delhi, soil.Nitrogen)
	if err != nil || !ok || v != 320 {
		t.Fatalf("got (%v, %v, %v)", v, ok, err)
	}
}

func TestGuardedEstimatorOpensAfterFailures(t *testing.T) {
	next := &stubEstimator{err: errors.New("connection refused")}
	g := NewGuardedEstimator(next, testBreakerConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := g.EstimateNutrient(ctx, delhi, soil.Nitrogen); err == nil {
			t.Fatal("expected error")
		}
	}
	if g.State() != gobreaker.StateOpen {
		t.Fatalf("expected open circuit, got %s", g.State())
	}

	_, _, err := g.EstimateNutrient(ctx, delhi, soil.Nitrogen)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if next.calls != 3 {
		t.Fatalf("open circuit must not reach the datastore, got %d calls", next.calls)
	}
}

func TestGuardedEstimatorAbsentIsNotFailure(t *testing.T) {
	next := &stubEstimator{ok: false}
	g := NewGuardedEstimator(next, testBreakerConfig())

	for i := 0; i < 10; i++ {
		if _, ok, err := g.EstimateNutrient(context.Background(), delhi, soil.Phosphorus); err != nil || ok {
			t.Fatalf("got ok=%v err=%v", ok, err)
		}
	}
	if g.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed circuit, got %s", g.State())
	}
}

func TestGuardedEstimatorIgnoresCancellation(t *testing.T) {
	next := &stubEstimator{err: context.Canceled}
	g := NewGuardedEstimator(next, testBreakerConfig())

	for i := 0; i < 5; i++ {
		_, _, _ = g.EstimateNutrient(context.Background(), delhi, soil.Potassium)
	}
	if g.State() != gobreaker.StateClosed {
		t.Fatalf("cancellations must not open the circuit, got %s", g.State())
	}
}

func TestGuardedEstimatorFeedsDefaults(t *testing.T) {
	next := &stubEstimator{err: errors.New("timeout")}
	g := NewGuardedEstimator(next, testBreakerConfig())

	v, src := soil.ResolveNutrient(context.Background(), nil, delhi, soil.Nitrogen, g)
	if v != 250 || src != soil.SourceDefault {
		t.Fatalf("got (%v, %s)", v, src)
	}
}
