package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/soil-health-map/internal/soil"
)

// BreakerConfig controls when the estimator circuit opens.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // probes allowed while half-open
	Interval         time.Duration // closed-state counter reset period
	Timeout          time.Duration // how long the circuit stays open
	FailureThreshold uint32        // consecutive failures that open the circuit
}

// DefaultBreakerConfig is used for the datastore estimator.
var DefaultBreakerConfig = BreakerConfig{
	Name:             "soil-estimator",
	MaxRequests:      1,
	Interval:         time.Minute,
	Timeout:          30 * time.Second,
	FailureThreshold: 5,
}

// GuardedEstimator wraps an estimator with a circuit breaker. While the
// circuit is open, lookups fail immediately so callers fall back to defaults
// without waiting on an unavailable datastore. No retries are attempted.
type GuardedEstimator struct {
	next    soil.Estimator
	circuit *gobreaker.CircuitBreaker
}

type estimate struct {
	value float64
	ok    bool
}

// NewGuardedEstimator creates a GuardedEstimator around next.
func NewGuardedEstimator(next soil.Estimator, cfg BreakerConfig) *GuardedEstimator {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = DefaultBreakerConfig.FailureThreshold
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up is not a datastore failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &GuardedEstimator{next: next, circuit: cb}
}

// EstimateNutrient implements soil.Estimator.
func (g *GuardedEstimator) EstimateNutrient(ctx context.Context, loc soil.Location, n soil.Nutrient) (float64, bool, error) {
	result, err := g.circuit.Execute(func() (interface{}, error) {
		v, ok, err := g.next.EstimateNutrient(ctx, loc, n)
		if err != nil {
			return nil, err
		}
		return estimate{value: v, ok: ok}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, false, fmt.Errorf("datastore circuit open: %w", err)
		}
		return 0, false, err
	}

	e, ok := result.(estimate)
	if !ok {
		return 0, false, errors.New("unexpected result type from circuit breaker")
	}
	return e.value, e.ok, nil
}

// State reports the current circuit state.
func (g *GuardedEstimator) State() gobreaker.State {
	return g.circuit.State()
}
