package soil

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type estimate struct {
	value float64
	ok    bool
	err   error
}

type fakeEstimator struct {
	mu        sync.Mutex
	calls     int
	estimates map[Nutrient]estimate
}

func (f *fakeEstimator) EstimateNutrient(_ context.Context, _ Location, n Nutrient) (float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	e := f.estimates[n]
	return e.value, e.ok, e.err
}

func (f *fakeEstimator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestResolveNutrientPrecedence(t *testing.T) {
	loc := Location{District: "Gurugram", State: "Haryana"}
	est := &fakeEstimator{estimates: map[Nutrient]estimate{
		Nitrogen:   {value: 320, ok: true},
		Phosphorus: {ok: false},
		Potassium:  {err: errors.New("connection refused")},
	}}

	cases := []struct {
		name       string
		explicit   *float64
		loc        Location
		n          Nutrient
		wantValue  float64
		wantSource Source
	}{
		{"request wins", ptr(410), loc, Nitrogen, 410, SourceRequest},
		{"zero request value is still a value", ptr(0), loc, Nitrogen, 0, SourceRequest},
		{"district average", nil, loc, Nitrogen, 320, SourceDistrict},
		{"no district record", nil, loc, Phosphorus, 15, SourceDefault},
		{"datastore failure", nil, loc, Potassium, 150, SourceDefault},
		{"no location", nil, Location{}, Nitrogen, 250, SourceDefault},
		{"state missing", nil, Location{District: "Gurugram"}, Nitrogen, 250, SourceDefault},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, src := ResolveNutrient(context.Background(), c.explicit, c.loc, c.n, est)
			if v != c.wantValue || src != c.wantSource {
				t.Fatalf("got (%v, %s), want (%v, %s)", v, src, c.wantValue, c.wantSource)
			}
		})
	}
}

func TestResolveNutrientWithoutEstimator(t *testing.T) {
	v, src := ResolveNutrient(context.Background(), nil, Location{District: "Delhi", State: "Delhi"}, Potassium, nil)
	if v != 150 || src != SourceDefault {
		t.Fatalf("got (%v, %s)", v, src)
	}
}
