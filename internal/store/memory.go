package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/i474232898/soil-health-map/internal/soil"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no soil data for location")
)

// RecordHistory holds a district's soil records ordered by measurement year.
type RecordHistory struct {
	Records []SoilRecord
}

// MemoryStore is a concurrency-safe in-memory district soil store. It backs
// offline mode and tests.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*RecordHistory

	// max number of records kept per district
	maxHistory int
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*RecordHistory),
		maxHistory: maxHistory,
	}
}

// SaveRecord stores rec, replacing an existing record for the same year and
// season, and enforces retention.
func (s *MemoryStore) SaveRecord(rec SoilRecord) {
	key := rec.Location().Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &RecordHistory{}
		s.data[key] = history
	}

	replaced := false
	for i, existing := range history.Records {
		if existing.Year == rec.Year && existing.Season == rec.Season {
			history.Records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		history.Records = append(history.Records, rec)
	}

	sort.SliceStable(history.Records, func(i, j int) bool {
		return history.Records[i].Year < history.Records[j].Year
	})

	// Enforce retention by count, dropping the oldest years.
	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}
}

// Latest returns the most recent record for a location.
func (s *MemoryStore) Latest(loc soil.Location) (SoilRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok || len(history.Records) == 0 {
		return SoilRecord{}, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// EstimateNutrient implements soil.Estimator using the latest record of the
// district.
func (s *MemoryStore) EstimateNutrient(_ context.Context, loc soil.Location, n soil.Nutrient) (float64, bool, error) {
	rec, err := s.Latest(loc)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, ok := rec.Value(n)
	return v, ok, nil
}

// rebandRecord classifies the reported averages of rec and updates its
// statuses, reporting whether any status changed.
func rebandRecord(rec *SoilRecord) bool {
	changed := false
	for _, n := range soil.Nutrients {
		v, ok := rec.Value(n)
		if !ok {
			continue
		}
		band := soil.Classify(v, n)
		status := rec.status(n)
		if *status != band {
			*status = band
			changed = true
		}
	}
	return changed
}

func (r *SoilRecord) status(n soil.Nutrient) *soil.Band {
	switch n {
	case soil.Phosphorus:
		return &r.PhosphorusStatus
	case soil.Potassium:
		return &r.PotassiumStatus
	default:
		return &r.NitrogenStatus
	}
}
