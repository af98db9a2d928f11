package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Reconciler re-classifies stored nutrient bands and reports how many
// records changed.
type Reconciler interface {
	ReconcileStatuses(ctx context.Context) (int, error)
}

// Scheduler periodically re-bands the stored soil records.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	reconciler Reconciler
	interval   time.Duration
	timeout    time.Duration
}

// New creates a new Scheduler.
func New(reconciler Reconciler, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		reconciler: reconciler,
		interval:   interval,
		timeout:    time.Minute,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A zero interval disables the job.
func (s *Scheduler) Start() error {
	if s.reconciler == nil || s.interval <= 0 {
		log.Println("INFO: scheduler: status reconciliation disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			log.Printf("ERROR: scheduler: status reconciliation failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single reconciliation pass.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log.Println("DEBUG: scheduler: running status reconciliation job")
	changed, err := s.reconciler.ReconcileStatuses(ctx)
	if err != nil {
		return 0, err
	}
	log.Printf("INFO: scheduler: reconciliation completed, %d record(s) re-banded", changed)
	return changed, nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
