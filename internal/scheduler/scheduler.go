package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// Reloader reloads the dataset
type Reloader interface {
	Reload(ctx context.Context, trigger string) (*models.LoadRun, error)
}

// Cleaner drops expired state, e.g. a rate limiter
type Cleaner interface {
	Cleanup()
}

// Scheduler runs the periodic dataset refresh and housekeeping jobs
type Scheduler struct {
	cron     *cron.Cron
	reloader Reloader
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a scheduler; jobs are added with AddRefresh and AddCleanup
func New(reloader Reloader) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		reloader: reloader,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddRefresh schedules a dataset reload on a cron spec
func (s *Scheduler) AddRefresh(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Refresh); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	log.Printf("[Scheduler] Dataset refresh scheduled: %s", spec)
	return nil
}

// AddCleanup schedules c.Cleanup on a cron spec
func (s *Scheduler) AddCleanup(spec string, c Cleaner) error {
	if _, err := s.cron.AddFunc(spec, c.Cleanup); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	return nil
}

// Refresh reloads the dataset once; failures are logged
func (s *Scheduler) Refresh() {
	log.Println("[Scheduler] Refresh running")
	if _, err := s.reloader.Reload(s.ctx, models.TriggerSchedule); err != nil {
		log.Printf("[Scheduler] Refresh failed: %v", err)
	}
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels an in-flight reload and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
