package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/metrics"
	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/repository"
)

// Service errors
var (
	ErrNotLoaded       = errors.New("dataset not loaded")
	ErrRecordNotFound  = errors.New("record not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoSelection     = errors.New("date or index is required")
)

// DashboardService serves the dataset built by the pipeline. Reloads are
// serialized; readers see either the old or the new dataset, never a mix.
type DashboardService struct {
	pipeline  *casedata.Pipeline
	caseRepo  *repository.CaseRepository
	loadRepo  *repository.LoadRepository
	collector *metrics.Collector
	topN      int

	reloadMu sync.Mutex
	mu       sync.RWMutex
	ds       *casedata.Dataset
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	pipeline *casedata.Pipeline,
	caseRepo *repository.CaseRepository,
	loadRepo *repository.LoadRepository,
	collector *metrics.Collector,
	topN int,
) *DashboardService {
	return &DashboardService{
		pipeline:  pipeline,
		caseRepo:  caseRepo,
		loadRepo:  loadRepo,
		collector: collector,
		topN:      topN,
	}
}

// Reload runs the pipeline and swaps in the new dataset on success. A failed
// run leaves the previous dataset in service.
func (s *DashboardService) Reload(ctx context.Context, trigger string) (*models.LoadRun, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	run, err := s.loadRepo.Start(ctx, trigger)
	if err != nil {
		return nil, err
	}
	log.Printf("[DashboardService] Load %s started (trigger=%s)", run.ID, trigger)

	start := time.Now()
	ds, err := s.pipeline.Run(ctx)
	if err == nil {
		err = s.publish(ctx, ds)
	}
	s.collector.ObserveLoad(ds, time.Since(start), err)

	if err != nil {
		run.Status = models.LoadStatusFailed
		run.ErrorMessage = err.Error()
		s.finish(run)
		log.Printf("[DashboardService] Load %s failed: %v", run.ID, err)
		return run, fmt.Errorf("failed to load dataset: %w", err)
	}

	run.Status = models.LoadStatusCompleted
	run.RecordCount = ds.Len()
	run.DateCount = ds.Timeline.Len()
	run.CoercedCells = ds.Report.CoercedCells()
	s.finish(run)

	log.Printf("[DashboardService] Load %s completed: %d records, %d dates", run.ID, run.RecordCount, run.DateCount)
	return run, nil
}

// publish writes the snapshot and swaps the dataset under one write lock, so
// readers that pair the timeline with stored rows never see a mix of loads
func (s *DashboardService) publish(ctx context.Context, ds *casedata.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.caseRepo.ReplaceSnapshot(ctx, ds); err != nil {
		return err
	}
	s.ds = ds
	return nil
}

// finish stores the run outcome even when the load context is done
func (s *DashboardService) finish(run *models.LoadRun) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.loadRepo.Finish(ctx, run); err != nil {
		log.Printf("[DashboardService] Failed to record load %s: %v", run.ID, err)
	}
}

// Status summarizes the dataset currently served
func (s *DashboardService) Status(ctx context.Context) (models.DatasetStatus, error) {
	status := models.DatasetStatus{}

	s.mu.RLock()
	if s.ds != nil {
		dates := s.ds.Timeline.All()
		status.Loaded = true
		status.Records = s.ds.Len()
		status.DateKeys = len(dates)
		status.FirstDate = dates[0]
		status.LastDate = dates[len(dates)-1]
		status.Selected = s.ds.Timeline.Selected()
	}
	s.mu.RUnlock()

	run, err := s.loadRepo.Latest(ctx)
	if err != nil {
		return status, err
	}
	status.LastRun = run
	return status, nil
}

// Loads lists recent pipeline runs, newest first
func (s *DashboardService) Loads(ctx context.Context, limit int) ([]models.LoadRun, error) {
	return s.loadRepo.List(ctx, limit)
}

// Dataset returns the dataset currently served
func (s *DashboardService) Dataset() (*casedata.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ds == nil {
		return nil, ErrNotLoaded
	}
	return s.ds, nil
}

// read runs fn with the dataset under the read lock
func (s *DashboardService) read(fn func(ds *casedata.Dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ds == nil {
		return ErrNotLoaded
	}
	return fn(s.ds)
}

// write runs fn with the dataset under the write lock
func (s *DashboardService) write(fn func(ds *casedata.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ds == nil {
		return ErrNotLoaded
	}
	return fn(s.ds)
}

func timelineState(t *casedata.Timeline) models.TimelineState {
	return models.TimelineState{
		Dates:         t.All(),
		Selected:      t.Selected(),
		SelectedIndex: t.SelectedIndex(),
	}
}

// Timeline returns the dates and the current selection
func (s *DashboardService) Timeline() (models.TimelineState, error) {
	var state models.TimelineState
	err := s.read(func(ds *casedata.Dataset) error {
		state = timelineState(ds.Timeline)
		return nil
	})
	return state, err
}

// SelectDate moves the selection to an explicit index or date
func (s *DashboardService) SelectDate(filter models.DateFilter) (models.TimelineState, error) {
	var state models.TimelineState
	err := s.write(func(ds *casedata.Dataset) error {
		var err error
		switch {
		case filter.Index != nil:
			err = ds.Timeline.SelectByIndex(*filter.Index)
		case filter.Date != "":
			err = ds.Timeline.Select(models.DateKey(filter.Date))
		default:
			err = ErrNoSelection
		}
		if err != nil {
			return err
		}
		state = timelineState(ds.Timeline)
		return nil
	})
	return state, err
}

// Step advances the selection by one frame
func (s *DashboardService) Step(loop bool) (models.TimelineState, error) {
	var state models.TimelineState
	err := s.write(func(ds *casedata.Dataset) error {
		if _, err := ds.Timeline.Step(loop); err != nil {
			return err
		}
		state = timelineState(ds.Timeline)
		return nil
	})
	return state, err
}

func resolveDate(ds *casedata.Dataset, filter models.DateFilter) (models.DateKey, error) {
	return ds.Timeline.Resolve(filter.Date, filter.Index)
}

func parseMetric(s string) (models.MetricName, error) {
	if s == "" {
		return models.MetricConfirmed, nil
	}
	m, err := models.ParseMetricName(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return m, nil
}
