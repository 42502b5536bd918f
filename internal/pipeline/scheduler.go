package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guarzo/psalistings/internal/config"
	"github.com/guarzo/psalistings/internal/metrics"
)

// RunnerFactory builds the runner for one scheduled batch. It is called per
// tick so every batch authenticates with a fresh client.
type RunnerFactory func() *Runner

// Scheduler re-runs a batch of searches on a cron schedule. Batches never
// overlap: a tick that fires while the previous batch is running is skipped.
type Scheduler struct {
	spec      string
	searches  []config.Search
	newRunner RunnerFactory

	mu      sync.RWMutex
	last    *RunResult
	lastErr error
	runs    int
}

// NewScheduler validates spec (standard 5-field cron or @descriptor)
func NewScheduler(spec string, searches []config.Search, newRunner RunnerFactory) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if newRunner == nil {
		return nil, fmt.Errorf("runner factory is required")
	}
	return &Scheduler{
		spec:      spec,
		searches:  searches,
		newRunner: newRunner,
	}, nil
}

// Start runs the batch on every tick until ctx is cancelled, then waits for
// an in-flight batch to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(s.spec, func() { s.RunNow(ctx) }); err != nil {
		return fmt.Errorf("scheduling batch: %w", err)
	}

	log.Printf("Scheduler: running %d searches on schedule %q", len(s.searches), s.spec)
	c.Start()

	<-ctx.Done()
	log.Printf("Scheduler: stopping")
	<-c.Stop().Done()
	return nil
}

// RunNow executes one batch immediately and records its result.
func (s *Scheduler) RunNow(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	result, err := s.newRunner().Run(ctx, s.searches)

	metrics.RunsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	metrics.LastRunTimestamp.SetToCurrentTime()
	if err != nil {
		log.Printf("Scheduler: batch failed: %v", err)
	}

	s.mu.Lock()
	s.last = result
	s.lastErr = err
	s.runs++
	s.mu.Unlock()

	return result, err
}

// Last returns the most recent batch result, or nil before the first run.
func (s *Scheduler) Last() (*RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastErr
}

// Runs returns how many batches have completed
func (s *Scheduler) Runs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs
}
