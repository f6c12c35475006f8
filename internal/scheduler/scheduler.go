package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/huyhqq/Student-Club-Management-System/internal/jobs"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner.
// It fails when a configured schedule cannot be parsed.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Settings()

	// Daily reminder to presidents with stale join requests
	if _, err := s.cron.AddFunc(cfg.RemindSchedule, func() { _ = s.jobs.RemindPendingJoinRequests() }); err != nil {
		logger.Error("Failed to register RemindPendingJoinRequests job", "error", err)
		return err
	}

	// Inbox housekeeping
	if _, err := s.cron.AddFunc(cfg.PurgeSchedule, func() { _ = s.jobs.PurgeReadNotifications() }); err != nil {
		logger.Error("Failed to register PurgeReadNotifications job", "error", err)
		return err
	}

	logger.Info("All cron jobs registered successfully", "jobs", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the registered cron entries
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
