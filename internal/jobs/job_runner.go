package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/config"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
	"github.com/huyhqq/Student-Club-Management-System/internal/service"
)

const (
	JobRemindPendingJoinRequests = "remind_pending_join_requests"
	JobPurgeReadNotifications    = "purge_read_notifications"
)

// Settings are the job thresholds and schedules, taken from config
type Settings struct {
	PendingReminderAge time.Duration
	InboxRetention     time.Duration
	RemindSchedule     string
	PurgeSchedule      string
	Timeout            time.Duration
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	requests      repository.JoinRequestRepository
	notifications repository.NotificationRepository
	notifier      service.Notifier
	metrics       *metrics.Metrics
	settings      Settings
	now           func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	requests repository.JoinRequestRepository,
	notifications repository.NotificationRepository,
	notifier service.Notifier,
	m *metrics.Metrics,
	settings Settings,
) *JobRunner {
	if settings.Timeout <= 0 {
		settings.Timeout = 5 * time.Minute
	}
	return &JobRunner{
		requests:      requests,
		notifications: notifications,
		notifier:      notifier,
		metrics:       m,
		settings:      settings,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (jr *JobRunner) Settings() Settings {
	return jr.settings
}

// runWithRecovery wraps job execution with panic recovery, a timeout and a run metric
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), jr.settings.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		jr.metrics.RecordJobRun(jobName, err)
	}()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return nil
}

// Run executes one job by name (for manual execution)
func (jr *JobRunner) Run(jobName string) error {
	switch jobName {
	case JobRemindPendingJoinRequests:
		return jr.RemindPendingJoinRequests()
	case JobPurgeReadNotifications:
		return jr.PurgeReadNotifications()
	default:
		return fmt.Errorf("unknown job %q", jobName)
	}
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() error {
	var firstErr error
	for _, name := range []string{JobRemindPendingJoinRequests, JobPurgeReadNotifications} {
		if err := jr.Run(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SettingsFrom maps the loaded configuration onto job settings
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		PendingReminderAge: cfg.PendingReminderAge(),
		InboxRetention:     cfg.InboxRetention(),
		RemindSchedule:     cfg.Scheduler.RemindPendingJoinRequests,
		PurgeSchedule:      cfg.Scheduler.PurgeReadNotifications,
	}
}
