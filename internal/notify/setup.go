package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/config"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

// NewFromConfig builds a dispatcher with the inbox sink plus whichever of the email and
// push sinks the configuration enables. The dispatcher is not started.
func NewFromConfig(
	ctx context.Context,
	cfg config.NotificationsConfig,
	users repository.UserRepository,
	notes repository.NotificationRepository,
	m *metrics.Metrics,
) (*Dispatcher, error) {
	sinks := []Sink{NewInboxSink(notes)}

	if cfg.Email.APIKey != "" {
		logger.Info("Email notifications enabled", "from", cfg.Email.FromEmail)
		sinks = append(sinks, NewEmailSink(users, cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName))
	}

	if cfg.Push.CredentialsFile != "" {
		push, err := NewPushSink(ctx, cfg.Push.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("push sink: %w", err)
		}
		logger.Info("Push notifications enabled")
		sinks = append(sinks, push)
	}

	return NewDispatcher(Config{
		Workers:       cfg.Workers,
		QueueSize:     cfg.QueueSize,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  time.Duration(cfg.RetryBackoffMS) * time.Millisecond,
		JobTimeout:    time.Duration(cfg.JobTimeoutSecond) * time.Second,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}, m, sinks...), nil
}
