package service

import (
	"context"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

const (
	defaultInboxLimit = 20
	maxInboxLimit     = 100
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	tel      telemetry
}

func NewNotificationService(noteRepo repository.NotificationRepository, m *metrics.Metrics) NotificationService {
	return &notificationService{
		noteRepo: noteRepo,
		tel:      newTelemetry("NotificationService", m),
	}
}

type inboxPage struct {
	items []domain.Notification
	total int32
}

func (s *notificationService) GetNotifications(ctx context.Context, actor domain.Actor, limit, offset int32) ([]domain.Notification, int32, error) {
	page, err := withTelemetry(ctx, s.tel, "GetNotifications", actor, func(ctx context.Context) (inboxPage, error) {
		if limit <= 0 {
			limit = defaultInboxLimit
		}
		if limit > maxInboxLimit {
			limit = maxInboxLimit
		}
		if offset < 0 {
			offset = 0
		}
		items, total, err := s.noteRepo.List(ctx, actor.UserID, limit, offset)
		return inboxPage{items: items, total: total}, err
	})
	return page.items, page.total, err
}

// MarkAsRead only touches the actor's own notifications; anyone else's id reports not found.
func (s *notificationService) MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error {
	_, err := withTelemetry(ctx, s.tel, "MarkAsRead", actor, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.noteRepo.MarkAsRead(ctx, notificationID, actor.UserID)
	})
	return err
}
