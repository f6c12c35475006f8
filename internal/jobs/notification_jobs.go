package jobs

import (
	"context"
	"fmt"

	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
)

// PurgeReadNotifications deletes read inbox rows older than the retention window
func (jr *JobRunner) PurgeReadNotifications() error {
	return jr.runWithRecovery(JobPurgeReadNotifications, func(ctx context.Context) error {
		before := jr.now().Add(-jr.settings.InboxRetention)

		deleted, err := jr.notifications.DeleteReadBefore(ctx, before)
		if err != nil {
			return fmt.Errorf("delete read notifications: %w", err)
		}

		logger.Info("Purged read notifications", "deleted", deleted, "before", before)
		return nil
	})
}
