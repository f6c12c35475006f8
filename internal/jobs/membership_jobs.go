package jobs

import (
	"context"
	"fmt"

	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
)

// RemindPendingJoinRequests nudges each president whose club has join requests waiting
// longer than the configured age. One notice per club per run.
func (jr *JobRunner) RemindPendingJoinRequests() error {
	return jr.runWithRecovery(JobRemindPendingJoinRequests, func(ctx context.Context) error {
		cutoff := jr.now().Add(-jr.settings.PendingReminderAge)

		stale, err := jr.requests.ListStale(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("list stale join requests: %w", err)
		}

		for _, s := range stale {
			noun := "requests are"
			if s.Count == 1 {
				noun = "request is"
			}
			jr.notifier.Notify(ctx, s.PresidentID, "Join requests awaiting review",
				fmt.Sprintf("%d join %s still waiting for a decision in %q.", s.Count, noun, s.ClubName))
		}

		logger.Info("Pending join request reminders queued", "clubs", len(stale), "cutoff", cutoff)
		return nil
	})
}
