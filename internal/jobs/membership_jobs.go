package jobs

import (
	"context"
	"time"

	"huddleup-backend/internal/logger"
)

// PurgeProcessedJoinRequests deletes APPROVED and REJECTED join requests
// past the retention window. Terminal requests are immutable, so removing
// old ones never affects the live request lifecycle.
func (jr *JobRunner) PurgeProcessedJoinRequests() {
	jr.runWithRecovery("purge-processed-join-requests", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -jr.config.Retention.ProcessedJoinRequestDays)

		deleted, err := jr.store.DeleteProcessedBefore(ctx, cutoff.Format(time.RFC3339))
		if err != nil {
			logger.Error("Failed to purge processed join requests", "error", err)
			return
		}
		logger.Info("Purged processed join requests", "deleted", deleted, "cutoff", cutoff.Format("2006-01-02"))
	})
}

// PurgeStaleInvitations deletes advisory invitation records past the
// retention window. Admission runs on invite codes, not these records, so
// purging them is side-effect free.
func (jr *JobRunner) PurgeStaleInvitations() {
	jr.runWithRecovery("purge-stale-invitations", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -jr.config.Retention.InvitationDays)

		deleted, err := jr.store.DeleteCreatedBefore(ctx, cutoff.Format(time.RFC3339))
		if err != nil {
			logger.Error("Failed to purge stale invitations", "error", err)
			return
		}
		logger.Info("Purged stale invitations", "deleted", deleted, "cutoff", cutoff.Format("2006-01-02"))
	})
}
