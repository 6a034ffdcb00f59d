package jobs

import (
	"context"
	"fmt"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/logger"
)

// SendPendingJoinRequestDigest emails each office owner the requests that
// have been pending longer than the configured age.
func (jr *JobRunner) SendPendingJoinRequestDigest() {
	_ = jr.runWithRecovery(JobPendingDigest, jr.sendPendingDigest)
}

func (jr *JobRunner) sendPendingDigest(ctx context.Context) error {
	cutoff := jr.now().Add(-jr.digestAfter)
	reqs, err := jr.repos.JoinRequests.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list pending join requests: %w", err)
	}
	if len(reqs) == 0 {
		logger.Debug("No stale pending join requests", "cutoff", cutoff)
		return nil
	}

	// Rows arrive ordered by office.
	sent, failed := 0, 0
	for start := 0; start < len(reqs); {
		end := start
		for end < len(reqs) && reqs[end].OfficeID == reqs[start].OfficeID {
			end++
		}
		if err := jr.sendOfficeDigest(ctx, reqs[start].OfficeID, reqs[start:end]); err != nil {
			logger.Error("Failed to send pending digest", "office_id", reqs[start].OfficeID, "error", err)
			failed++
		} else {
			sent++
		}
		start = end
	}

	logger.Info("Pending join request digests sent", "offices", sent, "failed", failed, "requests", len(reqs))
	if failed > 0 {
		return fmt.Errorf("%d of %d digests failed", failed, sent+failed)
	}
	return nil
}

func (jr *JobRunner) sendOfficeDigest(ctx context.Context, officeID int32, reqs []domain.JoinRequest) error {
	office, err := jr.repos.Offices.GetByID(ctx, officeID)
	if err != nil {
		return fmt.Errorf("failed to get office: %w", err)
	}
	owner, err := jr.repos.Users.GetByID(ctx, office.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to get office owner: %w", err)
	}
	return jr.email.SendPendingDigest(ctx, owner.Email, owner.Name, office.Name, reqs)
}
