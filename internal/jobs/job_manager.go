package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	offerExpiryJob *OfferExpiryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	expireOffersHandler commands.ExpireOffersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		offerExpiryJob: NewOfferExpiryJob(expireOffersHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.offerExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer expiry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.offerExpiryJob.Stop()
}
