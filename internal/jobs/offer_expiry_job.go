package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OfferExpiryJob sweeps dispatch offers whose deadline passed. Runs every
// second so a silent courier blocks an order for at most one tick beyond the
// offer TTL before the next candidate is tried.
type OfferExpiryJob struct {
	handler commands.ExpireOffersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOfferExpiryJob creates the expiry sweep job.
func NewOfferExpiryJob(handler commands.ExpireOffersCommandHandler, logger *slog.Logger) *OfferExpiryJob {
	return &OfferExpiryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "offer_expiry_job"),
	}
}

// Start begins the expiry sweep, running every second.
func (j *OfferExpiryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewExpireOffersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Offer expiry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer expiry job started (running every second)")
	return nil
}

// Stop stops the expiry sweep.
func (j *OfferExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Offer expiry job stopped")
}
