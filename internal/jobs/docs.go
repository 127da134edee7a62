// Package jobs provides scheduled background tasks for the fulfillment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch protocol.
//
// # Available Jobs
//
// 1. OfferExpiryJob - Runs every second to expire overdue dispatch offers and
// re-dispatch the affected orders to the next ranked courier
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(expireOffersHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The expiry job uses the cron expression "* * * * * *" which means it runs
// every second. This frequency keeps the offer deadline sharp: a courier who
// never answers holds an order for at most one tick past the TTL.
//
// # Error Handling
//
// The sweep logs failures and carries on; an order whose update fails is
// retried on the next tick because its deadline remains in the past.
package jobs
