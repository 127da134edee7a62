package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrExpireOffersCommandIsNotConstructed = errors.New(
	"ExpireOffersCommand must be created via NewExpireOffersCommand constructor",
)

// ExpireOffersCommand triggers a sweep over orders whose dispatch offer
// deadline has passed without acceptance. Each expired offer is cleared and
// the order re-dispatched to the next candidate.
//
// Example:
//
//	cmd := NewExpireOffersCommand()
//	// Run every second from the job scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("offer expiry sweep failed: %v", err)
//	}
type ExpireOffersCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireOffersCommand creates a parameterless sweep command.
func NewExpireOffersCommand() ExpireOffersCommand {
	return ExpireOffersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ExpireOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireOffersCommandIsNotConstructed)
}
