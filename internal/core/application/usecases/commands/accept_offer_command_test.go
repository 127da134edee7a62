package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
)

func TestNewAcceptOfferCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()

	cmd, err := commands.NewAcceptOfferCommand(orderID, courierID)
	require.NoError(t, err)

	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, courierID, cmd.CourierID())
	require.NoError(t, cmd.Validate())
}

func TestNewAcceptOfferCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewAcceptOfferCommand(kernel.UUID{}, kernel.NewUUID())
	require.Error(t, err)

	_, err = commands.NewAcceptOfferCommand(kernel.NewUUID(), kernel.UUID{})
	require.Error(t, err)
}

func TestAcceptOfferCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.AcceptOfferCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrAcceptOfferCommandIsNotConstructed, err)
}
