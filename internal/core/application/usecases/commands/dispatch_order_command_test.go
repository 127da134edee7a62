package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
)

func TestNewDispatchOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewDispatchOrderCommand(orderID)
	require.NoError(t, err)

	assert.Equal(t, orderID, cmd.OrderID())
	require.NoError(t, cmd.Validate())
}

func TestNewDispatchOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewDispatchOrderCommand(kernel.UUID{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestDispatchOrderCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.DispatchOrderCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrDispatchOrderCommandIsNotConstructed, err)
}

func TestExclusionPolicy_Validate(t *testing.T) {
	require.NoError(t, commands.ExcludeForOrder.Validate())
	require.NoError(t, commands.ExcludeForPass.Validate())
	require.Error(t, commands.ExclusionPolicy("forever").Validate())
}
