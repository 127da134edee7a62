package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

func TestNewCreateCourierCommand_ValidInput(t *testing.T) {
	courierID := kernel.NewUUID()

	cmd, err := commands.NewCreateCourierCommand(courierID, "Valentina", courier.VehicleBicycle)
	require.NoError(t, err)

	assert.Equal(t, courierID, cmd.CourierID())
	assert.Equal(t, "Valentina", cmd.Name())
	assert.Equal(t, courier.VehicleBicycle, cmd.Vehicle())
	require.NoError(t, cmd.Validate())
}

func TestNewCreateCourierCommand_EmptyName(t *testing.T) {
	_, err := commands.NewCreateCourierCommand(kernel.NewUUID(), "", courier.VehicleBicycle)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateCourierCommand_InvalidVehicle(t *testing.T) {
	_, err := commands.NewCreateCourierCommand(kernel.NewUUID(), "Valentina", courier.Vehicle(0))
	require.Error(t, err)
}

func TestCreateCourierCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.CreateCourierCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrCreateCourierCommandIsNotConstructed, err)
}
