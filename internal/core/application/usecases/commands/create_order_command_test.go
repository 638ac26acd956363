package commands_test

import (
	"testing"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	orderID := kernel.NewUUID()
	patientID := kernel.NewUUID()
	pharmacyID := kernel.NewUUID()

	t.Run("valid command", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(orderID, patientID, pharmacyID, testTotal(t), testAddress(t))

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.True(t, cmd.PatientID().IsEqual(patientID))
		assert.True(t, cmd.PharmacyID().IsEqual(pharmacyID))
	})

	t.Run("zero-value ids are rejected", func(t *testing.T) {
		var zeroID kernel.UUID
		_, err := commands.NewCreateOrderCommand(zeroID, patientID, pharmacyID, testTotal(t), testAddress(t))
		require.Error(t, err)

		_, err = commands.NewCreateOrderCommand(orderID, zeroID, pharmacyID, testTotal(t), testAddress(t))
		require.Error(t, err)
	})

	t.Run("zero-value total and address are rejected", func(t *testing.T) {
		var zeroTotal kernel.Money
		_, err := commands.NewCreateOrderCommand(orderID, patientID, pharmacyID, zeroTotal, testAddress(t))
		require.Error(t, err)

		var zeroAddress kernel.Address
		_, err = commands.NewCreateOrderCommand(orderID, patientID, pharmacyID, testTotal(t), zeroAddress)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}

func TestNewReviewOrderCommand(t *testing.T) {
	orderID := kernel.NewUUID()
	pharmacistID := kernel.NewUUID()

	t.Run("approval needs no reason", func(t *testing.T) {
		cmd, err := commands.NewReviewOrderCommand(orderID, pharmacistID, true, "")

		require.NoError(t, err)
		assert.True(t, cmd.Approve())
		assert.Empty(t, cmd.Reason())
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		_, err := commands.NewReviewOrderCommand(orderID, pharmacistID, false, "")
		require.ErrorIs(t, err, commands.ErrRejectionReasonIsRequired)

		cmd, err := commands.NewReviewOrderCommand(orderID, pharmacistID, false, "prescription expired")
		require.NoError(t, err)
		assert.Equal(t, "prescription expired", cmd.Reason())
	})
}

func TestNewProcessPaymentCommand(t *testing.T) {
	t.Run("method is required", func(t *testing.T) {
		_, err := commands.NewProcessPaymentCommand(kernel.NewUUID(), kernel.NewUUID(), "")
		require.Error(t, err)
	})

	t.Run("valid command", func(t *testing.T) {
		cmd, err := commands.NewProcessPaymentCommand(kernel.NewUUID(), kernel.NewUUID(), "cash_on_delivery")
		require.NoError(t, err)
		assert.Equal(t, "cash_on_delivery", cmd.Method())
	})
}

func TestNewCompleteDeliveryCommand_NotesAreOptional(t *testing.T) {
	cmd, err := commands.NewCompleteDeliveryCommand(kernel.NewUUID(), kernel.NewUUID(), "")
	require.NoError(t, err)
	assert.Empty(t, cmd.Notes())
}
