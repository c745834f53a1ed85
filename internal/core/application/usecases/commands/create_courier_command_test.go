package commands_test

import (
	"errors"
	"testing"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateCourierCommand(t *testing.T) {
	cmd, err := commands.NewCreateCourierCommand("  Ravi Kumar ", " +91-9000000001 ")

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "Ravi Kumar", cmd.Name())
	assert.Equal(t, "+91-9000000001", cmd.Phone())
	assert.NoError(t, cmd.CourierID().Validate())
}

func TestNewCreateCourierCommand_RequiresName(t *testing.T) {
	_, err := commands.NewCreateCourierCommand("   ", "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCreateCourierCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateCourierCommand("Ravi", "+91-9000000001")
	require.NoError(t, err)

	repo := new(MockCourierRepository)
	uow := new(MockUoW)
	uow.On("CourierRepository").Return(repo)
	calls := []*mock.Call{
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
	}
	mock.InOrder(append(calls, expectTx(ctx, uow, nil)...)...)

	h := commands.NewCreateCourierCommandHandler(courierUoWFactory{uowFactory{uow}})
	c, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, c.ID().IsEqual(cmd.CourierID()))
	assert.Equal(t, courier.Offline, c.Availability())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateCourierCommandHandler_Handle_Errors(t *testing.T) {
	t.Run("not constructed", func(t *testing.T) {
		h := commands.NewCreateCourierCommandHandler(courierUoWFactory{uowFactory{new(MockUoW)}})

		_, err := h.Handle(t.Context(), commands.CreateCourierCommand{})

		require.ErrorIs(t, err, commands.ErrCreateCourierCommandIsNotConstructed)
	})

	t.Run("begin fails", func(t *testing.T) {
		ctx := t.Context()
		cmd, _ := commands.NewCreateCourierCommand("Ravi", "")
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

		h := commands.NewCreateCourierCommandHandler(courierUoWFactory{uowFactory{uow}})
		_, err := h.Handle(ctx, cmd)

		require.EqualError(t, err, "begin error")
		uow.AssertExpectations(t)
	})

	t.Run("add fails", func(t *testing.T) {
		ctx := t.Context()
		cmd, _ := commands.NewCreateCourierCommand("Ravi", "")
		repo := new(MockCourierRepository)
		uow := new(MockUoW)
		uow.On("CourierRepository").Return(repo)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			repo.On("Add", ctx, mock.Anything).Return(errors.New("add error")).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		h := commands.NewCreateCourierCommandHandler(courierUoWFactory{uowFactory{uow}})
		_, err := h.Handle(ctx, cmd)

		require.EqualError(t, err, "add error")
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.AssertExpectations(t)
	})
}
