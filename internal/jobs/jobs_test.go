package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type relayerMock struct {
	mock.Mock
}

func (m *relayerMock) Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayOutboxResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RelayOutboxResult), args.Error(1)
}

type reconcilerMock struct {
	mock.Mock
}

func (m *reconcilerMock) ReconcileAll(ctx context.Context) ([]commands.ReconcileWalletResult, error) {
	args := m.Called(ctx)
	results, _ := args.Get(0).([]commands.ReconcileWalletResult)
	return results, args.Error(1)
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestOutboxRelayJob_Run(t *testing.T) {
	t.Run("logs a non-empty batch", func(t *testing.T) {
		logger, logs := observedLogger()
		relayer := &relayerMock{}
		relayer.On("Handle", mock.Anything, mock.AnythingOfType("commands.RelayOutboxCommand")).
			Return(commands.RelayOutboxResult{Sent: 3, Retried: 1}, nil).Once()

		NewOutboxRelayJob(relayer, "", 0, logger).Run(context.Background())

		relayer.AssertExpectations(t)
		entries := logs.FilterMessage("outbox batch relayed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(3), entries[0].ContextMap()["sent"])
		assert.Equal(t, "outbox_relay_job", entries[0].ContextMap()["component"])
	})

	t.Run("stays quiet on an empty outbox", func(t *testing.T) {
		logger, logs := observedLogger()
		relayer := &relayerMock{}
		relayer.On("Handle", mock.Anything, mock.Anything).Return(commands.RelayOutboxResult{}, nil).Once()

		NewOutboxRelayJob(relayer, "", 0, logger).Run(context.Background())

		assert.Zero(t, logs.Len())
	})

	t.Run("logs handler errors", func(t *testing.T) {
		logger, logs := observedLogger()
		relayer := &relayerMock{}
		relayer.On("Handle", mock.Anything, mock.Anything).
			Return(commands.RelayOutboxResult{}, errors.New("db down")).Once()

		NewOutboxRelayJob(relayer, "", 0, logger).Run(context.Background())

		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("negative batch size never reaches the handler", func(t *testing.T) {
		logger, logs := observedLogger()
		relayer := &relayerMock{}

		NewOutboxRelayJob(relayer, "", -1, logger).Run(context.Background())

		relayer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		assert.Equal(t, 1, logs.FilterMessage("build relay command").Len())
	})
}

func TestOutboxRelayJob_RunsOnSchedule(t *testing.T) {
	var ticks atomic.Int32
	relayer := &relayerMock{}
	relayer.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { ticks.Add(1) }).
		Return(commands.RelayOutboxResult{}, nil)

	job := NewOutboxRelayJob(relayer, "* * * * * *", 0, zap.NewNop())
	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool {
		return ticks.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestOutboxRelayJob_InvalidSchedule(t *testing.T) {
	job := NewOutboxRelayJob(&relayerMock{}, "every now and then", 0, zap.NewNop())

	assert.Error(t, job.Start())
}

func TestWalletReconciliationJob_Run(t *testing.T) {
	clean := commands.ReconcileWalletResult{
		CourierID: kernel.NewUUID(),
		Cached:    decimal.NewFromInt(50),
		Derived:   decimal.NewFromInt(50),
	}
	drifted := commands.ReconcileWalletResult{
		CourierID: kernel.NewUUID(),
		Cached:    decimal.NewFromInt(100),
		Derived:   decimal.NewFromInt(-899),
	}

	t.Run("reports repaired wallets", func(t *testing.T) {
		logger, logs := observedLogger()
		reconciler := &reconcilerMock{}
		reconciler.On("ReconcileAll", mock.Anything).
			Return([]commands.ReconcileWalletResult{clean, drifted}, nil).Once()

		NewWalletReconciliationJob(reconciler, "", logger).Run(context.Background())

		reconciler.AssertExpectations(t)
		warnings := logs.FilterMessage("wallet drift repaired").All()
		require.Len(t, warnings, 1)
		assert.Equal(t, drifted.CourierID.String(), warnings[0].ContextMap()["courier_id"])
		assert.Equal(t, "999.00", warnings[0].ContextMap()["drift"])

		summary := logs.FilterMessage("wallets reconciled").All()
		require.Len(t, summary, 1)
		assert.Equal(t, int64(2), summary[0].ContextMap()["checked"])
		assert.Equal(t, int64(1), summary[0].ContextMap()["repaired"])
	})

	t.Run("partial failure still reports what was reconciled", func(t *testing.T) {
		logger, logs := observedLogger()
		reconciler := &reconcilerMock{}
		reconciler.On("ReconcileAll", mock.Anything).
			Return([]commands.ReconcileWalletResult{drifted}, errors.New("courier x: timeout")).Once()

		NewWalletReconciliationJob(reconciler, "", logger).Run(context.Background())

		assert.Equal(t, 1, logs.FilterMessage("wallet drift repaired").Len())
		assert.Equal(t, 1, logs.FilterMessage("wallet reconciliation incomplete").Len())
	})
}

func TestJobManager_StartAllFailureStopsStartedJobs(t *testing.T) {
	jm := NewJobManager(&relayerMock{}, &reconcilerMock{}, Schedules{WalletReconcile: "bogus"}, zap.NewNop())

	err := jm.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet reconciliation job")
}

func TestJobManager_StartAndStop(t *testing.T) {
	relayer := &relayerMock{}
	relayer.On("Handle", mock.Anything, mock.Anything).Return(commands.RelayOutboxResult{}, nil).Maybe()
	jm := NewJobManager(relayer, &reconcilerMock{}, Schedules{}, zap.NewNop())

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}
