package worklog_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/worklog"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shiftStart = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func TestOpenAndClose(t *testing.T) {
	w, err := worklog.Open(kernel.NewUUID(), shiftStart)
	require.NoError(t, err)
	require.NoError(t, w.Validate())
	assert.True(t, w.IsOpen())
	assert.Zero(t, w.Duration())

	require.NoError(t, w.Close(shiftStart.Add(8*time.Hour+30*time.Minute)))
	assert.False(t, w.IsOpen())
	assert.Equal(t, 8*time.Hour+30*time.Minute, w.Duration())

	require.ErrorIs(t, w.Close(shiftStart.Add(9*time.Hour)), errs.ErrConflict)
}

func TestClose_ClockSkew(t *testing.T) {
	w, err := worklog.Open(kernel.NewUUID(), shiftStart)
	require.NoError(t, err)

	require.NoError(t, w.Close(shiftStart.Add(-time.Minute)))
	assert.Zero(t, w.Duration())
}

func TestRestoreWorkLog(t *testing.T) {
	before := shiftStart.Add(-time.Hour)

	_, err := worklog.RestoreWorkLog(kernel.NewUUID(), kernel.NewUUID(), shiftStart, &before)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = worklog.RestoreWorkLog(kernel.NewUUID(), kernel.NewUUID(), time.Time{}, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero worklog.WorkLog
	assert.ErrorIs(t, zero.Validate(), worklog.ErrWorkLogIsNotConstructed)
}
