package sqldb

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.lumend.dev/core/metrics"
)

func opSampleCount(t *testing.T, op, entity string) uint64 {
	var m dto.Metric
	var h, ok = metrics.DatabaseOpSeconds.WithLabelValues(op, entity).(prometheus.Metric)
	require.True(t, ok)
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestTimerRecordsOnceIncludingErrorPaths(t *testing.T) {
	var db = openTestDB(t, "sqlite3://:memory:")

	var withTimer = func(fail bool) error {
		defer db.SelectTimer("timertest").ObserveDuration()
		if fail {
			return errors.New("operation failed")
		}
		return nil
	}

	var before = opSampleCount(t, "select", "timertest")

	require.NoError(t, withTimer(false))
	assert.Equal(t, before+1, opSampleCount(t, "select", "timertest"))

	// The measurement lands even when the scope exits with an error.
	require.Error(t, withTimer(true))
	assert.Equal(t, before+2, opSampleCount(t, "select", "timertest"))

	// Each operation kind records under its own composite name.
	db.InsertTimer("timertest").ObserveDuration()
	db.UpdateTimer("timertest").ObserveDuration()
	db.DeleteTimer("timertest").ObserveDuration()

	assert.Equal(t, uint64(1), opSampleCount(t, "insert", "timertest"))
	assert.Equal(t, uint64(1), opSampleCount(t, "update", "timertest"))
	assert.Equal(t, uint64(1), opSampleCount(t, "delete", "timertest"))
	assert.Equal(t, before+2, opSampleCount(t, "select", "timertest"))
}
