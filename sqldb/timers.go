package sqldb

import (
	"github.com/prometheus/client_golang/prometheus"

	"go.lumend.dev/core/metrics"
)

// Operation labels of the database timing metric family.
const (
	opInsert = "insert"
	opSelect = "select"
	opUpdate = "update"
	opDelete = "delete"
)

func opTimer(op, entity string) *prometheus.Timer {
	return prometheus.NewTimer(metrics.DatabaseOpSeconds.WithLabelValues(op, entity))
}

// InsertTimer returns a timer token for an insert of |entity|. The caller
// defers ObserveDuration so the elapsed wall time is recorded when the
// operation's scope exits, on error paths included:
//
//	defer db.InsertTimer("account").ObserveDuration()
func (db *DB) InsertTimer(entity string) *prometheus.Timer {
	return opTimer(opInsert, entity)
}

// SelectTimer returns a timer token for a select of |entity|.
func (db *DB) SelectTimer(entity string) *prometheus.Timer {
	return opTimer(opSelect, entity)
}

// UpdateTimer returns a timer token for an update of |entity|.
func (db *DB) UpdateTimer(entity string) *prometheus.Timer {
	return opTimer(opUpdate, entity)
}

// DeleteTimer returns a timer token for a delete of |entity|.
func (db *DB) DeleteTimer(entity string) *prometheus.Timer {
	return opTimer(opDelete, entity)
}
