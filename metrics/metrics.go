package metrics

import "github.com/prometheus/client_golang/prometheus"

// Keys for lumend database metrics.
const (
	DatabaseOpSecondsKey    = "lumend_database_op_seconds"
	DatabaseQueriesTotalKey = "lumend_database_queries_total"

	Fail = "fail"
	Ok   = "ok"
)

// Collectors for lumend database metrics.
var (
	DatabaseOpSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: DatabaseOpSecondsKey,
		Help: "Time taken by database operations, by operation and entity.",
	}, []string{"operation", "entity"})
	DatabaseQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: DatabaseQueriesTotalKey,
		Help: "Cumulative number of database queries, by operation, entity and status.",
	}, []string{"operation", "entity", "status"})
)

// LedgerCollectors lists collectors used by the lumend node.
func LedgerCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		DatabaseOpSeconds,
		DatabaseQueriesTotal,
	}
}
