package mainboilerplate

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.lumend.dev/core/metrics"
)

// MetricsConfig configures serving of process metrics.
type MetricsConfig struct {
	Port string `long:"port" env:"PORT" default:":8090" description:"Port for metrics listener"`
	Path string `long:"path" env:"PATH" default:"/metrics" description:"Path of the metrics handler"`
}

// InitMetrics registers the node's collectors and begins serving them over
// the configured port and path.
func InitMetrics(cfg MetricsConfig) {
	prometheus.MustRegister(metrics.LedgerCollectors()...)

	http.Handle(cfg.Path, promhttp.Handler())
	go func() { _ = http.ListenAndServe(cfg.Port, nil) }()
}
