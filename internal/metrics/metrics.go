// Package metrics exposes planner counters and latencies in Prometheus format
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculation kinds used as the "kind" label
const (
	KindSequential   = "sequential"
	KindFixedHorizon = "fixed_horizon"
	KindSweep        = "sweep"
)

var (
	calculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamtools_calculations_total",
		Help: "Planning calculations by kind and outcome",
	}, []string{"kind", "outcome"})

	calculationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "teamtools_calculation_duration_seconds",
		Help:    "Time to compute a plan",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"kind"})

	monitoringPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "teamtools_monitoring_points",
		Help:    "Rows in the monitoring table of a sequential plan",
		Buckets: []float64{1, 5, 10, 25, 52, 104, 260, 520},
	})
)

// ObserveCalculation records one calculation of kind that started at start
func ObserveCalculation(kind string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	calculationsTotal.WithLabelValues(kind, outcome).Inc()
	calculationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// ObserveMonitoringPoints records the size of a plan's monitoring table
func ObserveMonitoringPoints(n int) {
	monitoringPoints.Observe(float64(n))
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
