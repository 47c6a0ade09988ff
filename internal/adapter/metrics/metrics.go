package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SimulatorMetrics holds the Prometheus metrics exposed while a load
// simulation is running.
type SimulatorMetrics struct {
	OpsTotal        *prometheus.CounterVec
	DocumentsTotal  *prometheus.CounterVec
	OpenConnections prometheus.Gauge
}

// NewSimulatorMetrics initializes and registers the simulator metrics.
func NewSimulatorMetrics() *SimulatorMetrics {
	return &SimulatorMetrics{
		OpsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alert_simulator",
			Subsystem: "load",
			Name:      "ops_total",
			Help:      "Total number of load operations by simulation and status.",
		}, []string{"simulation", "status"}), // status: ok, error
		DocumentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alert_simulator",
			Subsystem: "load",
			Name:      "documents_total",
			Help:      "Total number of documents written by simulation.",
		}, []string{"simulation"}),
		OpenConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "alert_simulator",
			Subsystem: "load",
			Name:      "open_connections_gauge",
			Help:      "Number of client connections currently held open.",
		}),
	}
}
