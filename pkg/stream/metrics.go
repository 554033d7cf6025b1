package stream

import (
	"net/http"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "transitnow"

type Metrics struct {
	registry *prometheus.Registry

	ticks         prometheus.Counter
	vehicles      prometheus.Gauge
	movingVehicle prometheus.Gauge
	clients       prometheus.Gauge
}

func NewMetrics() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "vehicle_feed",
			Name:      "ticks_total",
			Help:      "Number of simulator ticks observed.",
		}),
		vehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "vehicle_feed",
			Name:      "vehicles",
			Help:      "Vehicles in the last snapshot.",
		}),
		movingVehicle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "vehicle_feed",
			Name:      "moving_vehicles",
			Help:      "Vehicles with a positive speed in the last snapshot.",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
	}

	metrics.registry.MustRegister(metrics.ticks, metrics.vehicles, metrics.movingVehicle, metrics.clients)

	return metrics
}

// ObserveTick records a tick snapshot.
func (m *Metrics) ObserveTick(vehicles []*ctdf.Vehicle) {
	moving := 0
	for _, vehicle := range vehicles {
		if !vehicle.IsStopped() {
			moving++
		}
	}

	m.ticks.Inc()
	m.vehicles.Set(float64(len(vehicles)))
	m.movingVehicle.Set(float64(moving))
}

func (m *Metrics) SetClients(count int) {
	m.clients.Set(float64(count))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
