// Package metrics expone contadores Prometheus del portal en /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics colectores del servicio sobre un registro propio.
type Metrics struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	transitions  *prometheus.CounterVec
	auditEvents  *prometheus.CounterVec
	anomalyFlags *prometheus.CounterVec
}

// New registra los colectores de proceso, Go y del dominio.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Peticiones HTTP por método, ruta y estado.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "report_transitions_total",
			Help: "Transiciones de estado de reportes de gastos.",
		}, []string{"from", "to"}),
		auditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "audit_events_total",
			Help: "Entradas de auditoría por tipo y resultado de escritura.",
		}, []string{"action_type", "result"}),
		anomalyFlags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "anomaly_flags_total",
			Help: "Ítems marcados por el reporte de anomalías, por razón.",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.transitions, m.auditEvents, m.anomalyFlags,
	)
	return m
}

// Handler handler HTTP del registro, para montar en /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso al registro (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest registra una petición HTTP terminada.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveTransition registra un cambio de estado de reporte.
func (m *Metrics) ObserveTransition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

// ObserveAudit registra una escritura de auditoría.
func (m *Metrics) ObserveAudit(actionType string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.auditEvents.WithLabelValues(actionType, result).Inc()
}

// ObserveAnomalies suma los ítems marcados por razón.
func (m *Metrics) ObserveAnomalies(byReason map[string]int) {
	for reason, n := range byReason {
		m.anomalyFlags.WithLabelValues(reason).Add(float64(n))
	}
}
