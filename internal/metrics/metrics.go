// Package metrics exposes HTTP and business counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hostel"

// Metrics owns a private registry so tests can build as many as they like.
// All recording methods are safe on a nil receiver.
type Metrics struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	feePayments     prometheus.Counter
	feeAmount       prometheus.Counter
	salaryPayments  prometheus.Counter
	capacityRejects prometheus.Counter
	importedRows    *prometheus.CounterVec
	loginFailures   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		feePayments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_payments_total",
			Help:      "Fee payments recorded.",
		}),
		feeAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_payments_amount_total",
			Help:      "Sum of recorded fee payments in major currency units.",
		}),
		salaryPayments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "salary_payments_total",
			Help:      "Salary payments recorded.",
		}),
		capacityRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_capacity_rejections_total",
			Help:      "Placements rejected because the room was full.",
		}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_import_rows_total",
			Help:      "Bulk import rows by result.",
		}, []string{"result"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_failures_total",
			Help:      "Failed admin logins.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration,
		m.feePayments, m.feeAmount, m.salaryPayments,
		m.capacityRejects, m.importedRows, m.loginFailures,
	)
	return m
}

// Handler serves the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) FeePaymentRecorded(amountCent int64) {
	if m == nil {
		return
	}
	m.feePayments.Inc()
	m.feeAmount.Add(float64(amountCent) / 100)
}

func (m *Metrics) SalaryPaymentRecorded() {
	if m == nil {
		return
	}
	m.salaryPayments.Inc()
}

func (m *Metrics) CapacityRejected() {
	if m == nil {
		return
	}
	m.capacityRejects.Inc()
}

func (m *Metrics) ImportRows(succeeded, failed int) {
	if m == nil {
		return
	}
	m.importedRows.WithLabelValues("success").Add(float64(succeeded))
	m.importedRows.WithLabelValues("error").Add(float64(failed))
}

func (m *Metrics) LoginFailed() {
	if m == nil {
		return
	}
	m.loginFailures.Inc()
}
