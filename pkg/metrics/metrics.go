package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge

	bookingOutcomes     *prometheus.CounterVec
	gatewayCalls        *prometheus.HistogramVec
	reconciliationCases prometheus.Counter
}

// New регистрирует метрики в глобальном registry (для promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registry
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests by route, method and status",
			ConstLabels: labels,
		}, []string{"route", "method", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),

		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation", "status"}),

		dbOpenConns: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		dbInUseConns: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		dbIdleConns: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
		dbWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		bookingOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_lifecycle_outcomes_total",
			Help:        "Booking lifecycle operations by stage and outcome",
			ConstLabels: labels,
		}, []string{"stage", "outcome"}),

		gatewayCalls: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "payment_gateway_call_duration_seconds",
			Help:        "Payment gateway call latency by operation and outcome",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),

		reconciliationCases: factory.NewCounter(prometheus.CounterOpts{
			Name:        "booking_reconciliation_cases_total",
			Help:        "Authorizations that could not be matched with a persisted booking",
			ConstLabels: labels,
		}),
	}
}

// ObserveHTTP записывает метрики HTTP-запроса
func (m *Metrics) ObserveHTTP(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveQuery записывает длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, err error, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation, outcome(err)).Observe(duration.Seconds())
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(open, inUse, idle int, waitCount int64) {
	m.dbOpenConns.Set(float64(open))
	m.dbInUseConns.Set(float64(inUse))
	m.dbIdleConns.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// IncBookingOutcome увеличивает счетчик исходов жизненного цикла бронирования
func (m *Metrics) IncBookingOutcome(stage, result string) {
	m.bookingOutcomes.WithLabelValues(stage, result).Inc()
}

// ObserveGatewayCall записывает длительность вызова платежного шлюза
func (m *Metrics) ObserveGatewayCall(operation string, err error, duration time.Duration) {
	m.gatewayCalls.WithLabelValues(operation, outcome(err)).Observe(duration.Seconds())
}

// IncReconciliationCases увеличивает счетчик случаев для ручной сверки
func (m *Metrics) IncReconciliationCases() {
	m.reconciliationCases.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
