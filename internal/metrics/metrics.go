package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPath = "/metrics"

// Metrics は HTTP とビジネス指標のコレクタ。
// nil のままでも各メソッドは何もしない。
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	inProgress   *prometheus.GaugeVec
	orders       prometheus.Counter
	users        prometheus.Counter
	productViews *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1.0, 2.5, 5.0, 7.5, 10.0},
		}, []string{"method", "endpoint"}),
		inProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "Number of HTTP requests in progress",
		}, []string{"method", "endpoint"}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of orders placed",
		}),
		users: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of users registered",
		}),
		productViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "products_viewed_total",
			Help: "Total number of product views",
		}, []string{"product_id"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.latency,
		m.inProgress,
		m.orders,
		m.users,
		m.productViews,
	)
	return m
}

// GET /metrics 用
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware はルートのパス（/products/:id など）単位で記録する。
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil || c.Request().URL.Path == metricsPath {
				return next(c)
			}

			method := c.Request().Method
			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "unmatched"
			}

			m.inProgress.WithLabelValues(method, endpoint).Inc()
			defer m.inProgress.WithLabelValues(method, endpoint).Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			m.requests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.orders.Inc()
}

func (m *Metrics) UserRegistered() {
	if m == nil {
		return
	}
	m.users.Inc()
}

func (m *Metrics) ProductViewed(productID int64) {
	if m == nil {
		return
	}
	m.productViews.WithLabelValues(strconv.FormatInt(productID, 10)).Inc()
}
