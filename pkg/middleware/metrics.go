package middleware

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-go/crud"
)

// MetricsConfig configures the Prometheus client middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "crud").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus client middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry. Middlewares created
// against distinct registries hold distinct collectors; all middlewares
// on the default registry share one collector set.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "crud",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for the client middleware.
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Collectors on the default registry are created once; repeated
// Prometheus() calls reuse them instead of double-registering.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of resource requests issued",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Resource request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "in_flight_requests",
			Help:        "Number of resource requests currently in flight",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func resolveMetrics(config MetricsConfig) *metrics {
	if config.Registry != prometheus.DefaultRegisterer {
		return initMetrics(config)
	}
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	return globalMetrics
}

// Prometheus creates middleware that records a counter by method and
// status, a duration histogram by method, and an in-flight gauge for
// every request the wrapped client issues.
//
// Example:
//
//	articles := crud.MustNew(crud.Config[Article]{
//	    Resource: "articles",
//	    Client:   middleware.Prometheus()(&crud.HTTPClient{}),
//	})
func Prometheus(opts ...MetricsOption) Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := resolveMetrics(config)

	return func(next crud.Client) crud.Client {
		return &metricsClient{next: next, metrics: m}
	}
}

type metricsClient struct {
	next    crud.Client
	metrics *metrics
}

func (c *metricsClient) Get(ctx context.Context, url string, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.observe("GET", func() (*crud.Response, error) {
		return c.next.Get(ctx, url, cfg)
	})
}

func (c *metricsClient) Post(ctx context.Context, url string, data any, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.observe("POST", func() (*crud.Response, error) {
		return c.next.Post(ctx, url, data, cfg)
	})
}

func (c *metricsClient) Patch(ctx context.Context, url string, data any, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.observe("PATCH", func() (*crud.Response, error) {
		return c.next.Patch(ctx, url, data, cfg)
	})
}

func (c *metricsClient) Put(ctx context.Context, url string, data any, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.observe("PUT", func() (*crud.Response, error) {
		return c.next.Put(ctx, url, data, cfg)
	})
}

func (c *metricsClient) Delete(ctx context.Context, url string, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.observe("DELETE", func() (*crud.Response, error) {
		return c.next.Delete(ctx, url, cfg)
	})
}

func (c *metricsClient) observe(method string, fn func() (*crud.Response, error)) (*crud.Response, error) {
	c.metrics.inFlight.Inc()
	start := time.Now()

	res, err := fn()

	c.metrics.inFlight.Dec()
	c.metrics.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	c.metrics.requests.WithLabelValues(method, statusLabel(res, err)).Inc()

	return res, err
}

// statusLabel derives the status label from the settlement: the HTTP
// status code when known, else "error" for transport failures.
func statusLabel(res *crud.Response, err error) string {
	if err == nil {
		if res != nil {
			return strconv.Itoa(res.StatusCode)
		}
		return "ok"
	}
	var apiErr *crud.APIError
	if errors.As(err, &apiErr) {
		return strconv.Itoa(apiErr.StatusCode())
	}
	return "error"
}
