package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-go/crud"
)

// stubClient settles every verb with a scripted response or error and
// records the urls it saw.
type stubClient struct {
	res  *crud.Response
	err  error
	urls []string
}

func (c *stubClient) settle(url string) (*crud.Response, error) {
	c.urls = append(c.urls, url)
	if c.err != nil {
		return nil, c.err
	}
	if c.res != nil {
		return c.res, nil
	}
	return &crud.Response{StatusCode: 200}, nil
}

func (c *stubClient) Get(_ context.Context, url string, _ *crud.RequestConfig) (*crud.Response, error) {
	return c.settle(url)
}

func (c *stubClient) Post(_ context.Context, url string, _ any, _ *crud.RequestConfig) (*crud.Response, error) {
	return c.settle(url)
}

func (c *stubClient) Patch(_ context.Context, url string, _ any, _ *crud.RequestConfig) (*crud.Response, error) {
	return c.settle(url)
}

func (c *stubClient) Put(_ context.Context, url string, _ any, _ *crud.RequestConfig) (*crud.Response, error) {
	return c.settle(url)
}

func (c *stubClient) Delete(_ context.Context, url string, _ *crud.RequestConfig) (*crud.Response, error) {
	return c.settle(url)
}

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func metricsOf(t *testing.T, c crud.Client) *metrics {
	t.Helper()
	mc, ok := c.(*metricsClient)
	if !ok {
		t.Fatalf("expected *metricsClient, got %T", c)
	}
	return mc.metrics
}

func TestPrometheusMiddleware_RecordsSuccessAndError(t *testing.T) {
	t.Run("success counts by method and status", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()

		client := Prometheus(WithRegistry(reg))(&stubClient{})
		if _, err := client.Get(context.Background(), "/api/articles", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		m := metricsOf(t, client)
		if got := metricCounterValue(t, m.requests.WithLabelValues("GET", "200")); got != 1 {
			t.Fatalf("requests_total(GET,200)=%v, want 1", got)
		}
		if got := metricHistogramCount(t, m.duration.WithLabelValues("GET")); got != 1 {
			t.Fatalf("request_duration_seconds(GET) count=%v, want 1", got)
		}
		if got := metricGaugeValue(t, m.inFlight); got != 0 {
			t.Fatalf("in_flight_requests=%v, want 0 after settlement", got)
		}
	})

	t.Run("api error counts under its status code", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()

		stub := &stubClient{err: &crud.APIError{Code: 404}}
		client := Prometheus(WithRegistry(reg))(stub)
		if _, err := client.Delete(context.Background(), "/api/articles/1", nil); err == nil {
			t.Fatal("expected error to propagate")
		}

		m := metricsOf(t, client)
		if got := metricCounterValue(t, m.requests.WithLabelValues("DELETE", "404")); got != 1 {
			t.Fatalf("requests_total(DELETE,404)=%v, want 1", got)
		}
	})

	t.Run("transport error counts as error", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()

		stub := &stubClient{err: errors.New("connection refused")}
		client := Prometheus(WithRegistry(reg))(stub)
		if _, err := client.Post(context.Background(), "/api/articles", nil, nil); err == nil {
			t.Fatal("expected error to propagate")
		}

		m := metricsOf(t, client)
		if got := metricCounterValue(t, m.requests.WithLabelValues("POST", "error")); got != 1 {
			t.Fatalf("requests_total(POST,error)=%v, want 1", got)
		}
	})
}

func TestPrometheusMiddleware_CustomRegistriesAreIsolated(t *testing.T) {
	resetGlobalMetricsForTest()

	a := Prometheus(WithRegistry(prometheus.NewRegistry()))(&stubClient{})
	b := Prometheus(WithRegistry(prometheus.NewRegistry()))(&stubClient{})

	if _, err := a.Get(context.Background(), "/x", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := metricCounterValue(t, metricsOf(t, b).requests.WithLabelValues("GET", "200")); got != 0 {
		t.Fatalf("expected isolated registry to stay at 0, got %v", got)
	}
}

func TestPrometheusMiddleware_PassesCallsThrough(t *testing.T) {
	resetGlobalMetricsForTest()

	stub := &stubClient{res: &crud.Response{StatusCode: 202, Data: []byte(`{}`)}}
	client := Prometheus(WithRegistry(prometheus.NewRegistry()))(stub)

	res, err := client.Put(context.Background(), "/api/articles/9", map[string]any{"k": "v"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 202 {
		t.Errorf("StatusCode = %d, want 202", res.StatusCode)
	}
	if len(stub.urls) != 1 || stub.urls[0] != "/api/articles/9" {
		t.Errorf("urls = %v", stub.urls)
	}
}
