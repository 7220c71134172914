package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/crud"
)

// ctxClient captures the context the middleware hands to the wrapped
// client.
type ctxClient struct {
	stubClient
	lastCtx context.Context
}

func (c *ctxClient) Get(ctx context.Context, url string, cfg *crud.RequestConfig) (*crud.Response, error) {
	c.lastCtx = ctx
	return c.stubClient.Get(ctx, url, cfg)
}

func TestOpenTelemetryMiddleware_PassesContextToClient(t *testing.T) {
	inner := &ctxClient{}
	client := OpenTelemetry()(inner)

	res, err := client.Get(context.Background(), "/api/articles", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", res.StatusCode)
	}
	if inner.lastCtx == nil {
		t.Fatal("expected a context to reach the wrapped client")
	}
	_ = trace.SpanContextFromContext(inner.lastCtx) // Should not panic
}

func TestOpenTelemetryMiddleware_ErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")
	client := OpenTelemetry()(&stubClient{err: wantErr})

	if _, err := client.Post(context.Background(), "/api/articles", nil, nil); !errors.Is(err, wantErr) {
		t.Fatalf("expected error %v, got %v", wantErr, err)
	}
}

func TestOpenTelemetryMiddleware_Options(t *testing.T) {
	client := OpenTelemetry(
		WithTracerName("articles-client"),
		WithAttributes(attribute.String("service.name", "demo")),
	)(&stubClient{})

	oc, ok := client.(*otelClient)
	if !ok {
		t.Fatalf("expected *otelClient, got %T", client)
	}
	if oc.config.TracerName != "articles-client" {
		t.Errorf("TracerName = %q", oc.config.TracerName)
	}
	if len(oc.config.Attributes) != 1 {
		t.Errorf("Attributes = %v", oc.config.Attributes)
	}
	if oc.config.tracer == nil {
		t.Error("expected a resolved tracer")
	}
}

func TestChainOrdersOutermostFirst(t *testing.T) {
	base := &stubClient{}
	client := Chain(base,
		OpenTelemetry(),
		Prometheus(WithRegistry(prometheus.NewRegistry())),
	)

	oc, ok := client.(*otelClient)
	if !ok {
		t.Fatalf("expected otel outermost, got %T", client)
	}
	mc, ok := oc.next.(*metricsClient)
	if !ok {
		t.Fatalf("expected metrics inside otel, got %T", oc.next)
	}
	if mc.next != base {
		t.Error("expected the base client innermost")
	}

	if _, err := client.Delete(context.Background(), "/api/articles/1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(base.urls) != 1 {
		t.Errorf("urls = %v", base.urls)
	}
}
