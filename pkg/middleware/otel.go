package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/crud"
)

// Default tracer name for crud clients.
const defaultTracerName = "crud"

// OTelConfig configures the OpenTelemetry client middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "crud").
	TracerName string

	// Attributes are added to every request span.
	Attributes []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry client middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithAttributes adds constant attributes to every request span.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// OpenTelemetry creates middleware that starts a client span for every
// request the wrapped client issues, records the method, URL and status
// code, and marks failed requests as errored.
//
// The tracer uses the global OpenTelemetry tracer provider; configure
// it with otel.SetTracerProvider before issuing requests.
func OpenTelemetry(opts ...OTelOption) Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(next crud.Client) crud.Client {
		return &otelClient{next: next, config: config}
	}
}

type otelClient struct {
	next   crud.Client
	config OTelConfig
}

func (c *otelClient) Get(ctx context.Context, url string, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.trace(ctx, "GET", url, func(ctx context.Context) (*crud.Response, error) {
		return c.next.Get(ctx, url, cfg)
	})
}

func (c *otelClient) Post(ctx context.Context, url string, data any, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.trace(ctx, "POST", url, func(ctx context.Context) (*crud.Response, error) {
		return c.next.Post(ctx, url, data, cfg)
	})
}

func (c *otelClient) Patch(ctx context.Context, url string, data any, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.trace(ctx, "PATCH", url, func(ctx context.Context) (*crud.Response, error) {
		return c.next.Patch(ctx, url, data, cfg)
	})
}

func (c *otelClient) Put(ctx context.Context, url string, data any, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.trace(ctx, "PUT", url, func(ctx context.Context) (*crud.Response, error) {
		return c.next.Put(ctx, url, data, cfg)
	})
}

func (c *otelClient) Delete(ctx context.Context, url string, cfg *crud.RequestConfig) (*crud.Response, error) {
	return c.trace(ctx, "DELETE", url, func(ctx context.Context) (*crud.Response, error) {
		return c.next.Delete(ctx, url, cfg)
	})
}

func (c *otelClient) trace(ctx context.Context, method, url string, fn func(context.Context) (*crud.Response, error)) (*crud.Response, error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", method),
		attribute.String("url.full", url),
	}
	attrs = append(attrs, c.config.Attributes...)

	spanCtx, span := c.config.tracer.Start(
		ctx,
		"crud "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	defer span.End()

	res, err := fn(spanCtx)

	if res != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}
	if err != nil {
		var apiErr *crud.APIError
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.Int("http.response.status_code", apiErr.StatusCode()))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return res, err
}
