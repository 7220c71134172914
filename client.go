package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// RequestConfig carries per-request options passed through, opaquely to
// the module, to the Client.
type RequestConfig struct {
	// Header entries are added to the request headers.
	Header http.Header

	// Query entries are appended to the request URL.
	Query url.Values
}

// Response is the uniform response shape returned by a Client.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Header is the response header set.
	Header http.Header

	// Data is the raw response body. The default parsers JSON-decode it.
	Data []byte
}

// Client issues the HTTP requests behind a module's actions. One method
// per verb; each returns the response or an error. Implementations must
// report non-success responses as errors so the module records them.
//
// The default implementation is HTTPClient; see also
// pkg/middleware for Prometheus and OpenTelemetry client wrappers.
type Client interface {
	Get(ctx context.Context, url string, cfg *RequestConfig) (*Response, error)
	Post(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error)
	Patch(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error)
	Put(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error)
	Delete(ctx context.Context, url string, cfg *RequestConfig) (*Response, error)
}

// HTTPClient is the default Client, backed by net/http. Request bodies
// are JSON-encoded; responses outside the 2xx range are returned as
// *APIError.
type HTTPClient struct {
	// HTTP is the underlying client. Nil means http.DefaultClient.
	HTTP *http.Client

	// BaseURL is prepended to request URLs that are not absolute.
	// Useful when modules are configured with path-only roots like
	// "/api/articles".
	BaseURL string
}

// DefaultClient is the shared Client used when Config.Client is nil.
var DefaultClient Client = &HTTPClient{}

// Get implements Client.
func (c *HTTPClient) Get(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, cfg)
}

// Post implements Client.
func (c *HTTPClient) Post(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, data, cfg)
}

// Patch implements Client.
func (c *HTTPClient) Patch(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodPatch, url, data, cfg)
}

// Put implements Client.
func (c *HTTPClient) Put(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodPut, url, data, cfg)
}

// Delete implements Client.
func (c *HTTPClient) Delete(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodDelete, url, nil, cfg)
}

func (c *HTTPClient) do(ctx context.Context, method, rawURL string, data any, cfg *RequestConfig) (*Response, error) {
	var body io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("crud: encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	target := rawURL
	if c.BaseURL != "" && !strings.Contains(rawURL, "://") {
		target = strings.TrimSuffix(c.BaseURL, "/") + rawURL
	}
	if cfg != nil && len(cfg.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + cfg.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cfg != nil {
		for key, values := range cfg.Header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{Code: res.StatusCode, Body: raw}
	}

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header.Clone(),
		Data:       raw,
	}, nil
}
