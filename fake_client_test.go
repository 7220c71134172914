package crud

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

// article is the resource used throughout the tests. The numeric id
// exercises the stringified-id bookkeeping.
type article struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func jsonBody(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// clientCall records one request the fake client received.
type clientCall struct {
	method string
	url    string
	data   any
	cfg    *RequestConfig
}

// fakeClient answers every verb with the scripted response or error,
// recording each call.
type fakeClient struct {
	mu       sync.Mutex
	calls    []clientCall
	response *Response
	err      error
}

func (c *fakeClient) record(method, url string, data any, cfg *RequestConfig) (*Response, error) {
	c.mu.Lock()
	c.calls = append(c.calls, clientCall{method: method, url: url, data: data, cfg: cfg})
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.response, nil
}

func (c *fakeClient) lastCall(t *testing.T) clientCall {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		t.Fatal("expected at least one client call")
	}
	return c.calls[len(c.calls)-1]
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *fakeClient) Get(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.record("GET", url, nil, cfg)
}

func (c *fakeClient) Post(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.record("POST", url, data, cfg)
}

func (c *fakeClient) Patch(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.record("PATCH", url, data, cfg)
}

func (c *fakeClient) Put(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.record("PUT", url, data, cfg)
}

func (c *fakeClient) Delete(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.record("DELETE", url, nil, cfg)
}

// funcClient routes every verb through a single function, for tests
// that need per-call behavior (blocking, inspection of payloads).
type funcClient struct {
	do func(method, url string, data any) (*Response, error)
}

func (c *funcClient) Get(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.do("GET", url, nil)
}

func (c *funcClient) Post(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do("POST", url, data)
}

func (c *funcClient) Patch(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do("PATCH", url, data)
}

func (c *funcClient) Put(ctx context.Context, url string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do("PUT", url, data)
}

func (c *funcClient) Delete(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.do("DELETE", url, nil)
}

// newTestModule builds an articles module over the given client.
func newTestModule(t *testing.T, client Client, mutate ...func(*Config[article])) *Module[article] {
	t.Helper()
	cfg := Config[article]{
		Resource: "articles",
		Client:   client,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}
