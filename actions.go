package crud

import (
	"context"
	"fmt"
)

// Call carries the per-invocation parameters of a generated action.
// Typed action methods build it from CallOptions; custom actions
// dispatched by name may construct one directly.
type Call struct {
	// ID is the stringified target id for single-target operations.
	ID string

	// Data is the request payload for create, update and replace.
	Data any

	// Config is passed through opaquely to the Client.
	Config *RequestConfig

	// CustomURL, when non-empty, is used verbatim as the request URL.
	CustomURL string

	// URLArgs are the extra arguments handed to a configured URLFunc.
	URLArgs []any
}

// CallOption configures one action invocation.
type CallOption func(*Call)

// WithConfig passes a request configuration through to the Client.
func WithConfig(cfg *RequestConfig) CallOption {
	return func(c *Call) { c.Config = cfg }
}

// WithCustomURL overrides the resolved URL for this call.
func WithCustomURL(url string) CallOption {
	return func(c *Call) { c.CustomURL = url }
}

// WithURLArgs supplies extra arguments to a configured URLFunc.
func WithURLArgs(args ...any) CallOption {
	return func(c *Call) { c.URLArgs = args }
}

func newCall(opts []CallOption) *Call {
	call := &Call{}
	for _, opt := range opts {
		opt(call)
	}
	return call
}

func asCall(arg any) *Call {
	if call, ok := arg.(*Call); ok && call != nil {
		return call
	}
	return &Call{}
}

// FetchList fetches the resource collection (GET on the root URL) and
// returns the parsed items. State.List is replaced with the response
// order on success.
func (m *Module[T]) FetchList(ctx context.Context, opts ...CallOption) ([]T, error) {
	res, err := m.dispatchTyped(ctx, FetchList, newCall(opts))
	if err != nil {
		return nil, err
	}
	return castResult[[]T](res, "fetchList")
}

// FetchSingle fetches one resource by id (GET on root/id) and returns
// the parsed entity. The id is registered into State.Singles.
func (m *Module[T]) FetchSingle(ctx context.Context, id any, opts ...CallOption) (T, error) {
	var zero T
	sid, ok := stringifyID(id)
	if !ok {
		return zero, ErrMissingID
	}
	call := newCall(opts)
	call.ID = sid
	res, err := m.dispatchTyped(ctx, FetchSingle, call)
	if err != nil {
		return zero, err
	}
	return castResult[T](res, "fetchSingle")
}

// Create posts a new resource (POST on the root URL) and returns the
// parsed entity, or the zero T when the server answered with an empty
// body.
func (m *Module[T]) Create(ctx context.Context, data any, opts ...CallOption) (T, error) {
	var zero T
	call := newCall(opts)
	call.Data = data
	res, err := m.dispatchTyped(ctx, Create, call)
	if err != nil || res == nil {
		return zero, err
	}
	return castResult[T](res, "create")
}

// Update partially updates one resource (PATCH on root/id) and returns
// the parsed entity. Its List/Singles slots are refreshed in place; an
// untracked id is never appended.
func (m *Module[T]) Update(ctx context.Context, id any, data any, opts ...CallOption) (T, error) {
	return m.updateOrReplace(ctx, Update, id, data, opts)
}

// Replace fully replaces one resource (PUT on root/id). Collection
// semantics match Update.
func (m *Module[T]) Replace(ctx context.Context, id any, data any, opts ...CallOption) (T, error) {
	return m.updateOrReplace(ctx, Replace, id, data, opts)
}

func (m *Module[T]) updateOrReplace(ctx context.Context, op Operation, id any, data any, opts []CallOption) (T, error) {
	var zero T
	sid, ok := stringifyID(id)
	if !ok {
		return zero, ErrMissingID
	}
	call := newCall(opts)
	call.ID = sid
	call.Data = data
	res, err := m.dispatchTyped(ctx, op, call)
	if err != nil {
		return zero, err
	}
	return castResult[T](res, op.String())
}

// Destroy deletes one resource (DELETE on root/id), removes its id from
// List and Singles, and deletes it from Entities.
func (m *Module[T]) Destroy(ctx context.Context, id any, opts ...CallOption) error {
	sid, ok := stringifyID(id)
	if !ok {
		return ErrMissingID
	}
	call := newCall(opts)
	call.ID = sid
	_, err := m.dispatchTyped(ctx, Destroy, call)
	return err
}

// dispatchTyped routes a typed method through the action table so user
// overrides of generated names take effect.
func (m *Module[T]) dispatchTyped(ctx context.Context, op Operation, call *Call) (any, error) {
	name := op.String()
	if _, ok := m.actions[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperationDisabled, name)
	}
	return m.Dispatch(ctx, name, call)
}

func castResult[R any](res any, name string) (R, error) {
	var zero R
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("crud: %s action returned %T, want %T", name, res, zero)
	}
	return typed, nil
}

// defaultActions builds the generated action table for the enabled
// operations. Every generated action follows the same protocol:
// commit the start mutation synchronously, issue exactly one HTTP call,
// parse the settlement, commit the terminal mutation, and return the
// parsed value or error.
func (m *Module[T]) defaultActions() map[string]ActionFunc[T] {
	acts := make(map[string]ActionFunc[T], 6)

	if m.ops[FetchList] {
		acts["fetchList"] = func(ctx context.Context, m *Module[T], arg any) (any, error) {
			return m.doFetchList(ctx, asCall(arg))
		}
	}
	if m.ops[FetchSingle] {
		acts["fetchSingle"] = func(ctx context.Context, m *Module[T], arg any) (any, error) {
			return m.doSingle(ctx, FetchSingle, asCall(arg))
		}
	}
	if m.ops[Create] {
		acts["create"] = func(ctx context.Context, m *Module[T], arg any) (any, error) {
			return m.doCreate(ctx, asCall(arg))
		}
	}
	if m.ops[Update] {
		acts["update"] = func(ctx context.Context, m *Module[T], arg any) (any, error) {
			return m.doSingle(ctx, Update, asCall(arg))
		}
	}
	if m.ops[Replace] {
		acts["replace"] = func(ctx context.Context, m *Module[T], arg any) (any, error) {
			return m.doSingle(ctx, Replace, asCall(arg))
		}
	}
	if m.ops[Destroy] {
		acts["destroy"] = func(ctx context.Context, m *Module[T], arg any) (any, error) {
			return nil, m.doDestroy(ctx, asCall(arg))
		}
	}

	return acts
}

// request issues the HTTP call for op with the verb mapping
// fetchList/fetchSingle=GET, create=POST, update=PATCH, replace=PUT,
// destroy=DELETE.
func (m *Module[T]) request(ctx context.Context, op Operation, url string, call *Call) (*Response, error) {
	switch op {
	case FetchList, FetchSingle:
		return m.client.Get(ctx, url, call.Config)
	case Create:
		return m.client.Post(ctx, url, call.Data, call.Config)
	case Update:
		return m.client.Patch(ctx, url, call.Data, call.Config)
	case Replace:
		return m.client.Put(ctx, url, call.Data, call.Config)
	case Destroy:
		return m.client.Delete(ctx, url, call.Config)
	default:
		return nil, fmt.Errorf("crud: unsupported operation %v", op)
	}
}

// fail records a request or parse failure: parse the error, commit the
// operation's error mutation, log, and hand the parsed error back to
// the caller. Errors are never swallowed.
func (m *Module[T]) fail(op Operation, err error) error {
	perr := m.parseError(err)
	m.commit(op.String()+"Error", perr)
	m.logger.Warn("crud: request failed",
		"resource", m.resource,
		"operation", op.String(),
		"error", perr,
	)
	return perr
}

func (m *Module[T]) doFetchList(ctx context.Context, call *Call) ([]T, error) {
	m.commit("fetchListStart", nil)

	url := m.url.resolve(FetchList, "", call.CustomURL, call.URLArgs)
	m.logger.Debug("crud: fetch list", "resource", m.resource, "url", url)

	res, err := m.request(ctx, FetchList, url, call)
	if err != nil {
		return nil, m.fail(FetchList, err)
	}
	items, err := m.parseList(res)
	if err != nil {
		return nil, m.fail(FetchList, err)
	}

	m.commit("fetchListSuccess", items)
	return items, nil
}

// doSingle runs the shared protocol for fetchSingle, update and
// replace: one entity in the response, one success payload.
func (m *Module[T]) doSingle(ctx context.Context, op Operation, call *Call) (T, error) {
	var zero T
	m.commit(op.String()+"Start", nil)

	url := m.url.resolve(op, call.ID, call.CustomURL, call.URLArgs)
	m.logger.Debug("crud: "+op.String(), "resource", m.resource, "id", call.ID, "url", url)

	res, err := m.request(ctx, op, url, call)
	if err != nil {
		return zero, m.fail(op, err)
	}
	item, err := m.parseSingle(res)
	if err != nil {
		return zero, m.fail(op, err)
	}

	m.commit(op.String()+"Success", item)
	return item, nil
}

func (m *Module[T]) doCreate(ctx context.Context, call *Call) (any, error) {
	m.commit("createStart", nil)

	url := m.url.resolve(Create, "", call.CustomURL, call.URLArgs)
	m.logger.Debug("crud: create", "resource", m.resource, "url", url)

	res, err := m.request(ctx, Create, url, call)
	if err != nil {
		return nil, m.fail(Create, err)
	}

	// An empty response body is a valid create: the server chose not
	// to echo the resource, so there is nothing to index.
	if res == nil || len(res.Data) == 0 {
		m.commit("createSuccess", nil)
		return nil, nil
	}

	item, err := m.parseSingle(res)
	if err != nil {
		return nil, m.fail(Create, err)
	}
	m.commit("createSuccess", item)
	return item, nil
}

func (m *Module[T]) doDestroy(ctx context.Context, call *Call) error {
	m.commit("destroyStart", nil)

	url := m.url.resolve(Destroy, call.ID, call.CustomURL, call.URLArgs)
	m.logger.Debug("crud: destroy", "resource", m.resource, "id", call.ID, "url", url)

	if _, err := m.request(ctx, Destroy, url, call); err != nil {
		return m.fail(Destroy, err)
	}

	m.commit("destroySuccess", call.ID)
	return nil
}
