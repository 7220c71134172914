package crud

import "strings"

// URLFunc computes the request URL for one invocation. id is empty for
// collection operations (fetchList, create); args are the caller's
// WithURLArgs values. A URLFunc that panics is a programmer error and
// propagates to the caller.
type URLFunc func(id string, op Operation, args ...any) string

// urlResolver computes target URLs from either a fixed root or a
// user-supplied URLFunc.
type urlResolver struct {
	root string
	fn   URLFunc
}

// newURLResolver builds the resolver at module construction. A trailing
// slash on the configured root is stripped exactly once here, not per
// call. An empty root defaults to "/api/<resource>".
func newURLResolver(resource, root string, fn URLFunc) *urlResolver {
	if fn != nil {
		return &urlResolver{fn: fn}
	}
	if root == "" {
		root = "/api/" + resource
	}
	return &urlResolver{root: strings.TrimSuffix(root, "/")}
}

// resolve computes the URL for one call. An explicit custom URL is used
// verbatim and overrides everything else.
func (r *urlResolver) resolve(op Operation, id, custom string, args []any) string {
	if custom != "" {
		return custom
	}
	if r.fn != nil {
		return r.fn(id, op, args...)
	}
	if id != "" {
		return r.root + "/" + id
	}
	return r.root
}
