package crud

import (
	"context"
	"log/slog"
)

// ActionFunc is a named asynchronous action. Default actions receive the
// *Call built by the typed action methods as arg; user-defined actions
// may use any argument shape. The returned value is what the typed
// method (or Dispatch caller) receives.
type ActionFunc[T any] func(ctx context.Context, m *Module[T], arg any) (any, error)

// MutationFunc applies one synchronous state transition. It mutates the
// state in place and must not block or perform I/O.
//
// Payload contracts for the generated mutations:
//   - *Start: payload ignored
//   - fetchListSuccess: []T
//   - fetchSingleSuccess, updateSuccess, replaceSuccess: T
//   - createSuccess: T, or nil when the response body was empty
//   - destroySuccess: the id (any stringifiable form)
//   - *Error: error, or nil for a falsy parsed error
type MutationFunc[T any] func(s *State[T], payload any)

// GetterFunc derives a value from a state snapshot. It must not mutate
// the snapshot's containers.
type GetterFunc[T any] func(s *State[T]) any

// Config configures a module. Resource is the only required field;
// every other field has a documented default.
type Config[T any] struct {
	// Resource is the resource name. Required. It derives the default
	// root URL "/api/<Resource>".
	Resource string

	// IDAttribute is the property read off each resource object to
	// identify it. Default "id". Struct entities match by json tag
	// first, then field name, case-insensitively; map entities match
	// by key.
	IDAttribute string

	// IDFunc overrides reflective id extraction. Return ok=false when
	// the entity has no usable id.
	IDFunc func(entity T) (id string, ok bool)

	// URLRoot overrides the default root URL. A trailing slash is
	// stripped exactly once at construction time.
	URLRoot string

	// URLFunc computes request URLs and takes precedence over URLRoot.
	URLFunc URLFunc

	// Only restricts which operations (state fields, actions,
	// mutations) are generated. Nil or empty enables all six.
	Only []Operation

	// Client issues the HTTP requests. Nil means DefaultClient.
	Client Client

	// ParseList transforms the fetchList response into the collection.
	// Default: JSON-decode Response.Data into []T.
	ParseList func(*Response) ([]T, error)

	// ParseSingle transforms a single-resource response into the
	// entity. Default: JSON-decode Response.Data into T.
	ParseSingle func(*Response) (T, error)

	// ParseError transforms a request error before it is recorded and
	// returned. Default: identity. A nil result is stored as "no
	// error" but the action still takes the error path.
	ParseError func(error) error

	// KeepListOnError leaves State.List untouched when fetchList
	// fails. Default false: the list is cleared.
	KeepListOnError bool

	// State seeds extra user state fields, carried as State.Extra for
	// custom mutations and getters.
	State map[string]any

	// Actions, Mutations and Getters are merged over the generated
	// tables last and take precedence on name collision. Replacing a
	// generated name reroutes the typed methods through the override.
	Actions   map[string]ActionFunc[T]
	Mutations map[string]MutationFunc[T]
	Getters   map[string]GetterFunc[T]

	// Hooks are lifecycle callbacks invoked after each mutation.
	Hooks Hooks[T]

	// Logger is the structured logger for action-level logging.
	// Nil means slog.Default().
	Logger *slog.Logger
}
