package crud

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vango-go/crud/pkg/store"
)

// Module is a generated state-management module for one REST-like
// resource: a reactive state container plus name-keyed actions,
// mutations and getters. Create one with New and share it; all methods
// are safe for concurrent use.
type Module[T any] struct {
	resource string
	idAttr   string
	ops      map[Operation]bool

	url    *urlResolver
	client Client
	idOf   func(T) (string, bool)

	parseList   func(*Response) ([]T, error)
	parseSingle func(*Response) (T, error)
	parseError  func(error) error

	keepListOnError bool
	hooks           Hooks[T]
	logger          *slog.Logger

	store *store.Store[*State[T]]

	actions   map[string]ActionFunc[T]
	mutations map[string]MutationFunc[T]
	getters   map[string]GetterFunc[T]
}

// New assembles a module from the configuration. It returns
// ErrResourceRequired when cfg.Resource is empty; any other
// configuration is valid.
func New[T any](cfg Config[T]) (*Module[T], error) {
	if cfg.Resource == "" {
		return nil, ErrResourceRequired
	}

	idAttr := cfg.IDAttribute
	if idAttr == "" {
		idAttr = "id"
	}
	client := cfg.Client
	if client == nil {
		client = DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Module[T]{
		resource:        cfg.Resource,
		idAttr:          idAttr,
		ops:             newOpSet(cfg.Only),
		url:             newURLResolver(cfg.Resource, cfg.URLRoot, cfg.URLFunc),
		client:          client,
		idOf:            idExtractor(idAttr, cfg.IDFunc),
		parseList:       cfg.ParseList,
		parseSingle:     cfg.ParseSingle,
		parseError:      cfg.ParseError,
		keepListOnError: cfg.KeepListOnError,
		hooks:           cfg.Hooks,
		logger:          logger,
	}
	if m.parseList == nil {
		m.parseList = decodeList[T]
	}
	if m.parseSingle == nil {
		m.parseSingle = decodeSingle[T]
	}
	if m.parseError == nil {
		m.parseError = func(err error) error { return err }
	}

	m.store = store.New(newState[T](m.ops, cfg.State))

	m.mutations = m.defaultMutations()
	for name, fn := range cfg.Mutations {
		m.mutations[name] = fn
	}
	m.actions = m.defaultActions()
	for name, fn := range cfg.Actions {
		m.actions[name] = fn
	}
	m.getters = m.defaultGetters()
	for name, fn := range cfg.Getters {
		m.getters[name] = fn
	}

	return m, nil
}

// MustNew is New that panics on configuration error.
func MustNew[T any](cfg Config[T]) *Module[T] {
	m, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// decodeList is the default ParseList: JSON-decode the body into []T.
func decodeList[T any](res *Response) ([]T, error) {
	var items []T
	if err := json.Unmarshal(res.Data, &items); err != nil {
		return nil, fmt.Errorf("crud: decode list response: %w", err)
	}
	return items, nil
}

// decodeSingle is the default ParseSingle: JSON-decode the body into T.
func decodeSingle[T any](res *Response) (T, error) {
	var item T
	if err := json.Unmarshal(res.Data, &item); err != nil {
		return item, fmt.Errorf("crud: decode response: %w", err)
	}
	return item, nil
}

// Resource returns the configured resource name.
func (m *Module[T]) Resource() string {
	return m.resource
}

// Enabled reports whether the operation is in the module's allow-list.
func (m *Module[T]) Enabled(op Operation) bool {
	return m.ops[op]
}

// State returns a snapshot of the current state. The snapshot is owned
// by the caller and never updated; take a fresh one after mutations.
func (m *Module[T]) State() *State[T] {
	var snap *State[T]
	m.store.View(func(s *State[T]) {
		snap = s.snapshot()
	})
	return snap
}

// Subscribe registers fn to run after every committed mutation, with
// the mutation name. It returns a cancel function.
func (m *Module[T]) Subscribe(fn func(mutation string)) (cancel func()) {
	return m.store.Subscribe(fn)
}

// Commit applies the named mutation with the payload, then invokes the
// matching lifecycle hook with a snapshot of the resulting state.
// Returns ErrUnknownMutation for an unregistered name.
func (m *Module[T]) Commit(name string, payload any) error {
	fn, ok := m.mutations[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMutation, name)
	}

	var snap *State[T]
	m.store.Commit(name, func(s *State[T]) {
		fn(s, payload)
		snap = s.snapshot()
	})
	m.fireHook(name, snap, payload)
	return nil
}

// commit applies a generated mutation. Generated names always have an
// entry (overrides replace, never remove), so the error is impossible.
func (m *Module[T]) commit(name string, payload any) {
	if err := m.Commit(name, payload); err != nil {
		panic(err)
	}
}

// Dispatch invokes the named action with the argument. Typed action
// methods route through Dispatch so user overrides of generated names
// take effect for them too.
func (m *Module[T]) Dispatch(ctx context.Context, name string, arg any) (any, error) {
	fn, ok := m.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return fn(ctx, m, arg)
}

// Getter evaluates the named getter against a snapshot of the current
// state. Returns ErrUnknownGetter for an unregistered name.
func (m *Module[T]) Getter(name string) (any, error) {
	fn, ok := m.getters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGetter, name)
	}
	return fn(m.State()), nil
}

// ActionNames returns the sorted names of all registered actions.
func (m *Module[T]) ActionNames() []string {
	return sortedKeys(m.actions)
}

// MutationNames returns the sorted names of all registered mutations.
func (m *Module[T]) MutationNames() []string {
	return sortedKeys(m.mutations)
}

// GetterNames returns the sorted names of all registered getters.
func (m *Module[T]) GetterNames() []string {
	return sortedKeys(m.getters)
}

func sortedKeys[V any](table map[string]V) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// entityID extracts the stringified id off an entity. A missing id
// attribute on data flowing through the generated mutations is a
// programmer error.
func (m *Module[T]) entityID(entity T) string {
	id, ok := m.idOf(entity)
	if !ok {
		panic(fmt.Sprintf("crud: %s entity has no usable %q attribute", m.resource, m.idAttr))
	}
	return id
}
