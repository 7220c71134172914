package crud

// opStatus tracks the transient request state for one operation.
type opStatus struct {
	// Active is true between the start mutation and the terminal
	// (success or error) mutation of the operation.
	Active bool

	// Err is the recorded error from the last terminal mutation,
	// nil after a success.
	Err error
}

// State is the state container generated for one resource module.
//
// Entities is the single source of truth for resource data; List and
// Singles reference it by stringified id. Status fields exist only for
// operations present in the allow-list; accessors for disabled
// operations report false / nil.
type State[T any] struct {
	// Entities maps stringified id to the resource object.
	Entities map[string]T

	// List is the ordered ids of the last successfully fetched
	// collection, in server response order.
	List []string

	// Singles is the ordered ids of resources fetched or created
	// individually, independent of List.
	Singles []string

	// Extra carries user-defined state fields, seeded from
	// Config.State, for custom mutations and getters.
	Extra map[string]any

	status map[Operation]*opStatus
}

// newState builds the initial state shape for the enabled operations.
func newState[T any](ops map[Operation]bool, extra map[string]any) *State[T] {
	s := &State[T]{
		Entities: make(map[string]T),
		List:     []string{},
		Singles:  []string{},
		status:   make(map[Operation]*opStatus, len(ops)),
	}
	for op, on := range ops {
		if on {
			s.status[op] = &opStatus{}
		}
	}
	if len(extra) > 0 {
		s.Extra = make(map[string]any, len(extra))
		for k, v := range extra {
			s.Extra[k] = v
		}
	}
	return s
}

// Enabled reports whether status fields were generated for op.
func (s *State[T]) Enabled(op Operation) bool {
	_, ok := s.status[op]
	return ok
}

// Active reports whether a request for op is in flight.
// Always false for disabled operations.
func (s *State[T]) Active(op Operation) bool {
	if st, ok := s.status[op]; ok {
		return st.Active
	}
	return false
}

// Err returns the recorded error for op, nil when the last request
// succeeded or the operation is disabled.
func (s *State[T]) Err(op Operation) error {
	if st, ok := s.status[op]; ok {
		return st.Err
	}
	return nil
}

// IsFetchingList reports an in-flight fetchList request.
func (s *State[T]) IsFetchingList() bool { return s.Active(FetchList) }

// IsFetchingSingle reports an in-flight fetchSingle request.
func (s *State[T]) IsFetchingSingle() bool { return s.Active(FetchSingle) }

// IsCreating reports an in-flight create request.
func (s *State[T]) IsCreating() bool { return s.Active(Create) }

// IsUpdating reports an in-flight update request.
func (s *State[T]) IsUpdating() bool { return s.Active(Update) }

// IsReplacing reports an in-flight replace request.
func (s *State[T]) IsReplacing() bool { return s.Active(Replace) }

// IsDestroying reports an in-flight destroy request.
func (s *State[T]) IsDestroying() bool { return s.Active(Destroy) }

// FetchListError returns the recorded fetchList error.
func (s *State[T]) FetchListError() error { return s.Err(FetchList) }

// FetchSingleError returns the recorded fetchSingle error.
func (s *State[T]) FetchSingleError() error { return s.Err(FetchSingle) }

// CreateError returns the recorded create error.
func (s *State[T]) CreateError() error { return s.Err(Create) }

// UpdateError returns the recorded update error.
func (s *State[T]) UpdateError() error { return s.Err(Update) }

// ReplaceError returns the recorded replace error.
func (s *State[T]) ReplaceError() error { return s.Err(Replace) }

// DestroyError returns the recorded destroy error.
func (s *State[T]) DestroyError() error { return s.Err(Destroy) }

// begin applies a start mutation for op.
func (s *State[T]) begin(op Operation) {
	if st, ok := s.status[op]; ok {
		st.Active = true
	}
}

// finish applies a terminal mutation for op. A nil err marks success
// and resets the operation's recorded error.
func (s *State[T]) finish(op Operation, err error) {
	if st, ok := s.status[op]; ok {
		st.Active = false
		st.Err = err
	}
}

// snapshot returns a copy safe to hand to hooks, getters and
// subscribers after the store lock is released. Entity values are
// shared; the containers are copied.
func (s *State[T]) snapshot() *State[T] {
	clone := &State[T]{
		Entities: make(map[string]T, len(s.Entities)),
		List:     append([]string(nil), s.List...),
		Singles:  append([]string(nil), s.Singles...),
		status:   make(map[Operation]*opStatus, len(s.status)),
	}
	for id, e := range s.Entities {
		clone.Entities[id] = e
	}
	for op, st := range s.status {
		copied := *st
		clone.status[op] = &copied
	}
	if s.Extra != nil {
		clone.Extra = make(map[string]any, len(s.Extra))
		for k, v := range s.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// indexOf returns the position of id in ids, or -1.
func indexOf(ids []string, id string) int {
	for i, existing := range ids {
		if existing == id {
			return i
		}
	}
	return -1
}

// removeID removes id from ids if present. Removing an absent id is a
// no-op.
func removeID(ids []string, id string) []string {
	if i := indexOf(ids, id); i >= 0 {
		return append(ids[:i], ids[i+1:]...)
	}
	return ids
}
