package crud

// List materializes the collection: State.List mapped through Entities
// in order. An id missing from Entities yields the zero T in its slot,
// so the result always has len(State.List) elements.
func (m *Module[T]) List() []T {
	return listOf(m.State())
}

// ByID returns the entity whose stringified id matches the stringified
// argument, so ByID(123) and ByID("123") are equivalent. The second
// result is false when the id is absent.
func (m *Module[T]) ByID(id any) (T, bool) {
	return byID(m.State(), id)
}

// IsLoading reports whether any enabled operation has a request in
// flight.
func (m *Module[T]) IsLoading() bool {
	return isLoading(m.State())
}

// IsError reports whether any enabled operation has a recorded error.
func (m *Module[T]) IsError() bool {
	return isError(m.State())
}

func listOf[T any](s *State[T]) []T {
	items := make([]T, len(s.List))
	for i, id := range s.List {
		items[i] = s.Entities[id]
	}
	return items
}

func byID[T any](s *State[T], id any) (T, bool) {
	var zero T
	sid, ok := stringifyID(id)
	if !ok {
		return zero, false
	}
	item, ok := s.Entities[sid]
	if !ok {
		return zero, false
	}
	return item, true
}

func isLoading[T any](s *State[T]) bool {
	for _, op := range AllOperations {
		if s.Active(op) {
			return true
		}
	}
	return false
}

func isError[T any](s *State[T]) bool {
	for _, op := range AllOperations {
		if s.Err(op) != nil {
			return true
		}
	}
	return false
}

// defaultGetters builds the generated getter table. "byId" returns a
// lookup closure over the snapshot, mirroring the action-layer id
// equivalence rules.
func (m *Module[T]) defaultGetters() map[string]GetterFunc[T] {
	return map[string]GetterFunc[T]{
		"list": func(s *State[T]) any {
			return listOf(s)
		},
		"byId": func(s *State[T]) any {
			return func(id any) (T, bool) { return byID(s, id) }
		},
		"isLoading": func(s *State[T]) any {
			return isLoading(s)
		},
		"isError": func(s *State[T]) any {
			return isError(s)
		},
	}
}
