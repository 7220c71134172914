package crud

// Hooks are lifecycle callbacks for side effects outside the store
// (toasts, analytics, invalidating sibling caches). Every mutation,
// after applying its state change, invokes the matching hook with a
// snapshot of the resulting state and, for success and error phases,
// the mutation payload.
//
// Hooks are held as plain function references and called directly; they
// observe state transitions and must never be relied upon to produce
// them. A nil hook is a no-op. Hooks for disabled operations are never
// called.
type Hooks[T any] struct {
	OnFetchListStart   func(s *State[T])
	OnFetchListSuccess func(s *State[T], items []T)
	OnFetchListError   func(s *State[T], err error)

	OnFetchSingleStart   func(s *State[T])
	OnFetchSingleSuccess func(s *State[T], item T)
	OnFetchSingleError   func(s *State[T], err error)

	OnCreateStart func(s *State[T])
	// OnCreateSuccess receives the zero T when the server answered with
	// an empty body.
	OnCreateSuccess func(s *State[T], item T)
	OnCreateError   func(s *State[T], err error)

	OnUpdateStart   func(s *State[T])
	OnUpdateSuccess func(s *State[T], item T)
	OnUpdateError   func(s *State[T], err error)

	OnReplaceStart   func(s *State[T])
	OnReplaceSuccess func(s *State[T], item T)
	OnReplaceError   func(s *State[T], err error)

	OnDestroyStart func(s *State[T])
	// OnDestroySuccess receives the stringified id of the destroyed
	// resource.
	OnDestroySuccess func(s *State[T], id string)
	OnDestroyError   func(s *State[T], err error)
}

// fireHook invokes the lifecycle hook matching a mutation name.
// Unrecognized names (user-defined mutations) have no hook.
func (m *Module[T]) fireHook(name string, s *State[T], payload any) {
	h := &m.hooks
	switch name {
	case "fetchListStart":
		if h.OnFetchListStart != nil {
			h.OnFetchListStart(s)
		}
	case "fetchListSuccess":
		if h.OnFetchListSuccess != nil {
			items, _ := payload.([]T)
			h.OnFetchListSuccess(s, items)
		}
	case "fetchListError":
		if h.OnFetchListError != nil {
			h.OnFetchListError(s, asErr(payload))
		}
	case "fetchSingleStart":
		if h.OnFetchSingleStart != nil {
			h.OnFetchSingleStart(s)
		}
	case "fetchSingleSuccess":
		if h.OnFetchSingleSuccess != nil {
			item, _ := payload.(T)
			h.OnFetchSingleSuccess(s, item)
		}
	case "fetchSingleError":
		if h.OnFetchSingleError != nil {
			h.OnFetchSingleError(s, asErr(payload))
		}
	case "createStart":
		if h.OnCreateStart != nil {
			h.OnCreateStart(s)
		}
	case "createSuccess":
		if h.OnCreateSuccess != nil {
			item, _ := payload.(T)
			h.OnCreateSuccess(s, item)
		}
	case "createError":
		if h.OnCreateError != nil {
			h.OnCreateError(s, asErr(payload))
		}
	case "updateStart":
		if h.OnUpdateStart != nil {
			h.OnUpdateStart(s)
		}
	case "updateSuccess":
		if h.OnUpdateSuccess != nil {
			item, _ := payload.(T)
			h.OnUpdateSuccess(s, item)
		}
	case "updateError":
		if h.OnUpdateError != nil {
			h.OnUpdateError(s, asErr(payload))
		}
	case "replaceStart":
		if h.OnReplaceStart != nil {
			h.OnReplaceStart(s)
		}
	case "replaceSuccess":
		if h.OnReplaceSuccess != nil {
			item, _ := payload.(T)
			h.OnReplaceSuccess(s, item)
		}
	case "replaceError":
		if h.OnReplaceError != nil {
			h.OnReplaceError(s, asErr(payload))
		}
	case "destroyStart":
		if h.OnDestroyStart != nil {
			h.OnDestroyStart(s)
		}
	case "destroySuccess":
		if h.OnDestroySuccess != nil {
			id, _ := stringifyID(payload)
			h.OnDestroySuccess(s, id)
		}
	case "destroyError":
		if h.OnDestroyError != nil {
			h.OnDestroyError(s, asErr(payload))
		}
	}
}
