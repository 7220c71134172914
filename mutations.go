package crud

// defaultMutations builds the generated reducer table for the enabled
// operations: a start/success/error triple per operation.
//
// All reducers run under the store's write lock. Id bookkeeping rules:
// fetchList replaces List wholesale; fetchSingle registers into Singles;
// create appends to both List and Singles; update and replace touch the
// lists only in place (an absent id is never appended); destroy unlists
// the id and deletes the entity.
func (m *Module[T]) defaultMutations() map[string]MutationFunc[T] {
	mut := make(map[string]MutationFunc[T], 18)

	if m.ops[FetchList] {
		mut["fetchListStart"] = func(s *State[T], _ any) {
			s.begin(FetchList)
		}
		mut["fetchListSuccess"] = func(s *State[T], payload any) {
			items, _ := payload.([]T)
			ids := make([]string, 0, len(items))
			for _, item := range items {
				id := m.entityID(item)
				s.Entities[id] = item
				ids = append(ids, id)
			}
			s.List = ids
			s.finish(FetchList, nil)
		}
		mut["fetchListError"] = func(s *State[T], payload any) {
			if !m.keepListOnError {
				s.List = []string{}
			}
			s.finish(FetchList, asErr(payload))
		}
	}

	if m.ops[FetchSingle] {
		mut["fetchSingleStart"] = func(s *State[T], _ any) {
			s.begin(FetchSingle)
		}
		mut["fetchSingleSuccess"] = func(s *State[T], payload any) {
			if item, ok := payload.(T); ok {
				id := m.entityID(item)
				s.Entities[id] = item
				if indexOf(s.Singles, id) < 0 {
					s.Singles = append(s.Singles, id)
				}
			}
			s.finish(FetchSingle, nil)
		}
		mut["fetchSingleError"] = func(s *State[T], payload any) {
			s.finish(FetchSingle, asErr(payload))
		}
	}

	if m.ops[Create] {
		mut["createStart"] = func(s *State[T], _ any) {
			s.begin(Create)
		}
		mut["createSuccess"] = func(s *State[T], payload any) {
			// A nil payload means the server answered with an empty
			// body; nothing to index.
			if item, ok := payload.(T); ok {
				id := m.entityID(item)
				s.Entities[id] = item
				if indexOf(s.List, id) < 0 {
					s.List = append(s.List, id)
				}
				if indexOf(s.Singles, id) < 0 {
					s.Singles = append(s.Singles, id)
				}
			}
			s.finish(Create, nil)
		}
		mut["createError"] = func(s *State[T], payload any) {
			s.finish(Create, asErr(payload))
		}
	}

	if m.ops[Update] {
		mut["updateStart"] = func(s *State[T], _ any) {
			s.begin(Update)
		}
		mut["updateSuccess"] = func(s *State[T], payload any) {
			m.upsertInPlace(s, payload)
			s.finish(Update, nil)
		}
		mut["updateError"] = func(s *State[T], payload any) {
			s.finish(Update, asErr(payload))
		}
	}

	if m.ops[Replace] {
		mut["replaceStart"] = func(s *State[T], _ any) {
			s.begin(Replace)
		}
		mut["replaceSuccess"] = func(s *State[T], payload any) {
			m.upsertInPlace(s, payload)
			s.finish(Replace, nil)
		}
		mut["replaceError"] = func(s *State[T], payload any) {
			s.finish(Replace, asErr(payload))
		}
	}

	if m.ops[Destroy] {
		mut["destroyStart"] = func(s *State[T], _ any) {
			s.begin(Destroy)
		}
		mut["destroySuccess"] = func(s *State[T], payload any) {
			if id, ok := stringifyID(payload); ok {
				s.List = removeID(s.List, id)
				s.Singles = removeID(s.Singles, id)
				delete(s.Entities, id)
			}
			s.finish(Destroy, nil)
		}
		mut["destroyError"] = func(s *State[T], payload any) {
			s.finish(Destroy, asErr(payload))
		}
	}

	return mut
}

// upsertInPlace writes the entity into Entities and refreshes its List
// and Singles slots in place. An id not already tracked is never
// appended: update and replace cannot grow the collections.
func (m *Module[T]) upsertInPlace(s *State[T], payload any) {
	item, ok := payload.(T)
	if !ok {
		return
	}
	id := m.entityID(item)
	s.Entities[id] = item
	if i := indexOf(s.List, id); i >= 0 {
		s.List[i] = id
	}
	if i := indexOf(s.Singles, id); i >= 0 {
		s.Singles[i] = id
	}
}
