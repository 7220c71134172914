package crud

import (
	"errors"
	"testing"
)

func TestListMaterializesInOrder(t *testing.T) {
	m := newTestModule(t, &fakeClient{})
	if err := m.Commit("fetchListSuccess", []article{{ID: 3, Title: "c"}, {ID: 1, Title: "a"}}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	items := m.List()
	if len(items) != 2 || items[0].ID != 3 || items[1].ID != 1 {
		t.Errorf("expected response ordering, got %v", items)
	}
}

func TestListHoleForUnknownID(t *testing.T) {
	m := newTestModule(t, &fakeClient{}, func(cfg *Config[article]) {
		cfg.Mutations = map[string]MutationFunc[article]{
			"forceList": func(s *State[article], _ any) {
				s.List = []string{"404"}
			},
		}
	})
	if err := m.Commit("forceList", nil); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	items := m.List()
	if len(items) != 1 || items[0] != (article{}) {
		t.Errorf("expected a zero-value hole, got %v", items)
	}
}

func TestByIDStringNumberEquivalence(t *testing.T) {
	m := newTestModule(t, &fakeClient{})
	if err := m.Commit("fetchListSuccess", []article{{ID: 123, Title: "x"}}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	byNumber, okNumber := m.ByID(123)
	byString, okString := m.ByID("123")
	if !okNumber || !okString {
		t.Fatal("expected both lookups to succeed")
	}
	if byNumber != byString {
		t.Errorf("expected identical entities, got %v and %v", byNumber, byString)
	}

	if _, ok := m.ByID(999); ok {
		t.Error("expected absent id to report ok=false")
	}
	if _, ok := m.ByID(nil); ok {
		t.Error("expected nil id to report ok=false")
	}
}

func TestIsLoadingORsEnabledFlags(t *testing.T) {
	m := newTestModule(t, &fakeClient{})

	if m.IsLoading() {
		t.Error("expected not loading initially")
	}
	if err := m.Commit("updateStart", nil); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !m.IsLoading() {
		t.Error("expected loading while update is in flight")
	}
}

func TestIsErrorORsEnabledErrors(t *testing.T) {
	m := newTestModule(t, &fakeClient{})

	if m.IsError() {
		t.Error("expected no error initially")
	}
	if err := m.Commit("destroyError", errors.New("boom")); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !m.IsError() {
		t.Error("expected IsError true after a recorded error")
	}
	if err := m.Commit("destroySuccess", 1); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if m.IsError() {
		t.Error("expected success to reset the recorded error")
	}
}

func TestGetterTable(t *testing.T) {
	m := newTestModule(t, &fakeClient{})
	if err := m.Commit("fetchListSuccess", []article{{ID: 1, Title: "a"}}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	raw, err := m.Getter("list")
	if err != nil {
		t.Fatalf("Getter(list): %v", err)
	}
	items, ok := raw.([]article)
	if !ok || len(items) != 1 {
		t.Errorf("expected []article of one, got %#v", raw)
	}

	raw, err = m.Getter("byId")
	if err != nil {
		t.Fatalf("Getter(byId): %v", err)
	}
	lookup, ok := raw.(func(any) (article, bool))
	if !ok {
		t.Fatalf("expected lookup closure, got %#v", raw)
	}
	if got, ok := lookup("1"); !ok || got.Title != "a" {
		t.Errorf("expected entity a, got (%v, %v)", got, ok)
	}

	if _, err := m.Getter("nope"); !errors.Is(err, ErrUnknownGetter) {
		t.Errorf("expected ErrUnknownGetter, got %v", err)
	}
}

func TestUserGetterOverridesAndExtends(t *testing.T) {
	m := newTestModule(t, &fakeClient{}, func(cfg *Config[article]) {
		cfg.Getters = map[string]GetterFunc[article]{
			"count": func(s *State[article]) any { return len(s.List) },
			// Shadow the generated getter.
			"isLoading": func(*State[article]) any { return "maybe" },
		}
	})
	if err := m.Commit("fetchListSuccess", []article{{ID: 1}}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	count, err := m.Getter("count")
	if err != nil || count != 1 {
		t.Errorf("expected count 1, got (%v, %v)", count, err)
	}

	loading, err := m.Getter("isLoading")
	if err != nil || loading != "maybe" {
		t.Errorf("expected user getter to win, got (%v, %v)", loading, err)
	}
}
