package crud

import (
	"errors"
	"testing"
)

func TestNewStateShape(t *testing.T) {
	s := newState[map[string]any](newOpSet(nil), nil)

	if s.Entities == nil || len(s.Entities) != 0 {
		t.Error("expected empty entity map")
	}
	if s.List == nil || len(s.List) != 0 {
		t.Error("expected empty list")
	}
	if s.Singles == nil || len(s.Singles) != 0 {
		t.Error("expected empty singles")
	}
	for _, op := range AllOperations {
		if !s.Enabled(op) {
			t.Errorf("expected %v enabled by default", op)
		}
		if s.Active(op) {
			t.Errorf("expected %v inactive initially", op)
		}
		if s.Err(op) != nil {
			t.Errorf("expected no %v error initially", op)
		}
	}
}

func TestNewStateOnlyGeneratesEnabledOperations(t *testing.T) {
	s := newState[map[string]any](newOpSet([]Operation{Create}), nil)

	if !s.Enabled(Create) {
		t.Error("expected create enabled")
	}
	for _, op := range []Operation{FetchList, FetchSingle, Update, Replace, Destroy} {
		if s.Enabled(op) {
			t.Errorf("expected %v disabled", op)
		}
	}

	// Accessors for disabled operations report the inert values.
	s.begin(FetchList)
	if s.IsFetchingList() {
		t.Error("disabled operation must never report active")
	}
	s.begin(Create)
	if !s.IsCreating() {
		t.Error("expected isCreating true after begin")
	}
}

func TestStateFinishResetsErrorOnSuccess(t *testing.T) {
	s := newState[map[string]any](newOpSet(nil), nil)

	s.begin(Update)
	s.finish(Update, errors.New("boom"))
	if s.UpdateError() == nil || s.IsUpdating() {
		t.Fatal("expected recorded error and inactive flag")
	}

	s.begin(Update)
	s.finish(Update, nil)
	if s.UpdateError() != nil {
		t.Error("expected success to reset the recorded error")
	}
}

func TestStateExtraSeeded(t *testing.T) {
	s := newState[map[string]any](newOpSet(nil), map[string]any{"page": 1})

	if got := s.Extra["page"]; got != 1 {
		t.Errorf("expected Extra[page]=1, got %v", got)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newState[map[string]any](newOpSet(nil), map[string]any{"page": 1})
	s.Entities["1"] = map[string]any{"id": 1}
	s.List = []string{"1"}
	s.begin(Create)

	snap := s.snapshot()

	s.Entities["2"] = map[string]any{"id": 2}
	s.List = append(s.List, "2")
	s.finish(Create, errors.New("late"))

	if len(snap.Entities) != 1 || len(snap.List) != 1 {
		t.Error("snapshot containers must not observe later mutations")
	}
	if !snap.IsCreating() {
		t.Error("snapshot status must not observe later mutations")
	}
	if snap.CreateError() != nil {
		t.Error("snapshot error must not observe later mutations")
	}
}

func TestRemoveIDAbsentIsNoOp(t *testing.T) {
	ids := []string{"1", "2"}

	got := removeID(ids, "3")
	if len(got) != 2 {
		t.Errorf("expected no-op removal, got %v", got)
	}

	got = removeID(got, "1")
	if len(got) != 1 || got[0] != "2" {
		t.Errorf("expected [2], got %v", got)
	}
}
