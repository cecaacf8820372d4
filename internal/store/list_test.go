package store

import (
	"context"
	"testing"
)

func TestCreateList_ReturnsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateList(ctx, "Groceries")
	if err != nil {
		t.Fatalf("CreateList() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("CreateList() id = %d, want > 0", id)
	}

	l, err := s.GetList(ctx, id)
	if err != nil {
		t.Fatalf("GetList() failed: %v", err)
	}
	if l == nil || l.Name != "Groceries" {
		t.Errorf("GetList() = %+v, want name Groceries", l)
	}
}

// The store accepts a blank list name; rejecting it is the query layer's
// job. This test documents that choice.
func TestCreateList_BlankNameNotEnforcedHere(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateList(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateList(\"\") failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("CreateList(\"\") id = %d, want > 0", id)
	}
}

func TestGetList_Missing(t *testing.T) {
	s := newTestStore(t)

	l, err := s.GetList(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetList() errored for missing row: %v", err)
	}
	if l != nil {
		t.Errorf("GetList() = %+v, want nil for missing row", l)
	}
}

func TestRenameList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateList(ctx, "Untitled")
	if err != nil {
		t.Fatalf("CreateList() failed: %v", err)
	}

	if err := s.RenameList(ctx, id, "Chores"); err != nil {
		t.Fatalf("RenameList() failed: %v", err)
	}

	l, err := s.GetList(ctx, id)
	if err != nil {
		t.Fatalf("GetList() failed: %v", err)
	}
	if l.Name != "Chores" {
		t.Errorf("name = %q, want Chores", l.Name)
	}
}

func TestDeleteList_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateList(ctx, "Temp")
	if err != nil {
		t.Fatalf("CreateList() failed: %v", err)
	}

	if err := s.DeleteList(ctx, id); err != nil {
		t.Fatalf("DeleteList() failed: %v", err)
	}
	if err := s.DeleteList(ctx, id); err != nil {
		t.Errorf("Second DeleteList() failed: %v", err)
	}
	if err := s.DeleteList(ctx, 9999); err != nil {
		t.Errorf("DeleteList() of unknown id failed: %v", err)
	}
}

func TestSearchLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Groceries", "Work projects", "Grocery run"} {
		if _, err := s.CreateList(ctx, name); err != nil {
			t.Fatalf("CreateList(%q) failed: %v", name, err)
		}
	}

	got, err := s.SearchLists(ctx, "Grocer")
	if err != nil {
		t.Fatalf("SearchLists() failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("SearchLists() returned %d lists, want 2", len(got))
	}
}

func TestSearchLists_EscapesWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateList(ctx, "100% done"); err != nil {
		t.Fatalf("CreateList() failed: %v", err)
	}
	if _, err := s.CreateList(ctx, "100x done"); err != nil {
		t.Fatalf("CreateList() failed: %v", err)
	}

	got, err := s.SearchLists(ctx, "100%")
	if err != nil {
		t.Fatalf("SearchLists() failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("SearchLists(%%) returned %d lists, want 1 (literal match)", len(got))
	}
}
