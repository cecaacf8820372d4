package listview

import (
	"context"
	"testing"
	"time"

	"github.com/mkaraca/taskpad/internal/types"
)

func TestStore_SetTasksCopies(t *testing.T) {
	s := New()
	in := []*types.Task{task("a"), task("b")}
	s.SetTasks(in)

	in[0] = task("mutated")
	got := s.Tasks()
	if got[0].Name != "a" {
		t.Fatalf("store observed caller mutation: %q", got[0].Name)
	}
}

func TestStore_TasksReturnsFreshSlice(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{task("a"), task("b")})

	got := s.Tasks()
	got[0], got[1] = got[1], got[0]
	assertOrder(t, s.Tasks(), "a", "b")
}

func TestStore_Filter(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{
		task("done", func(tk *types.Task) { tk.IsCompleted = true }),
		task("open"),
	})

	s.SetFilter(func(tk *types.Task) bool { return !tk.IsCompleted })
	assertOrder(t, s.Tasks(), "open")
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (filter must not shrink the underlying set)", s.Len())
	}

	s.ClearFilter()
	assertOrder(t, s.Tasks(), "done", "open")
}

func TestStore_FilterSurvivesSetTasks(t *testing.T) {
	s := New()
	s.SetFilter(func(tk *types.Task) bool { return tk.Priority == types.PriorityHigh })

	s.SetTasks([]*types.Task{
		task("hi", withPriority(types.PriorityHigh)),
		task("lo", withPriority(types.PriorityLow)),
	})
	assertOrder(t, s.Tasks(), "hi")
}

func TestStore_ReconcileReplacesSet(t *testing.T) {
	s := New()
	s.SetTasks([]*types.Task{task("stale")})

	s.Reconcile([]*types.Task{task("fresh-a"), task("fresh-b")})
	assertOrder(t, s.Tasks(), "fresh-a", "fresh-b")
}

func TestStore_Focus(t *testing.T) {
	s := New()
	if s.Focus() != nil {
		t.Fatal("fresh store should have no focus")
	}

	type handle struct{ name string }
	h := &handle{name: "name-input"}
	s.SetFocus(h)
	if got := s.Focus(); got != FocusHandle(h) {
		t.Fatalf("Focus = %v, want %v", got, h)
	}

	s.SetFocus(nil)
	if s.Focus() != nil {
		t.Fatal("focus should be clearable")
	}
}

func TestDateHandoff_ResolveOnce(t *testing.T) {
	h := NewDateHandoff()
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	h.Resolve(want)
	h.Resolve(want.Add(24 * time.Hour))
	h.Cancel()

	got, ok := h.Wait(context.Background())
	if !ok {
		t.Fatal("Wait reported cancellation after Resolve")
	}
	if !got.Equal(want) {
		t.Fatalf("Wait = %v, want %v", got, want)
	}
}

func TestDateHandoff_Cancel(t *testing.T) {
	h := NewDateHandoff()
	h.Cancel()

	if _, ok := h.Wait(context.Background()); ok {
		t.Fatal("Wait should report no date after Cancel")
	}
}

func TestDateHandoff_WaitHonorsContext(t *testing.T) {
	h := NewDateHandoff()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := h.Wait(ctx); ok {
		t.Fatal("Wait should give up when the context is done")
	}
}
