// Package listview holds the UI-scoped state that must be visible
// synchronously across sibling screens without refetching: the currently
// displayed task set, an optional filter predicate, a focus handle, and
// the sort operation.
//
// The Store is a synchronization buffer, not a source of truth. Rows
// fetched from storage are reconciled into it with SetTasks; consumers
// read it synchronously between fetches.
package listview

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mkaraca/taskpad/internal/types"
)

// Filter is a task predicate. Consumers apply it before rendering.
type Filter func(*types.Task) bool

// FocusHandle is an opaque reference to a focusable input owned by some
// screen, passed between sibling screens through the store.
type FocusHandle interface{}

// Store is the shared mutable view state. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	tasks  []*types.Task
	filter Filter
	focus  FocusHandle
	coll   *collate.Collator
}

// New creates a Store with und-locale collation for alphabetical sorts.
func New() *Store {
	return NewWithLanguage(language.Und)
}

// NewWithLanguage creates a Store whose alphabetical sort collates in the
// given language.
func NewWithLanguage(tag language.Tag) *Store {
	return &Store{coll: collate.New(tag)}
}

// SetTasks replaces the held task set wholesale.
func (s *Store) SetTasks(tasks []*types.Task) {
	s.mu.Lock()
	s.tasks = make([]*types.Task, len(tasks))
	copy(s.tasks, tasks)
	s.mu.Unlock()
}

// Tasks returns the held set with the active filter applied, in the
// current sort order.
func (s *Store) Tasks() []*types.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter == nil {
		out := make([]*types.Task, len(s.tasks))
		copy(out, s.tasks)
		return out
	}

	out := make([]*types.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter(t) {
			out = append(out, t)
		}
	}
	return out
}

// Reconcile replaces the held set with rows fetched from storage. It is
// SetTasks under the name consumers use after a refetch.
func (s *Store) Reconcile(tasks []*types.Task) {
	s.SetTasks(tasks)
}

// Len returns the unfiltered size of the held set.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// SetFilter installs a predicate; nil clears it.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// ClearFilter removes the active predicate.
func (s *Store) ClearFilter() {
	s.SetFilter(nil)
}

// SortTasks reorders the held set in place by the given criterion.
func (s *Store) SortTasks(criterion SortCriterion) {
	s.mu.Lock()
	sortTasks(s.tasks, criterion, s.coll)
	s.mu.Unlock()
}

// SetFocus stores a focus handle for a text input.
func (s *Store) SetFocus(h FocusHandle) {
	s.mu.Lock()
	s.focus = h
	s.mu.Unlock()
}

// Focus returns the stored focus handle, or nil.
func (s *Store) Focus() FocusHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}
