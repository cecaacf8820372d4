// Package types defines the core List and Task records shared by the
// storage, query, and presentation layers.
package types

import (
	"fmt"
	"strings"
	"time"
)

// UnassignedListID is the sentinel list id meaning "task not placed in any
// user-created list". Tasks in this bucket are valid without a matching
// lists row.
const UnassignedListID int64 = 9999999999

// DefaultListName is the placeholder name a list carries until the user
// edits it.
const DefaultListName = "Untitled"

// DueDateLayout is the ISO date format used for Task.DueDate.
const DueDateLayout = "2006-01-02"

// Status is the workflow state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the severity rank used by the priority sort:
// urgent > high > medium > low. Unknown priorities rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// List is a named grouping of tasks.
type List struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Validate checks the List for persistence readiness.
// The storage layer does not re-run this; callers validate before writing.
func (l *List) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("list name is required")
	}
	return nil
}

// Task is a unit of work. IsCompleted and Status are independently settable;
// marking Status completed does not flip IsCompleted, and vice versa.
type Task struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status    `json:"status" yaml:"status"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	IsCompleted bool      `json:"is_completed" yaml:"is_completed"`
	DueDate     *string   `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	ListID      int64     `json:"list_id" yaml:"list_id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// Validate checks the Task for persistence readiness.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	if t.Status != "" && !t.Status.Valid() {
		return fmt.Errorf("invalid status %q", t.Status)
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	if t.DueDate != nil {
		if _, err := time.Parse(DueDateLayout, *t.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q: %w", *t.DueDate, err)
		}
	}
	return nil
}

// SetDefaults applies default values for optional fields.
func (t *Task) SetDefaults() {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.ListID == 0 {
		t.ListID = UnassignedListID
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
}

// Due parses the task's due date. Returns (zero, false) when unscheduled
// or when the stored value does not parse.
func (t *Task) Due() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	d, err := time.Parse(DueDateLayout, *t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsUnassigned reports whether the task sits in the unassigned bucket.
func (t *Task) IsUnassigned() bool {
	return t.ListID == UnassignedListID || t.ListID == 0
}

// DueToday reports whether the task is due on the given day.
func (t *Task) DueToday(now time.Time) bool {
	d, ok := t.Due()
	if !ok {
		return false
	}
	return d.Format(DueDateLayout) == now.Format(DueDateLayout)
}

// TaskPatch carries a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Name        *string
	Description *string
	Status      *Status
	Priority    *Priority
	IsCompleted *bool
	DueDate     *string
	ClearDue    bool
	ListID      *int64
}

// IsEmpty reports whether the patch modifies nothing.
func (p *TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.IsCompleted == nil && p.DueDate == nil &&
		!p.ClearDue && p.ListID == nil
}

// Validate checks the fields the patch actually sets.
func (p *TaskPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", *p.Priority)
	}
	if p.DueDate != nil {
		if _, err := time.Parse(DueDateLayout, *p.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q: %w", *p.DueDate, err)
		}
	}
	return nil
}
