// Package query wraps the storage layer with result caching,
// invalidation-on-write, a classified retry policy, and the derived task
// views (important, scheduled, today, unassigned).
//
// Derived views are views, not copies: they are computed by fetching the
// full task set and applying a pure predicate, and they are invalidated by
// exactly the same mutations that invalidate the base set. Invalidation is
// performed only after the triggering write has been acknowledged by
// storage, so a refetch following invalidation observes the mutation.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mkaraca/taskpad/internal/errsvc"
	"github.com/mkaraca/taskpad/internal/store"
	"github.com/mkaraca/taskpad/internal/types"
)

// MutationEvent describes a committed write, for change-feed consumers.
type MutationEvent struct {
	Resource string // "list" or "task"
	Action   string // "created", "updated", "deleted"
	ID       int64
}

// Client is the query/mutation layer over a Store.
type Client struct {
	store  *store.Store
	cache  *cache
	group  singleflight.Group
	logger *slog.Logger

	// errs receives final failures (after the retry budget) when set.
	errs *errsvc.Service

	// onMutation, when set, is called after a successful write and its
	// cache invalidation.
	onMutation func(MutationEvent)

	// now is stubbed in tests of the "today" view.
	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithErrorService routes final query failures into an error service.
func WithErrorService(svc *errsvc.Service) Option {
	return func(c *Client) { c.errs = svc }
}

// WithMutationHook registers a callback for committed writes.
func WithMutationHook(fn func(MutationEvent)) Option {
	return func(c *Client) { c.onMutation = fn }
}

// NewClient creates a query client over the given store.
func NewClient(s *store.Store, opts ...Option) *Client {
	c := &Client{
		store:  s,
		cache:  newCache(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InvalidateAll drops every cached entry. Used when the database file was
// changed by another process.
func (c *Client) InvalidateAll() {
	c.cache.invalidatePrefix("")
	c.logger.Debug("query cache invalidated", "scope", "all")
}

// cachedFetch returns the cached value for key, or runs fetch (deduplicated
// across concurrent callers, wrapped in the read retry policy) and caches
// the result.
func cachedFetch[T any](ctx context.Context, c *Client, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.cache.get(key); ok {
		return v.(T), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		var out T
		err := withRetry(ctx, false, func(ctx context.Context) error {
			var ferr error
			out, ferr = fetch(ctx)
			return ferr
		})
		if err != nil {
			return out, err
		}
		c.cache.set(key, out)
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, c.reportRead(key, err)
	}
	return v.(T), nil
}

func (c *Client) reportRead(key string, err error) error {
	if c.errs != nil {
		c.errs.HandleQueryError(err, "query:"+key)
	}
	return err
}

func (c *Client) reportWrite(op string, err error) error {
	if c.errs != nil {
		c.errs.HandleQueryError(err, "mutation:"+op)
	}
	return err
}

// reportValidation bypasses classification: the caller already knows the
// error is a validation failure, so it is reported as such.
func (c *Client) reportValidation(op string, err error) error {
	if c.errs != nil {
		c.errs.HandleValidationError(err.Error(), "mutation:"+op)
	}
	return err
}

// copyRecord shields the cached record from caller mutation.
func copyRecord[T any](in *T) *T {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// ===== List queries =====

// Lists returns all lists.
func (c *Client) Lists(ctx context.Context) ([]*types.List, error) {
	out, err := cachedFetch(ctx, c, keyLists, c.store.ListLists)
	return copySlice(out), err
}

// List returns a single list, or nil when absent.
func (c *Client) List(ctx context.Context, id int64) (*types.List, error) {
	out, err := cachedFetch(ctx, c, keyList(id), func(ctx context.Context) (*types.List, error) {
		return c.store.GetList(ctx, id)
	})
	return copyRecord(out), err
}

// SearchLists is uncached: search terms are too varied to be worth keying.
func (c *Client) SearchLists(ctx context.Context, substr string) ([]*types.List, error) {
	var out []*types.List
	err := withRetry(ctx, false, func(ctx context.Context) error {
		var ferr error
		out, ferr = c.store.SearchLists(ctx, substr)
		return ferr
	})
	if err != nil {
		return nil, c.reportRead("lists/search", err)
	}
	return out, nil
}

// ===== Task queries =====

// Tasks returns the full task set.
func (c *Client) Tasks(ctx context.Context) ([]*types.Task, error) {
	out, err := cachedFetch(ctx, c, keyTasks, c.store.ListTasks)
	return copySlice(out), err
}

// Task returns a single task, or nil when absent.
func (c *Client) Task(ctx context.Context, id int64) (*types.Task, error) {
	out, err := cachedFetch(ctx, c, keyTask(id), func(ctx context.Context) (*types.Task, error) {
		return c.store.GetTask(ctx, id)
	})
	return copyRecord(out), err
}

// TasksByList returns the tasks belonging to one list.
func (c *Client) TasksByList(ctx context.Context, listID int64) ([]*types.Task, error) {
	out, err := cachedFetch(ctx, c, keyTasksList(listID), func(ctx context.Context) ([]*types.Task, error) {
		return c.store.TasksByList(ctx, listID)
	})
	return copySlice(out), err
}

// TasksByStatus returns the tasks in the given workflow state.
func (c *Client) TasksByStatus(ctx context.Context, status types.Status) ([]*types.Task, error) {
	var out []*types.Task
	err := withRetry(ctx, false, func(ctx context.Context) error {
		var ferr error
		out, ferr = c.store.TasksByStatus(ctx, status)
		return ferr
	})
	if err != nil {
		return nil, c.reportRead("tasks/status", err)
	}
	return out, nil
}

// UpcomingTasks returns dated tasks due today or later.
func (c *Client) UpcomingTasks(ctx context.Context) ([]*types.Task, error) {
	var out []*types.Task
	err := withRetry(ctx, false, func(ctx context.Context) error {
		var ferr error
		out, ferr = c.store.UpcomingTasks(ctx, c.now())
		return ferr
	})
	if err != nil {
		return nil, c.reportRead("tasks/upcoming", err)
	}
	return out, nil
}

// SearchTasks is uncached, like SearchLists.
func (c *Client) SearchTasks(ctx context.Context, substr string) ([]*types.Task, error) {
	var out []*types.Task
	err := withRetry(ctx, false, func(ctx context.Context) error {
		var ferr error
		out, ferr = c.store.SearchTasks(ctx, substr)
		return ferr
	})
	if err != nil {
		return nil, c.reportRead("tasks/search", err)
	}
	return out, nil
}

// ===== Derived views =====

// derivedTasks fetches the full task set and applies a pure predicate.
func (c *Client) derivedTasks(ctx context.Context, key string, keep func(*types.Task) bool) ([]*types.Task, error) {
	out, err := cachedFetch(ctx, c, key, func(ctx context.Context) ([]*types.Task, error) {
		all, err := c.store.ListTasks(ctx)
		if err != nil {
			return nil, err
		}
		filtered := make([]*types.Task, 0, len(all))
		for _, t := range all {
			if keep(t) {
				filtered = append(filtered, t)
			}
		}
		return filtered, nil
	})
	return copySlice(out), err
}

// ImportantTasks returns tasks at high or urgent priority.
func (c *Client) ImportantTasks(ctx context.Context) ([]*types.Task, error) {
	return c.derivedTasks(ctx, keyTasksImportant, func(t *types.Task) bool {
		return t.Priority.Rank() >= types.PriorityHigh.Rank()
	})
}

// ScheduledTasks returns tasks carrying a due date.
func (c *Client) ScheduledTasks(ctx context.Context) ([]*types.Task, error) {
	return c.derivedTasks(ctx, keyTasksScheduled, func(t *types.Task) bool {
		return t.DueDate != nil
	})
}

// TodayTasks returns tasks due today.
func (c *Client) TodayTasks(ctx context.Context) ([]*types.Task, error) {
	now := c.now()
	return c.derivedTasks(ctx, keyTasksToday, func(t *types.Task) bool {
		return t.DueToday(now)
	})
}

// UnassignedTasks returns tasks in the unassigned bucket.
func (c *Client) UnassignedTasks(ctx context.Context) ([]*types.Task, error) {
	return c.derivedTasks(ctx, keyTasksUnassign, func(t *types.Task) bool {
		return t.IsUnassigned()
	})
}

// ===== List mutations =====

// CreateList validates and persists a new list, returning its id.
func (c *Client) CreateList(ctx context.Context, name string) (int64, error) {
	l := &types.List{Name: name}
	if err := l.Validate(); err != nil {
		return 0, c.reportValidation("create-list", err)
	}

	var id int64
	err := withRetry(ctx, true, func(ctx context.Context) error {
		var werr error
		id, werr = c.store.CreateList(ctx, strings.TrimSpace(name))
		return werr
	})
	if err != nil {
		return 0, c.reportWrite("create-list", err)
	}

	c.cache.invalidate(keyLists)
	c.emit(MutationEvent{Resource: "list", Action: "created", ID: id})
	return id, nil
}

// RenameList validates and persists a list rename.
func (c *Client) RenameList(ctx context.Context, id int64, name string) error {
	l := &types.List{ID: id, Name: name}
	if err := l.Validate(); err != nil {
		return c.reportValidation("rename-list", err)
	}

	err := withRetry(ctx, true, func(ctx context.Context) error {
		return c.store.RenameList(ctx, id, strings.TrimSpace(name))
	})
	if err != nil {
		return c.reportWrite("rename-list", err)
	}

	c.cache.invalidate(keyLists, keyList(id))
	c.emit(MutationEvent{Resource: "list", Action: "updated", ID: id})
	return nil
}

// DeleteList removes a list. Its tasks survive as orphans, but every task
// view is still invalidated: screens group tasks by list and must refetch.
func (c *Client) DeleteList(ctx context.Context, id int64) error {
	err := withRetry(ctx, true, func(ctx context.Context) error {
		return c.store.DeleteList(ctx, id)
	})
	if err != nil {
		return c.reportWrite("delete-list", err)
	}

	c.cache.invalidatePrefix("list", "task")
	c.emit(MutationEvent{Resource: "list", Action: "deleted", ID: id})
	return nil
}

// ===== Task mutations =====

// CreateTask validates and persists a new task, returning its id.
func (c *Client) CreateTask(ctx context.Context, task *types.Task) (int64, error) {
	if err := task.Validate(); err != nil {
		return 0, c.reportValidation("create-task", err)
	}
	task.Name = strings.TrimSpace(task.Name)

	var id int64
	err := withRetry(ctx, true, func(ctx context.Context) error {
		var werr error
		id, werr = c.store.CreateTask(ctx, task)
		return werr
	})
	if err != nil {
		return 0, c.reportWrite("create-task", err)
	}

	c.invalidateTaskViews()
	c.emit(MutationEvent{Resource: "task", Action: "created", ID: id})
	return id, nil
}

// UpdateTask validates and applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch *types.TaskPatch) error {
	if err := patch.Validate(); err != nil {
		return c.reportValidation("update-task", err)
	}

	err := withRetry(ctx, true, func(ctx context.Context) error {
		return c.store.UpdateTask(ctx, id, patch)
	})
	if err != nil {
		return c.reportWrite("update-task", err)
	}

	c.invalidateTaskViews()
	c.emit(MutationEvent{Resource: "task", Action: "updated", ID: id})
	return nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	err := withRetry(ctx, true, func(ctx context.Context) error {
		return c.store.DeleteTask(ctx, id)
	})
	if err != nil {
		return c.reportWrite("delete-task", err)
	}

	c.invalidateTaskViews()
	c.emit(MutationEvent{Resource: "task", Action: "deleted", ID: id})
	return nil
}

// ToggleTaskCompleted flips is_completed. Status is left alone; the two
// fields are independent.
func (c *Client) ToggleTaskCompleted(ctx context.Context, id int64) error {
	task, err := c.store.GetTask(ctx, id)
	if err != nil {
		return c.reportWrite("toggle-task", err)
	}
	if task == nil {
		return c.reportWrite("toggle-task", fmt.Errorf("task %d not found", id))
	}

	flipped := !task.IsCompleted
	return c.UpdateTask(ctx, id, &types.TaskPatch{IsCompleted: &flipped})
}

// invalidateTaskViews drops every cache entry a task mutation could have
// staled: the base set, per-task and per-list entries, all derived views,
// and the lists summary (list screens show task counts). Refetch over
// optimistic merge keeps derived views honest.
func (c *Client) invalidateTaskViews() {
	c.cache.invalidatePrefix("task")
	c.cache.invalidate(keyLists)
}

func (c *Client) emit(ev MutationEvent) {
	if c.onMutation != nil {
		c.onMutation(ev)
	}
}

// copySlice returns a fresh slice sharing the same records, so callers can
// sort or filter without disturbing cached order.
func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
