package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkaraca/taskpad/internal/types"
)

const taskColumns = `id, name, description, status, priority, is_completed, due_date, list_id, created_at`

// ListTasks returns all tasks ordered by creation time.
func (s *Store) ListTasks(ctx context.Context) ([]*types.Task, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTask retrieves a single task by id.
// Returns (nil, nil) when no task matches.
func (s *Store) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return task, nil
}

// CreateTask inserts a task and returns the assigned id.
// Defaults are applied for zero-valued optional fields, and created_at is
// stamped if unset.
func (s *Store) CreateTask(ctx context.Context, task *types.Task) (int64, error) {
	task.SetDefaults()

	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO tasks (name, description, status, priority, is_completed, due_date, list_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.Name,
		task.Description,
		string(task.Status),
		string(task.Priority),
		boolToInt(task.IsCompleted),
		nullString(task.DueDate),
		task.ListID,
		task.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted task id: %w", err)
	}
	task.ID = id
	return id, nil
}

// UpdateTask applies a partial update: only fields set on the patch are
// written, everything else is left untouched.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch *types.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	var sets []string
	var args []interface{}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*patch.Priority))
	}
	if patch.IsCompleted != nil {
		sets = append(sets, "is_completed = ?")
		args = append(args, boolToInt(*patch.IsCompleted))
	}
	if patch.ClearDue {
		sets = append(sets, "due_date = NULL")
	} else if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *patch.DueDate)
	}
	if patch.ListID != nil {
		sets = append(sets, "list_id = ?")
		args = append(args, *patch.ListID)
	}

	args = append(args, id)
	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return nil
}

// DeleteTask removes a task.
// Returns nil if the task doesn't exist (idempotent).
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return nil
}

// TasksByList returns the tasks belonging to the given list.
// An unknown list id yields an empty result, not an error.
func (s *Store) TasksByList(ctx context.Context, listID int64) ([]*types.Task, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE list_id = ? ORDER BY created_at ASC, id ASC`,
		listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for list %d: %w", listID, err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// TasksByStatus returns the tasks in the given workflow state.
func (s *Store) TasksByStatus(ctx context.Context, status types.Status) ([]*types.Task, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY created_at ASC, id ASC`,
		string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by status: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// UpcomingTasks returns dated tasks due on or after the given day,
// ordered by due date.
func (s *Store) UpcomingTasks(ctx context.Context, now time.Time) ([]*types.Task, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE due_date IS NOT NULL AND due_date >= ?
		 ORDER BY due_date ASC, id ASC`,
		now.Format(types.DueDateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// SearchTasks returns tasks whose name contains the given substring.
func (s *Store) SearchTasks(ctx context.Context, substr string) ([]*types.Task, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE name LIKE ? ESCAPE '\' ORDER BY created_at ASC, id ASC`,
		likePattern(substr))
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*types.Task, error) {
	var task types.Task
	var status, priority, createdAt string
	var completed int
	var due sql.NullString

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&status,
		&priority,
		&completed,
		&due,
		&task.ListID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = types.Status(status)
	task.Priority = types.Priority(priority)
	task.IsCompleted = completed != 0
	if due.Valid {
		d := due.String
		task.DueDate = &d
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		task.CreatedAt = t
	}

	return &task, nil
}

func scanTasks(rows *sql.Rows) ([]*types.Task, error) {
	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// likePattern escapes LIKE metacharacters in a user-entered substring.
func likePattern(substr string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(substr) + "%"
}
