package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkaraca/taskpad/internal/types"
)

// ListLists returns all lists ordered by id.
func (s *Store) ListLists(ctx context.Context) ([]*types.List, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, name FROM lists ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	return scanLists(rows)
}

// GetList retrieves a single list by id.
// Returns (nil, nil) when no list matches.
func (s *Store) GetList(ctx context.Context, id int64) (*types.List, error) {
	var l types.List
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name FROM lists WHERE id = ?`, id).Scan(&l.ID, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list %d: %w", id, err)
	}
	return &l, nil
}

// CreateList inserts a list and returns the assigned id.
// An empty name is accepted here; validation happens above the store.
func (s *Store) CreateList(ctx context.Context, name string) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `INSERT INTO lists (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted list id: %w", err)
	}
	return id, nil
}

// RenameList updates a list's name.
func (s *Store) RenameList(ctx context.Context, id int64, name string) error {
	if _, err := s.conn.ExecContext(ctx,
		`UPDATE lists SET name = ? WHERE id = ?`, name, id); err != nil {
		return fmt.Errorf("failed to rename list %d: %w", id, err)
	}
	return nil
}

// DeleteList removes a list. Tasks referencing it are left untouched.
// Returns nil if the list doesn't exist (idempotent).
func (s *Store) DeleteList(ctx context.Context, id int64) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete list %d: %w", id, err)
	}
	return nil
}

// SearchLists returns lists whose name contains the given substring.
func (s *Store) SearchLists(ctx context.Context, substr string) ([]*types.List, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name FROM lists WHERE name LIKE ? ESCAPE '\' ORDER BY id ASC`,
		likePattern(substr))
	if err != nil {
		return nil, fmt.Errorf("failed to search lists: %w", err)
	}
	defer rows.Close()

	return scanLists(rows)
}

func scanLists(rows *sql.Rows) ([]*types.List, error) {
	var lists []*types.List
	for rows.Next() {
		var l types.List
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lists: %w", err)
	}
	return lists, nil
}
