package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mkaraca/taskpad/internal/errsvc"
	"github.com/mkaraca/taskpad/internal/types"
)

func strptr(s string) *string { return &s }

func TestTaskRow(t *testing.T) {
	open := &types.Task{ID: 1, Name: "buy milk", Priority: types.PriorityMedium}
	row := TaskRow(open)
	if !strings.Contains(row, "[ ]") || !strings.Contains(row, "buy milk") {
		t.Errorf("open row = %q", row)
	}

	done := &types.Task{ID: 2, Name: "ship it", IsCompleted: true, Priority: types.PriorityHigh, DueDate: strptr("2024-03-01")}
	row = TaskRow(done)
	if !strings.Contains(row, "[x]") {
		t.Errorf("done row missing checkbox: %q", row)
	}
	if !strings.Contains(row, "due 2024-03-01") {
		t.Errorf("done row missing due date: %q", row)
	}
}

func TestListRow(t *testing.T) {
	row := ListRow(&types.List{ID: 3, Name: "Groceries"}, 5)
	if !strings.Contains(row, "Groceries") || !strings.Contains(row, "(5 tasks)") {
		t.Errorf("row = %q", row)
	}
}

func TestConsoleToaster(t *testing.T) {
	var buf strings.Builder
	toaster := &ConsoleToaster{Out: &buf}

	toaster.Toast(errsvc.SeverityHigh, "Connection Error", "server unreachable", 6*time.Second)
	out := buf.String()
	if !strings.Contains(out, "Connection Error: server unreachable") {
		t.Errorf("toast output = %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("toast should end with newline")
	}
}

var _ errsvc.Toaster = (*ConsoleToaster)(nil)
