package listview

import (
	"context"
	"sync"
	"time"
)

// DateHandoff is a one-shot result handle for a date-picker interaction.
// The screen that opens the picker owns the handle; the picker resolves it
// exactly once. This replaces a global mutable callback slot: the handle is
// scoped to one interaction and cannot outlive it.
type DateHandoff struct {
	once sync.Once
	ch   chan dateResult
}

type dateResult struct {
	date time.Time
	ok   bool
}

// NewDateHandoff creates an unresolved handle.
func NewDateHandoff() *DateHandoff {
	return &DateHandoff{ch: make(chan dateResult, 1)}
}

// Resolve delivers the picked date. Later calls are no-ops.
func (h *DateHandoff) Resolve(date time.Time) {
	h.once.Do(func() {
		h.ch <- dateResult{date: date, ok: true}
		close(h.ch)
	})
}

// Cancel resolves the handle with no result (picker dismissed).
// Later calls are no-ops.
func (h *DateHandoff) Cancel() {
	h.once.Do(func() {
		h.ch <- dateResult{}
		close(h.ch)
	})
}

// Wait blocks until the handle resolves or ctx ends. ok is false when the
// interaction was cancelled or the context expired; a resolution arriving
// after the owning screen gave up is safely discarded with the handle.
func (h *DateHandoff) Wait(ctx context.Context) (time.Time, bool) {
	select {
	case <-ctx.Done():
		return time.Time{}, false
	case res := <-h.ch:
		return res.date, res.ok
	}
}
