package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { fired.Add(1) })
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return fired.Load() == 1 })
	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired %d times, want 1", got)
	}
}

func TestDebouncer_FiresAgainAfterQuiet(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })
	defer d.Stop()

	d.Trigger()
	waitFor(t, time.Second, func() bool { return fired.Load() == 1 })

	d.Trigger()
	waitFor(t, time.Second, func() bool { return fired.Load() == 2 })
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("fired %d times after Stop, want 0", got)
	}

	d.Trigger()
	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("trigger after Stop fired %d times", got)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(time.Hour, func() { fired.Add(1) })
	defer d.Stop()

	d.Flush()
	if got := fired.Load(); got != 0 {
		t.Fatalf("flush with nothing pending fired %d times", got)
	}

	d.Trigger()
	d.Flush()
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired %d times, want 1", got)
	}
}

func TestDBWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "taskpad.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w, err := NewDBWatcher(dbPath, 20*time.Millisecond, nil, func() { fired.Add(1) })
	if err != nil {
		t.Fatalf("NewDBWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(dbPath, []byte("xy"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, 2*time.Second, func() bool { return fired.Load() >= 1 })
}

func TestDBWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "taskpad.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w, err := NewDBWatcher(dbPath, 20*time.Millisecond, nil, func() { fired.Add(1) })
	if err != nil {
		t.Fatalf("NewDBWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("fired %d times for unrelated file", got)
	}
}

func TestDBWatcher_StopTwice(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "taskpad.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewDBWatcher(dbPath, 20*time.Millisecond, nil, func() {})
	if err != nil {
		t.Fatalf("NewDBWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
