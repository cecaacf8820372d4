package query

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		msg  string
		want failureClass
	}{
		{"network unreachable", failureNetwork},
		{"connection reset by peer", failureNetwork},
		{"i/o timeout", failureNetwork},
		{"database disk image is malformed", failureDatabase},
		{"sqlite: busy", failureDatabase},
		{"UNIQUE constraint failed: tasks.id", failureDatabase},
		{"something else entirely", failureOther},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := classifyFailure(errors.New(tt.msg)); got != tt.want {
				t.Errorf("classifyFailure() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBackoffDelay_ExponentialCapped(t *testing.T) {
	wants := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // capped
		30 * time.Second,
	}
	for attempt, want := range wants {
		if got := backoffDelay(attempt); got != want {
			t.Errorf("backoffDelay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestRetryBudget(t *testing.T) {
	tests := []struct {
		name  string
		class failureClass
		write bool
		want  int
	}{
		{"read network", failureNetwork, false, 3},
		{"read database", failureDatabase, false, 0},
		{"read other", failureOther, false, 1},
		{"write network", failureNetwork, true, 2},
		{"write database", failureDatabase, true, 0},
		{"write other", failureOther, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryBudget(tt.class, tt.write); got != tt.want {
				t.Errorf("retryBudget() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWithRetry_DatabaseFailureNotRetried(t *testing.T) {
	calls := 0
	err := withRetry(t.Context(), false, func(ctx context.Context) error {
		calls++
		return errors.New("database is locked")
	})
	if err == nil {
		t.Fatal("withRetry() = nil, want error")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (no retry for database failures)", calls)
	}
}

func TestWithRetry_OtherFailureRetriedOnce(t *testing.T) {
	calls := 0
	err := withRetry(t.Context(), false, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient hiccup")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry() = %v, want nil after retry", err)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
}

func TestWithRetry_WriteOtherFailureNotRetried(t *testing.T) {
	calls := 0
	err := withRetry(t.Context(), true, func(ctx context.Context) error {
		calls++
		return errors.New("transient hiccup")
	})
	if err == nil {
		t.Fatal("withRetry() = nil, want error")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (writes retry only network failures)", calls)
	}
}

func TestWithRetry_ContextCancelStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- withRetry(ctx, false, func(ctx context.Context) error {
			calls++
			return errors.New("network down")
		})
	}()

	// Cancel during the first backoff sleep.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("withRetry() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("withRetry() did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("fn called %d times before cancel, want 1", calls)
	}
}
