package query

import (
	"context"
	"strings"
	"time"
)

// failure classes for the retry policy. Network-ish failures are transient
// and worth retrying with backoff; database-ish failures indicate corrupt
// or constrained state that a retry will not fix.
type failureClass int

const (
	failureNetwork failureClass = iota
	failureDatabase
	failureOther
)

func classifyFailure(err error) failureClass {
	if err == nil {
		return failureOther
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection") || strings.Contains(msg, "timeout"):
		return failureNetwork
	case strings.Contains(msg, "database") || strings.Contains(msg, "sqlite") || strings.Contains(msg, "constraint"):
		return failureDatabase
	}
	return failureOther
}

const (
	readNetworkRetries  = 3
	readOtherRetries    = 1
	writeNetworkRetries = 2

	backoffBase = 1 * time.Second
	backoffCap  = 30 * time.Second
)

// backoffDelay returns the delay before retry attempt n (0-based):
// 1s, 2s, 4s, ... capped at 30s.
func backoffDelay(attempt int) time.Duration {
	d := backoffBase << attempt
	if d > backoffCap || d <= 0 {
		return backoffCap
	}
	return d
}

// retryBudget returns how many retries the given failure earns.
func retryBudget(class failureClass, write bool) int {
	if write {
		if class == failureNetwork {
			return writeNetworkRetries
		}
		return 0
	}
	switch class {
	case failureNetwork:
		return readNetworkRetries
	case failureDatabase:
		return 0
	}
	return readOtherRetries
}

// withRetry runs fn, re-running it per the retry policy until it succeeds
// or the budget for its failure class is spent. Sleeps honor ctx.
func withRetry(ctx context.Context, write bool, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		if attempt >= retryBudget(classifyFailure(err), write) {
			return err
		}

		timer := time.NewTimer(backoffDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
