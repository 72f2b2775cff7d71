package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// Eventually polls condition until it returns true or the timeout elapses.
// Returns true if the condition was met in time.
func Eventually(condition func() bool, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return condition()
}

// AssertEventually fails the test if condition does not become true within timeout
func AssertEventually(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()
	if !Eventually(condition, timeout, 10*time.Millisecond) {
		t.Fatalf("condition not met within %v: %s", timeout, msg)
	}
}

// WaitForInt32 waits until the atomic counter reaches want or the timeout elapses
func WaitForInt32(t *testing.T, counter *int32, want int32, timeout time.Duration) {
	t.Helper()
	ok := Eventually(func() bool {
		return atomic.LoadInt32(counter) == want
	}, timeout, 10*time.Millisecond)
	if !ok {
		t.Fatalf("counter = %d, want %d after %v", atomic.LoadInt32(counter), want, timeout)
	}
}

// WaitForInt64 waits until the atomic counter reaches want or the timeout elapses
func WaitForInt64(t *testing.T, counter *int64, want int64, timeout time.Duration) {
	t.Helper()
	ok := Eventually(func() bool {
		return atomic.LoadInt64(counter) == want
	}, timeout, 10*time.Millisecond)
	if !ok {
		t.Fatalf("counter = %d, want %d after %v", atomic.LoadInt64(counter), want, timeout)
	}
}
