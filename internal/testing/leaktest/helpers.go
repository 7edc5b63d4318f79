// Package leaktest checks tests for leaked goroutines and unreleased memory.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = time.Second
	pollInterval  = 10 * time.Millisecond
)

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count as the baseline
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test if more than tolerance goroutines outlive the baseline.
// Exiting goroutines are given up to a second to finish.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after := settle(g.before + tolerance)
	if leaked := after - g.before; leaked > tolerance {
		g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
			g.before, after, leaked, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and fails if it leaves goroutines behind
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// WaitForGoroutines waits until at most target goroutines are running
func WaitForGoroutines(t testing.TB, target int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= target {
			return
		}
		time.Sleep(pollInterval)
	}
	t.Errorf("timed out waiting for goroutines: current=%d target=%d", runtime.NumGoroutine(), target)
}

// CheckHeapGrowth runs fn and fails if the live heap grew by more than maxGrowthMB
func CheckHeapGrowth(t testing.TB, maxGrowthMB float64, fn func()) {
	t.Helper()

	before := liveHeap()
	fn()
	after := liveHeap()

	growth := (float64(after) - float64(before)) / 1024 / 1024
	if growth > maxGrowthMB {
		t.Errorf("heap growth %.2fMB exceeds %.2fMB (before=%d after=%d bytes)",
			growth, maxGrowthMB, before, after)
	}
}

// settle polls until the goroutine count drops to target or the timeout
// passes, and returns the last count seen
func settle(target int) int {
	deadline := time.Now().Add(settleTimeout)
	n := runtime.NumGoroutine()
	for n > target && time.Now().Before(deadline) {
		runtime.Gosched()
		time.Sleep(pollInterval)
		n = runtime.NumGoroutine()
	}
	return n
}

func liveHeap() uint64 {
	runtime.GC()
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}
