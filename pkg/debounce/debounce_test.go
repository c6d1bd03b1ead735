package debounce

import (
	"sync"
	"testing"
	"time"
)

// recorder collects every argument the debounced function actually receives.
type recorder struct {
	mu   sync.Mutex
	got  []string
	done chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) record(s string) {
	r.mu.Lock()
	r.got = append(r.got, s)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.got))
	copy(out, r.got)
	return out
}

func (r *recorder) waitForCall(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never fired")
	}
}

// Calls issued faster than the quiet period must collapse into a single
// invocation carrying the last argument.
func TestCoalescesRapidCalls(t *testing.T) {
	rec := newRecorder()
	d := New(60*time.Millisecond, rec.record)

	d.Call("123 M")
	time.Sleep(10 * time.Millisecond)
	d.Call("123 Ma")
	time.Sleep(10 * time.Millisecond)
	d.Call("123 Main St")

	rec.waitForCall(t)
	// Give any stray timers a chance to misfire before asserting.
	time.Sleep(100 * time.Millisecond)

	calls := rec.calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 invocation, got %d: %v", len(calls), calls)
	}
	if calls[0] != "123 Main St" {
		t.Errorf("expected last argument to win, got %q", calls[0])
	}
}

// Calls spaced wider than the quiet period each reach the function.
func TestSpacedCallsAllFire(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.record)

	d.Call("first")
	rec.waitForCall(t)
	d.Call("second")
	rec.waitForCall(t)
	d.Call("third")
	rec.waitForCall(t)

	calls := rec.calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 invocations, got %d: %v", len(calls), calls)
	}
	for i, want := range []string{"first", "second", "third"} {
		if calls[i] != want {
			t.Errorf("call %d: got %q, want %q", i, calls[i], want)
		}
	}
}

func TestStopCancelsPending(t *testing.T) {
	rec := newRecorder()
	d := New(30*time.Millisecond, rec.record)

	d.Call("doomed")
	if !d.Stop() {
		t.Fatal("Stop should report a pending invocation was cancelled")
	}

	time.Sleep(80 * time.Millisecond)
	if calls := rec.calls(); len(calls) != 0 {
		t.Errorf("cancelled invocation still fired: %v", calls)
	}

	if d.Stop() {
		t.Error("Stop with nothing pending should report false")
	}
}

func TestStopThenCallStillWorks(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.record)

	d.Call("a")
	d.Stop()
	d.Call("b")
	rec.waitForCall(t)

	calls := rec.calls()
	if len(calls) != 1 || calls[0] != "b" {
		t.Errorf("expected only %q to fire, got %v", "b", calls)
	}
}
