// internal/health/health_test.go
package health

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

type codedError struct{ code uint16 }

func (e *codedError) Error() string { return "coded" }
func (e *codedError) Code() uint16  { return e.code }

func TestTracker_Transitions(t *testing.T) {
	tr := NewTracker("panel0", zap.NewNop().Sugar())

	if got := tr.Snapshot().Health; got != HealthUnknown {
		t.Fatalf("initial health = %d, want unknown", got)
	}

	tr.Observe(nil)
	if got := tr.Snapshot().Health; got != HealthOK {
		t.Fatalf("health = %d after success, want ok", got)
	}

	tr.Observe(errors.New("bus glitch"))
	snap := tr.Snapshot()
	if snap.Health != HealthError {
		t.Fatalf("health = %d after failure, want error", snap.Health)
	}
	if snap.LastErrorCode != 1 {
		t.Fatalf("last error code = %d, want 1 (generic)", snap.LastErrorCode)
	}

	tr.Tick()
	tr.Tick()
	if got := tr.Snapshot().SecondsInError; got != 2 {
		t.Fatalf("seconds in error = %d, want 2", got)
	}

	// Recovery resets the whole snapshot.
	tr.Observe(nil)
	snap = tr.Snapshot()
	if snap.Health != HealthOK || snap.LastErrorCode != 0 || snap.SecondsInError != 0 {
		t.Fatalf("snapshot after recovery = %+v, want clean ok", snap)
	}
}

func TestTracker_TickOnlyCountsWhileUnhealthy(t *testing.T) {
	tr := NewTracker("panel0", zap.NewNop().Sugar())

	tr.Observe(nil)
	tr.Tick()
	if got := tr.Snapshot().SecondsInError; got != 0 {
		t.Fatalf("seconds in error = %d while healthy, want 0", got)
	}

	// Unknown (boot) state counts as not-ok, like the original snapshot
	// logic: the counter runs until the first successful cycle.
	tr2 := NewTracker("panel1", zap.NewNop().Sugar())
	tr2.Tick()
	if got := tr2.Snapshot().SecondsInError; got != 1 {
		t.Fatalf("seconds in error = %d at boot, want 1", got)
	}
}

func TestCode_Extraction(t *testing.T) {
	if got := Code(nil); got != 0 {
		t.Fatalf("Code(nil) = %d, want 0", got)
	}
	if got := Code(errors.New("plain")); got != 1 {
		t.Fatalf("Code(plain) = %d, want 1", got)
	}
	if got := Code(&codedError{code: 42}); got != 42 {
		t.Fatalf("Code(coded) = %d, want 42", got)
	}
}
