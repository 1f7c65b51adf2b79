// internal/health/health.go
package health

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy device.
const HealthOK uint16 = 1

// HealthError represents a device error state.
const HealthError uint16 = 2

// Snapshot is the device-level truth the tracker exposes.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Tracker folds poll cycle outcomes into a snapshot and logs transitions.
// Safe for concurrent use: Observe runs on the deferred poll context while
// Tick runs on the daemon's seconds ticker.
type Tracker struct {
	mu   sync.Mutex
	id   string
	snap Snapshot
	log  *zap.SugaredLogger
}

// NewTracker starts in the unknown state.
func NewTracker(id string, log *zap.SugaredLogger) *Tracker {
	return &Tracker{
		id:   id,
		snap: Snapshot{Health: HealthUnknown},
		log:  log,
	}
}

// Observe records the outcome of one poll cycle (nil means success).
func (t *Tracker) Observe(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err == nil {
		if t.snap.Health == HealthError {
			t.log.Infow("device recovered", "device", t.id,
				"seconds_in_error", t.snap.SecondsInError)
		}
		t.snap = Snapshot{Health: HealthOK}
		return
	}

	if t.snap.Health != HealthError {
		t.log.Warnw("device unhealthy", "device", t.id, "error", err)
	}
	t.snap.Health = HealthError
	t.snap.LastErrorCode = Code(err)
}

// Tick advances the seconds-in-error counter; call at 1 Hz.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Health == HealthOK {
		return
	}
	if t.snap.SecondsInError < 65535 {
		t.snap.SecondsInError++
	}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Code extracts a best-effort uint16 code from an error without assuming
// concrete types. If the error does not expose a code, returns 1 (generic
// error).
func Code(err error) uint16 {
	if err == nil {
		return 0
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}

	return 1
}
