// internal/irq/irq.go
package irq

// Line is one edge-triggered interrupt input. The bound handler must return
// quickly and must not touch the bus: it runs on the monitor goroutine
// between edge waits, and its only job is to request deferred work.
type Line interface {
	Bind(fn func()) error
	Unbind() error

	// SetWake toggles whether this line may wake the host from a
	// low-power state. It does not start or stop anything.
	SetWake(enabled bool) error

	Close() error
}
