// internal/sink/sink.go
package sink

// Capabilities declares the event surface a device registers before it may
// report contacts.
type Capabilities struct {
	Name      string
	SlotCount int
	XMax      uint16
	YMax      uint16
}

// Sink consumes per-slot contact state. Everything between the first
// SelectSlot and the next Sync forms one batch; Sync flushes the batch as a
// single event group. The sink derives its emulated single pointer from the
// lowest active slot, so callers must report slots in ascending index order.
//
// IMPORTANT: There must be NO other version of this interface anywhere.
type Sink interface {
	Register(caps Capabilities) error
	SelectSlot(slot int) error
	SetActive(active bool) error
	SetPosition(x, y uint16) error
	Sync() error
	Close() error
}
