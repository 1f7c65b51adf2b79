// internal/packet/packet.go
package packet

// ---- FRAME GEOMETRY ----

// MaxSlots is the fixed number of contact slots the chip reports per frame.
const MaxSlots = 10

// slotSize is the per-slot byte width: packed high nibbles, x_low, y_low, checksum.
const slotSize = 4

// PacketSize is the full frame: packet_id + slots + key/proximity + checksum.
const PacketSize = 1 + MaxSlots*slotSize + 1 + 1

// ---- SENTINELS ----

// packetID marks a frame that belongs to a live burst.
// Anything else ends the burst.
const packetID = 0x5A

// emptyChecksum is the "no data" marker in a checksum byte.
// It is a presence flag, not an integrity check: no arithmetic
// checksum is ever computed or verified.
const emptyChecksum = 0xFF

// Slot is one decoded contact channel. A slot has no identity across
// frames beyond its index; contact continuity is the sink's problem.
type Slot struct {
	Active bool
	X, Y   uint16
}

// Frame is the result of decoding one raw packet.
type Frame struct {
	// ContinuePolling is true while the chip still has touch data
	// to report. When it goes false the burst is over.
	ContinuePolling bool

	// KeyMask and Proximity mirror the trailing packed byte. They are
	// carried for completeness; this packet layout does not report them.
	KeyMask   uint8
	Proximity uint8

	Slots [MaxSlots]Slot
}

// xHigh extracts the upper 4 bits of the X coordinate from the packed byte.
func xHigh(b byte) uint16 { return uint16(b & 0x0F) }

// yHigh extracts the upper 4 bits of the Y coordinate from the packed byte.
func yHigh(b byte) uint16 { return uint16(b >> 4) }

// Decode interprets buf as one touch frame. It never fails: semantic
// invalidity shows up as inactive slots, not as an error.
//
// A slot is active iff the frame id matches, the frame checksum is not
// the empty sentinel, and the slot checksum is not the empty sentinel.
// The frame-level gate comes first: a non-matching id forces every slot
// inactive regardless of its checksum byte.
func Decode(buf *[PacketSize]byte) Frame {
	f := Frame{
		ContinuePolling: buf[0] == packetID,
	}

	tail := buf[1+MaxSlots*slotSize]
	f.KeyMask = tail & 0x0F
	f.Proximity = tail >> 4

	frameValid := f.ContinuePolling && buf[PacketSize-1] != emptyChecksum

	for i := 0; i < MaxSlots; i++ {
		raw := buf[1+i*slotSize : 1+(i+1)*slotSize]

		s := &f.Slots[i]
		s.X = uint16(raw[1]) | xHigh(raw[0])<<8
		s.Y = uint16(raw[2]) | yHigh(raw[0])<<8
		s.Active = frameValid && raw[3] != emptyChecksum
	}

	return f
}
