// internal/sink/uinput/uinput_test.go
package uinput

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/tamzrod/ili2117d/internal/sink"
)

type event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// testDevice wires the batch writer to a buffer instead of /dev/uinput.
func testDevice(buf *bytes.Buffer, slots int) *Device {
	return &Device{
		w:     buf,
		caps:  sink.Capabilities{SlotCount: slots, XMax: 2047, YMax: 2047},
		slots: make([]contact, slots),
		cur:   -1,
	}
}

func drain(t *testing.T, buf *bytes.Buffer) []event {
	t.Helper()
	raw := buf.Bytes()
	if len(raw)%eventSize != 0 {
		t.Fatalf("batch size %d not a multiple of event size", len(raw))
	}
	var evs []event
	for off := 0; off < len(raw); off += eventSize {
		evs = append(evs, event{
			Type:  binary.LittleEndian.Uint16(raw[off+16 : off+18]),
			Code:  binary.LittleEndian.Uint16(raw[off+18 : off+20]),
			Value: int32(binary.LittleEndian.Uint32(raw[off+20 : off+24])),
		})
	}
	buf.Reset()
	return evs
}

func mustEqual(t *testing.T, got, want []event) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("event count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSync_NewContactSequence(t *testing.T) {
	var buf bytes.Buffer
	d := testDevice(&buf, 10)

	if err := d.SelectSlot(0); err != nil {
		t.Fatal(err)
	}
	if err := d.SetActive(true); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPosition(100, 50); err != nil {
		t.Fatal(err)
	}
	if err := d.Sync(); err != nil {
		t.Fatal(err)
	}

	mustEqual(t, drain(t, &buf), []event{
		{evAbs, absMTSlot, 0},
		{evAbs, absMTTracking, 0},
		{evAbs, absMTPosX, 100},
		{evAbs, absMTPosY, 50},
		{evKey, btnTouch, 1},
		{evAbs, absX, 100},
		{evAbs, absY, 50},
		{evSyn, synReport, 0},
	})
}

func TestSync_DedupAcrossBatches(t *testing.T) {
	var buf bytes.Buffer
	d := testDevice(&buf, 10)

	report := func(x, y uint16) {
		t.Helper()
		if err := d.SelectSlot(0); err != nil {
			t.Fatal(err)
		}
		if err := d.SetActive(true); err != nil {
			t.Fatal(err)
		}
		if err := d.SetPosition(x, y); err != nil {
			t.Fatal(err)
		}
		if err := d.Sync(); err != nil {
			t.Fatal(err)
		}
	}

	report(100, 50)
	drain(t, &buf)

	// Same slot, same state, only X moves.
	report(101, 50)
	mustEqual(t, drain(t, &buf), []event{
		{evAbs, absMTPosX, 101},
		{evAbs, absX, 101},
		{evSyn, synReport, 0},
	})

	// Nothing moves: the batch degenerates to the sync marker.
	report(101, 50)
	mustEqual(t, drain(t, &buf), []event{
		{evSyn, synReport, 0},
	})
}

func TestSync_ReleaseDropsPointer(t *testing.T) {
	var buf bytes.Buffer
	d := testDevice(&buf, 10)

	_ = d.SelectSlot(0)
	_ = d.SetActive(true)
	_ = d.SetPosition(100, 50)
	if err := d.Sync(); err != nil {
		t.Fatal(err)
	}
	drain(t, &buf)

	_ = d.SelectSlot(0)
	_ = d.SetActive(false)
	if err := d.Sync(); err != nil {
		t.Fatal(err)
	}

	mustEqual(t, drain(t, &buf), []event{
		{evAbs, absMTTracking, -1},
		{evKey, btnTouch, 0},
		{evSyn, synReport, 0},
	})
}

func TestSync_PointerFollowsLowestActiveSlot(t *testing.T) {
	var buf bytes.Buffer
	d := testDevice(&buf, 10)

	// Two contacts; the pointer tracks slot 1 only after slot 0 lifts.
	_ = d.SelectSlot(0)
	_ = d.SetActive(true)
	_ = d.SetPosition(100, 50)
	_ = d.SelectSlot(1)
	_ = d.SetActive(true)
	_ = d.SetPosition(700, 900)
	if err := d.Sync(); err != nil {
		t.Fatal(err)
	}

	evs := drain(t, &buf)
	// Pointer events at the tail must carry slot 0's coordinates.
	tail := evs[len(evs)-4:]
	mustEqual(t, tail, []event{
		{evKey, btnTouch, 1},
		{evAbs, absX, 100},
		{evAbs, absY, 50},
		{evSyn, synReport, 0},
	})

	_ = d.SelectSlot(0)
	_ = d.SetActive(false)
	if err := d.Sync(); err != nil {
		t.Fatal(err)
	}

	mustEqual(t, drain(t, &buf), []event{
		{evAbs, absMTSlot, 0},
		{evAbs, absMTTracking, -1},
		{evAbs, absX, 700},
		{evAbs, absY, 900},
		{evSyn, synReport, 0},
	})
}

func TestSetPosition_RequiresActiveSlot(t *testing.T) {
	var buf bytes.Buffer
	d := testDevice(&buf, 10)

	if err := d.SelectSlot(2); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPosition(1, 1); err == nil {
		t.Fatalf("expected error for position on inactive slot")
	}
}

func TestSelectSlot_OutOfRange(t *testing.T) {
	var buf bytes.Buffer
	d := testDevice(&buf, 10)

	if err := d.SelectSlot(10); err == nil {
		t.Fatalf("expected range error")
	}
	if err := d.SelectSlot(-1); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestUserDev_Layout(t *testing.T) {
	blob := userDev("ILI2117 Touchscreen",
		map[int]int32{absX: 2047, absMTSlot: 9},
		map[int]int32{absMTTracking: -1})

	if len(blob) != userDevSize {
		t.Fatalf("blob size = %d, want %d", len(blob), userDevSize)
	}
	if got := string(bytes.TrimRight(blob[:80], "\x00")); got != "ILI2117 Touchscreen" {
		t.Fatalf("name = %q", got)
	}
	if bus := binary.LittleEndian.Uint16(blob[80:82]); bus != busI2C {
		t.Fatalf("bustype = %#x, want %#x", bus, busI2C)
	}

	const absMaxOff = 80 + 8 + 4
	const absMinOff = absMaxOff + 4*absCount
	if v := int32(binary.LittleEndian.Uint32(blob[absMaxOff+4*absX:])); v != 2047 {
		t.Fatalf("absmax[ABS_X] = %d, want 2047", v)
	}
	if v := int32(binary.LittleEndian.Uint32(blob[absMaxOff+4*absMTSlot:])); v != 9 {
		t.Fatalf("absmax[ABS_MT_SLOT] = %d, want 9", v)
	}
	if v := int32(binary.LittleEndian.Uint32(blob[absMinOff+4*absMTTracking:])); v != -1 {
		t.Fatalf("absmin[ABS_MT_TRACKING_ID] = %d, want -1", v)
	}
}
