// internal/sink/uinput/uinput.go

// Package uinput emits decoded contacts as a Linux multitouch input device
// (slot protocol) with single-pointer emulation for legacy consumers.
package uinput

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/tamzrod/ili2117d/internal/sink"
)

const devPath = "/dev/uinput"

var (
	errNotRegistered = errors.New("uinput: device not registered")
	errNoSlot        = errors.New("uinput: no slot selected")
)

type contact struct {
	active bool
	// fresh forces position events right after activation, bypassing the
	// per-slot dedup so a new contact always carries coordinates.
	fresh bool
	x, y  uint16
}

// Device is a uinput-backed sink. Events accumulate per batch and reach the
// kernel in one write on Sync, so consumers observe each frame as a single
// event group.
type Device struct {
	f *os.File
	w io.Writer

	caps  sink.Capabilities
	slots []contact
	cur   int

	// emulated single pointer, derived from the lowest active slot
	touching bool
	lastX    uint16
	lastY    uint16
	haveLast bool

	batch []byte
}

// New returns an unregistered device. Register opens the uinput node and
// creates the input device; Close destroys it.
func New() *Device {
	return &Device{cur: -1}
}

// Register declares the event surface and creates the kernel device.
func (d *Device) Register(caps sink.Capabilities) error {
	if d.w != nil {
		return errors.New("uinput: already registered")
	}
	if caps.SlotCount <= 0 {
		return errors.New("uinput: slot count must be > 0")
	}

	fd, err := unix.Open(devPath, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("uinput: open %s: %w", devPath, err)
	}
	f := os.NewFile(uintptr(fd), devPath)

	if err := d.setup(f, caps); err != nil {
		_ = f.Close()
		return err
	}

	d.f = f
	d.w = f
	d.caps = caps
	d.slots = make([]contact, caps.SlotCount)
	d.cur = -1
	return nil
}

func (d *Device) setup(f *os.File, caps sink.Capabilities) error {
	fd := f.Fd()

	for _, ev := range []int32{evSyn, evKey, evAbs} {
		if err := ioctlInt(fd, uiSetEvBit(), ev); err != nil {
			return fmt.Errorf("uinput: set evbit %d: %w", ev, err)
		}
	}
	if err := ioctlInt(fd, uiSetKeyBit(), btnTouch); err != nil {
		return fmt.Errorf("uinput: set keybit: %w", err)
	}
	for _, abs := range []int32{absX, absY, absMTSlot, absMTPosX, absMTPosY, absMTTracking} {
		if err := ioctlInt(fd, uiSetAbsBit(), abs); err != nil {
			return fmt.Errorf("uinput: set absbit %#x: %w", abs, err)
		}
	}

	setup := userDev(caps.Name,
		map[int]int32{
			absX:          int32(caps.XMax),
			absY:          int32(caps.YMax),
			absMTPosX:     int32(caps.XMax),
			absMTPosY:     int32(caps.YMax),
			absMTSlot:     int32(caps.SlotCount - 1),
			absMTTracking: 0xFFFF,
		},
		map[int]int32{
			absMTTracking: -1,
		})
	if _, err := f.Write(setup); err != nil {
		return fmt.Errorf("uinput: device setup: %w", err)
	}
	if err := ioctlInt(fd, uiDevCreate(), 0); err != nil {
		return fmt.Errorf("uinput: device create: %w", err)
	}
	return nil
}

func ioctlInt(fd, req uintptr, val int32) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(val)); errno != 0 {
		return errno
	}
	return nil
}

// SelectSlot addresses a contact channel. The kernel retains the selection
// across batches, so an unchanged slot emits nothing.
func (d *Device) SelectSlot(slot int) error {
	if d.w == nil {
		return errNotRegistered
	}
	if slot < 0 || slot >= len(d.slots) {
		return fmt.Errorf("uinput: slot %d out of range [0, %d)", slot, len(d.slots))
	}
	if slot != d.cur {
		d.batch = appendEvent(d.batch, evAbs, absMTSlot, int32(slot))
		d.cur = slot
	}
	return nil
}

// SetActive pushes the contact state of the selected slot. The slot index
// doubles as the tracking id; -1 releases the contact. State is deduped, so
// reasserting the same state emits nothing.
func (d *Device) SetActive(active bool) error {
	if d.w == nil {
		return errNotRegistered
	}
	if d.cur < 0 {
		return errNoSlot
	}

	c := &d.slots[d.cur]
	if c.active == active {
		return nil
	}

	id := int32(-1)
	if active {
		id = int32(d.cur)
		c.fresh = true
	}
	d.batch = appendEvent(d.batch, evAbs, absMTTracking, id)
	c.active = active
	return nil
}

// SetPosition pushes coordinates for the selected slot. Unchanged axes are
// deduped per slot, except right after activation.
func (d *Device) SetPosition(x, y uint16) error {
	if d.w == nil {
		return errNotRegistered
	}
	if d.cur < 0 {
		return errNoSlot
	}

	c := &d.slots[d.cur]
	if !c.active {
		return fmt.Errorf("uinput: position on inactive slot %d", d.cur)
	}

	if c.fresh || x != c.x {
		d.batch = appendEvent(d.batch, evAbs, absMTPosX, int32(x))
	}
	if c.fresh || y != c.y {
		d.batch = appendEvent(d.batch, evAbs, absMTPosY, int32(y))
	}
	c.x, c.y = x, y
	c.fresh = false
	return nil
}

// Sync derives the emulated single pointer from the lowest active slot,
// terminates the batch with SYN_REPORT and hands it to the kernel in one
// write.
func (d *Device) Sync() error {
	if d.w == nil {
		return errNotRegistered
	}

	primary := -1
	for i := range d.slots {
		if d.slots[i].active {
			primary = i
			break
		}
	}

	if primary >= 0 {
		if !d.touching {
			d.batch = appendEvent(d.batch, evKey, btnTouch, 1)
			d.touching = true
		}
		c := d.slots[primary]
		if !d.haveLast || c.x != d.lastX {
			d.batch = appendEvent(d.batch, evAbs, absX, int32(c.x))
		}
		if !d.haveLast || c.y != d.lastY {
			d.batch = appendEvent(d.batch, evAbs, absY, int32(c.y))
		}
		d.lastX, d.lastY = c.x, c.y
		d.haveLast = true
	} else if d.touching {
		d.batch = appendEvent(d.batch, evKey, btnTouch, 0)
		d.touching = false
	}

	d.batch = appendEvent(d.batch, evSyn, synReport, 0)

	_, err := d.w.Write(d.batch)
	d.batch = d.batch[:0]
	if err != nil {
		return fmt.Errorf("uinput: batch write: %w", err)
	}
	return nil
}

// Close destroys the kernel device and releases the node.
func (d *Device) Close() error {
	if d.f == nil {
		return nil
	}
	err := ioctlInt(d.f.Fd(), uiDevDestroy(), 0)
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	d.f = nil
	d.w = nil
	return err
}
