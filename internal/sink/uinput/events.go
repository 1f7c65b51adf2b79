// internal/sink/uinput/events.go
package uinput

import "encoding/binary"

// Linux input event codes used by the multitouch protocol.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0x00

	btnTouch = 0x14A

	absX          = 0x00
	absY          = 0x01
	absMTSlot     = 0x2F
	absMTPosX     = 0x35
	absMTPosY     = 0x36
	absMTTracking = 0x39
)

// absCount is the size of each abs axis table in uinput_user_dev.
const absCount = 0x40

// busI2C mirrors BUS_I2C from linux/input.h.
const busI2C = 0x18

// ---- ioctl request encoding (Linux _IOC macro) ----

const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocNone  = 0
	iocWrite = 1
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

// uinput ioctls from linux/uinput.h.
func uiSetEvBit() uintptr  { return ioc(iocWrite, 'U', 100, 4) } // _IOW('U', 100, int)
func uiSetKeyBit() uintptr { return ioc(iocWrite, 'U', 101, 4) } // _IOW('U', 101, int)
func uiSetAbsBit() uintptr { return ioc(iocWrite, 'U', 103, 4) } // _IOW('U', 103, int)
func uiDevCreate() uintptr { return ioc(iocNone, 'U', 1, 0) }    // _IO('U', 1)
func uiDevDestroy() uintptr {
	return ioc(iocNone, 'U', 2, 0) // _IO('U', 2)
}

// eventSize is sizeof(struct input_event) on 64-bit targets: two 64-bit
// time fields plus type, code and value.
const eventSize = 24

// appendEvent encodes one input_event with a zeroed timestamp; the kernel
// stamps events on delivery.
func appendEvent(dst []byte, typ, code uint16, value int32) []byte {
	var ev [eventSize]byte
	binary.LittleEndian.PutUint16(ev[16:18], typ)
	binary.LittleEndian.PutUint16(ev[18:20], code)
	binary.LittleEndian.PutUint32(ev[20:24], uint32(value))
	return append(dst, ev[:]...)
}

// userDevSize is sizeof(struct uinput_user_dev): name, input_id,
// ff_effects_max and four abs axis tables.
const userDevSize = 80 + 8 + 4 + 4*4*absCount

// userDev assembles the legacy uinput_user_dev setup blob written before
// UI_DEV_CREATE. Axes not present in the maps keep a zero range.
func userDev(name string, absMax, absMin map[int]int32) []byte {
	buf := make([]byte, userDevSize)
	copy(buf[:79], name)

	binary.LittleEndian.PutUint16(buf[80:82], busI2C)
	// vendor, product and version stay zero.

	const absMaxOff = 80 + 8 + 4
	const absMinOff = absMaxOff + 4*absCount
	for code, max := range absMax {
		binary.LittleEndian.PutUint32(buf[absMaxOff+4*code:], uint32(max))
	}
	for code, min := range absMin {
		binary.LittleEndian.PutUint32(buf[absMinOff+4*code:], uint32(min))
	}

	return buf
}
