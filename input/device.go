// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DeviceType is the category a probed device file falls into. The
// engine keeps one device slot per category.
type DeviceType uint8

const (
	Touchscreen DeviceType = iota
	Stylus
	Buttons
	Keyboard

	numDeviceTypes int = iota
)

func (t DeviceType) String() string {
	switch t {
	case Touchscreen:
		return "Touchscreen"
	case Stylus:
		return "Stylus"
	case Buttons:
		return "Buttons"
	case Keyboard:
		return "Keyboard"
	default:
		panic("invalid DeviceType")
	}
}

// A PresenceEvent reports a device category appearing or
// disappearing.
type PresenceEvent struct {
	Type      DeviceType `cbor:"type"`
	Connected bool       `cbor:"connected"`
}

func (PresenceEvent) ImplementsEvent() {}

// device is one open evdev handle. The file descriptor is raw and
// nonblocking: reads are driven by the engine's poll loop, not the
// runtime poller.
type device struct {
	fd   int
	typ  DeviceType
	path string
	// frameOpen is set while a stylus frame has produced input and
	// its Sync is still outstanding.
	frameOpen bool
}

// eviocgBit builds the EVIOCGBIT(ev, len) ioctl request: direction
// read, type 'E', nr 0x20+ev.
func eviocgBit(ev uint16, size int) uint32 {
	const iocRead = 2
	return iocRead<<30 | uint32(size)<<16 | 'E'<<8 | (0x20 + uint32(ev))
}

func ioctlBits(fd int, ev uint16, buf []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		uintptr(fd), uintptr(eviocgBit(ev, len(buf))), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

func testBit(bits []byte, n uint16) bool {
	i := int(n / 8)
	return i < len(bits) && bits[i]&(1<<(n%8)) != 0
}

// probe opens path nonblocking and classifies it: a multi-touch slot
// axis makes a touchscreen; a stylus button together with absolute
// axes makes a stylus; a power key makes the buttons device; any
// other key-capable device is a keyboard. ok is false for every other
// device, including absolute-axis devices without a slot axis or key
// capabilities.
func probe(path string) (*device, bool, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", path, err)
	}

	var types [4]byte // event type bitmask, EV_MAX < 32
	if err := ioctlBits(fd, 0, types[:]); err != nil {
		unix.Close(fd)
		return nil, false, fmt.Errorf("probe %s: %w", path, err)
	}
	var abs [8]byte // ABS_MAX = 0x3f
	if testBit(types[:], evAbs) {
		if err := ioctlBits(fd, evAbs, abs[:]); err != nil {
			unix.Close(fd)
			return nil, false, fmt.Errorf("probe %s: %w", path, err)
		}
	}
	var keys [96]byte // KEY_MAX = 0x2ff
	if testBit(types[:], evKey) {
		if err := ioctlBits(fd, evKey, keys[:]); err != nil {
			unix.Close(fd)
			return nil, false, fmt.Errorf("probe %s: %w", path, err)
		}
	}

	var typ DeviceType
	switch {
	case testBit(abs[:], absMTSlot):
		typ = Touchscreen
	case testBit(keys[:], btnStylus) && testBit(types[:], evAbs):
		typ = Stylus
	case testBit(keys[:], keyPower):
		typ = Buttons
	case testBit(types[:], evKey):
		typ = Keyboard
	default:
		unix.Close(fd)
		return nil, false, nil
	}
	return &device{fd: fd, typ: typ, path: path}, true, nil
}
