// SPDX-License-Identifier: Unlicense OR MIT

/*
Package input turns the raw evdev streams of the tablet's devices
into a single ordered stream of semantic events.

The engine is a pull-based producer: Next blocks until an event is
available. Device files are polled round-robin so no one device can
starve the others, and the input directory is watched so replugged
devices resume.
*/
package input

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"inkwm.org/io/event"
	"inkwm.org/io/key"
	"inkwm.org/io/stylus"
	"inkwm.org/io/touch"
)

// DefaultDir is where the kernel exposes evdev device files.
const DefaultDir = "/dev/input"

// pollTimeout bounds each poll so directory notifications are picked
// up even while no device is producing events.
const pollTimeout = 500 // milliseconds

// Engine owns the open device handles and the per-device state
// machines, and merges their output into one queue.
type Engine struct {
	log     zerolog.Logger
	dir     string
	watcher *fsnotify.Watcher

	devices [numDeviceTypes]*device
	// next is the category the round-robin starts at for the next
	// poll.
	next int

	keyboard *key.State
	touch    touch.Tracker
	stylus   stylus.Tracker

	queue []event.Event
	buf   [64 * rawEventSize]byte
}

// Open enumerates the devices under DefaultDir and starts watching
// it for new ones. The keyboard uses layout, or the default layout
// if nil.
func Open(log zerolog.Logger, layout key.Layout) (*Engine, error) {
	return openDir(log, DefaultDir, layout)
}

func openDir(log zerolog.Logger, dir string, layout key.Layout) (*Engine, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("input: watch %s: %w", dir, err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("input: watch %s: %w", dir, err)
	}
	e := &Engine{
		log:      log,
		dir:      dir,
		watcher:  watcher,
		keyboard: key.NewState(layout),
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("input: enumerate %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		e.tryAdd(filepath.Join(dir, entry.Name()))
	}
	return e, nil
}

// Close releases the watcher and every open device.
func (e *Engine) Close() error {
	err := e.watcher.Close()
	for i, d := range e.devices {
		if d != nil {
			unix.Close(d.fd)
			e.devices[i] = nil
		}
	}
	return err
}

// Modifiers returns the keyboard's persistent modifier set.
func (e *Engine) Modifiers() key.Modifiers {
	return e.keyboard.Modifiers()
}

// TouchState returns the live state of a contact. It is valid for
// Start and Change events until the following call to Next.
func (e *Engine) TouchState(id touch.ID) (touch.State, bool) {
	return e.touch.Get(id)
}

// StylusState returns the live stylus state. It is valid for
// in-range phases until the following call to Next.
func (e *Engine) StylusState() (stylus.State, bool) {
	return e.stylus.Get()
}

// tryAdd probes path and claims its category slot. Unclassifiable
// files are skipped; a duplicate in an occupied category is logged
// and dropped.
func (e *Engine) tryAdd(path string) {
	if !strings.HasPrefix(filepath.Base(path), "event") {
		return
	}
	d, ok, err := probe(path)
	if err != nil {
		// The file may already be gone; discovery stays best-effort.
		e.log.Warn().Err(err).Str("path", path).Msg("probe failed")
		return
	}
	if !ok {
		return
	}
	if e.devices[d.typ] != nil {
		e.log.Info().Str("path", path).Stringer("type", d.typ).Msg("duplicate device ignored")
		unix.Close(d.fd)
		return
	}
	e.log.Info().Str("path", path).Stringer("type", d.typ).Msg("device added")
	e.devices[d.typ] = d
	e.queue = append(e.queue, PresenceEvent{Type: d.typ, Connected: true})
}

// remove drops a disappeared device and queues a presence event.
func (e *Engine) remove(typ DeviceType) {
	d := e.devices[typ]
	e.log.Info().Str("path", d.path).Stringer("type", typ).Msg("device removed")
	unix.Close(d.fd)
	e.devices[typ] = nil
	e.queue = append(e.queue, PresenceEvent{Type: typ, Connected: false})
}

// drainWatcher applies pending directory notifications without
// blocking.
func (e *Engine) drainWatcher() error {
	for {
		select {
		case ev, ok := <-e.watcher.Events:
			if !ok {
				return errors.New("input: watcher closed")
			}
			if ev.Has(fsnotify.Create) {
				e.tryAdd(ev.Name)
			}
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return errors.New("input: watcher closed")
			}
			return fmt.Errorf("input: watcher: %w", err)
		default:
			return nil
		}
	}
}

// Next returns the next semantic event. It suspends in poll while no
// device has pending input. Device-scope failures are recovered by
// removing the device; watcher failures are fatal.
func (e *Engine) Next() (event.Event, error) {
	for {
		if len(e.queue) > 0 {
			ev := e.queue[0]
			e.queue = e.queue[1:]
			return ev, nil
		}
		if err := e.drainWatcher(); err != nil {
			return nil, err
		}
		if err := e.poll(); err != nil {
			return nil, err
		}
	}
}

// poll waits for readiness and services ready devices starting at a
// rotating category index.
func (e *Engine) poll() error {
	var fds []unix.PollFd
	var cats []int
	for i := 0; i < numDeviceTypes; i++ {
		cat := (e.next + i) % numDeviceTypes
		if d := e.devices[cat]; d != nil {
			fds = append(fds, unix.PollFd{Fd: int32(d.fd), Events: unix.POLLIN})
			cats = append(cats, cat)
		}
	}
	e.next = (e.next + 1) % numDeviceTypes

	n, err := unix.Poll(fds, pollTimeout)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("input: poll: %w", err)
	}
	if n == 0 {
		return nil
	}
	for i, fd := range fds {
		if fd.Revents == 0 {
			continue
		}
		if err := e.service(DeviceType(cats[i])); err != nil {
			return err
		}
	}
	return nil
}

// service reads and decodes everything a device has pending.
func (e *Engine) service(typ DeviceType) error {
	d := e.devices[typ]
	for {
		n, err := unix.Read(d.fd, e.buf[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return nil
		case err == unix.ENODEV:
			e.remove(typ)
			return nil
		case err != nil:
			return fmt.Errorf("input: read %s: %w", d.path, err)
		case n == 0:
			e.remove(typ)
			return nil
		}
		for off := 0; off+rawEventSize <= n; off += rawEventSize {
			e.dispatch(d, decodeRawEvent(e.buf[off:off+rawEventSize]))
		}
	}
}

func (e *Engine) dispatch(d *device, raw rawEvent) {
	switch d.typ {
	case Keyboard, Buttons:
		e.dispatchKey(raw)
	case Touchscreen:
		e.dispatchTouch(raw)
	case Stylus:
		e.dispatchStylus(d, raw)
	}
}

func (e *Engine) enqueue(ev event.Event) {
	e.queue = append(e.queue, ev)
}

func (e *Engine) dispatchKey(raw rawEvent) {
	if raw.Type != evKey {
		return
	}
	sc, ok := scancodes[raw.Code]
	if !ok {
		return
	}
	kind, ok := keyKind(raw.Value)
	if !ok {
		return
	}
	if sc == key.ScanPower {
		if kind != key.Repeat {
			e.enqueue(key.ButtonEvent{Button: key.ButtonPower, Pressed: kind.Pressed()})
		}
		return
	}
	e.keyboard.Process(sc, kind, e.enqueue)
}

func (e *Engine) dispatchTouch(raw rawEvent) {
	switch raw.Type {
	case evSyn:
		if raw.Code == synReport {
			e.touch.Sync(func(ev touch.Event) { e.enqueue(ev) })
		}
	case evAbs:
		switch raw.Code {
		case absMTSlot:
			e.touch.Slot(uint8(raw.Value))
		case absMTTrackingID:
			if raw.Value == -1 {
				e.touch.TouchEnd()
			}
		case absMTPositionX:
			e.touch.PositionX(uint16(raw.Value))
		case absMTPositionY:
			e.touch.PositionY(uint16(raw.Value))
		case absMTPressure:
			e.touch.Pressure(uint8(raw.Value))
		case absMTTouchMajor:
			e.touch.TouchMajor(uint8(raw.Value))
		case absMTTouchMinor:
			e.touch.TouchMinor(uint8(raw.Value))
		case absMTOrientation:
			e.touch.Orientation(int8(raw.Value))
		}
		// The touchscreen also reports ABS_MT_DISTANCE, which is
		// always zero; it and other unknown codes are ignored.
	}
}

func (e *Engine) dispatchStylus(d *device, raw rawEvent) {
	if raw.Type == evSyn {
		if raw.Code == synReport && d.frameOpen {
			d.frameOpen = false
			e.stylus.Sync(func(ev stylus.Event) { e.enqueue(ev) })
		}
		return
	}
	open := func() {
		if !d.frameOpen {
			d.frameOpen = true
			e.stylus.Begin()
		}
	}
	switch raw.Type {
	case evKey:
		press := raw.Value == 1
		switch raw.Code {
		case btnToolPen:
			open()
			e.stylus.Tool(stylus.Pen, press)
		case btnToolRubber:
			open()
			e.stylus.Tool(stylus.Rubber, press)
		case btnTouch:
			open()
			e.stylus.Touch(press)
		}
	case evAbs:
		open()
		switch raw.Code {
		case absX:
			e.stylus.PositionX(uint16(raw.Value))
		case absY:
			e.stylus.PositionY(uint16(raw.Value))
		case absPressure:
			e.stylus.Pressure(uint16(raw.Value))
		case absDistance:
			e.stylus.Distance(uint8(raw.Value))
		case absTiltX:
			e.stylus.TiltX(int16(raw.Value))
		case absTiltY:
			e.stylus.TiltY(int16(raw.Value))
		}
	}
}
