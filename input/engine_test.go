// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"inkwm.org/io/event"
	"inkwm.org/io/key"
	"inkwm.org/io/touch"
)

func testEngine() *Engine {
	return &Engine{keyboard: key.NewState(nil)}
}

func (e *Engine) drain() []event.Event {
	q := e.queue
	e.queue = nil
	return q
}

func keyEvent(code uint16, value int32) rawEvent {
	return rawEvent{Type: evKey, Code: code, Value: value}
}

func absEvent(code uint16, value int32) rawEvent {
	return rawEvent{Type: evAbs, Code: code, Value: value}
}

var syn = rawEvent{Type: evSyn, Code: synReport}

func TestKeyboardDispatch(t *testing.T) {
	e := testEngine()
	d := &device{typ: Keyboard}
	e.dispatch(d, keyEvent(19, 1)) // KEY_R press
	got := e.drain()
	want := []event.Event{
		key.Event{Scancode: key.ScanR, Key: key.R, Kind: key.Press},
		key.TextEvent{Text: "p"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownCodesIgnored(t *testing.T) {
	e := testEngine()
	d := &device{typ: Keyboard}
	e.dispatch(d, keyEvent(0x1ff, 1))      // unmapped key code
	e.dispatch(d, keyEvent(19, 3))         // unknown value
	e.dispatch(d, absEvent(absX, 100))     // wrong event type for keyboards
	e.dispatch(d, rawEvent{Type: 0x15})    // unknown event type
	if got := e.drain(); len(got) != 0 {
		t.Errorf("got %v, want no events", got)
	}
}

func TestPowerButton(t *testing.T) {
	e := testEngine()
	d := &device{typ: Buttons}
	e.dispatch(d, keyEvent(keyPower, 1))
	e.dispatch(d, keyEvent(keyPower, 2)) // repeats are dropped
	e.dispatch(d, keyEvent(keyPower, 0))
	got := e.drain()
	want := []event.Event{
		key.ButtonEvent{Button: key.ButtonPower, Pressed: true},
		key.ButtonEvent{Button: key.ButtonPower, Pressed: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTouchFrames(t *testing.T) {
	e := testEngine()
	d := &device{typ: Touchscreen}

	// A contact that starts and ends within one frame cancels.
	e.dispatch(d, absEvent(absMTSlot, 0))
	e.dispatch(d, absEvent(absMTPositionX, 100))
	e.dispatch(d, absEvent(absMTPositionY, 200))
	e.dispatch(d, absEvent(absMTTrackingID, -1))
	e.dispatch(d, syn)
	if got := e.drain(); len(got) != 0 {
		t.Fatalf("got %v, want no events", got)
	}

	// Start, change, end across three frames.
	e.dispatch(d, absEvent(absMTSlot, 0))
	e.dispatch(d, absEvent(absMTPositionX, 100))
	e.dispatch(d, absEvent(absMTPositionY, 200))
	e.dispatch(d, syn)
	e.dispatch(d, absEvent(absMTPositionX, 110))
	e.dispatch(d, syn)
	e.dispatch(d, absEvent(absMTTrackingID, -1))
	e.dispatch(d, syn)
	got := e.drain()
	want := []event.Event{
		touch.Event{ID: 0, Phase: touch.Start},
		touch.Event{ID: 0, Phase: touch.Change},
		touch.Event{ID: 0, Phase: touch.End},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	// Positive tracking IDs carry no information here.
	e.dispatch(d, absEvent(absMTTrackingID, 7))
	e.dispatch(d, syn)
	if got := e.drain(); len(got) != 0 {
		t.Errorf("got %v, want no events", got)
	}
}

func TestStylusSnapshot(t *testing.T) {
	e := testEngine()
	d := &device{typ: Stylus}
	e.dispatch(d, keyEvent(btnToolPen, 1))
	e.dispatch(d, absEvent(absX, 5000))
	e.dispatch(d, absEvent(absY, 6000))
	e.dispatch(d, syn)
	got := e.drain()
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	s, ok := e.StylusState()
	if !ok || s.X != 5000 || s.Y != 6000 {
		t.Errorf("stylus state = %+v, %v", s, ok)
	}

	// A frame with no stylus input emits nothing.
	e.dispatch(d, syn)
	if got := e.drain(); len(got) != 0 {
		t.Errorf("got %v, want no events", got)
	}
}
