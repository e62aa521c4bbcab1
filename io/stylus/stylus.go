// SPDX-License-Identifier: Unlicense OR MIT

// Package stylus implements the stylus state machine fed by the
// digitizer's tool, touch and axis reports.
package stylus

import "inkwm.org/geom"

// Tool is the stylus end currently in range.
type Tool uint8

const (
	Pen Tool = iota
	Rubber
)

// Phase describes the stylus transition within one frame, derived
// from the touching flag before and after the frame. Absence of a
// tool is a distinct value on both sides.
type Phase uint8

const (
	// Hover: a tool came into range without touching.
	Hover Phase = iota
	// Touch: the tool contacted the surface.
	Touch
	// Change: position or pressure changed without a contact
	// transition.
	Change
	// Lift: the tool left the surface (and possibly range).
	Lift
	// Leave: a hovering tool left range.
	Leave
)

// State is the full stylus description while a tool is in range.
type State struct {
	Tool     Tool   `cbor:"tool"`
	Touching bool   `cbor:"touching"`
	X        uint16 `cbor:"x"`
	Y        uint16 `cbor:"y"`
	Pressure uint16 `cbor:"pressure"`
	Distance uint8  `cbor:"distance"`
	TiltX    int16  `cbor:"tiltX"`
	TiltY    int16  `cbor:"tiltY"`
}

// Raw digitizer axis ranges. The digitizer axes are swapped and
// mirrored relative to the display.
const (
	rawXMax = 20967
	rawYMax = 15725
)

// Position returns the stylus position in framebuffer coordinates
// for a display of the given size.
func (s State) Position(fbSize geom.Vec) geom.Point {
	x := float32(s.Y) * (float32(fbSize.X) / rawYMax)
	y := float32(fbSize.Y) - float32(s.X)*(float32(fbSize.Y)/rawXMax)
	return geom.Pt(int32(x), int32(y))
}

// Tilt returns the tool tilt in both axes.
func (s State) Tilt() geom.Point {
	return geom.Pt(int32(s.TiltX), int32(s.TiltY))
}

// An Event reports one stylus transition.
type Event struct {
	Phase Phase `cbor:"phase"`
}

func (Event) ImplementsEvent() {}

// Tracker owns the stylus state across frames.
type Tracker struct {
	state   State
	present bool

	framePrev     bool
	framePresent  bool
	frameTouching bool
}

// Get returns the stylus state and whether a tool is in range.
func (t *Tracker) Get() (State, bool) {
	return t.state, t.present
}

// Begin starts a frame, capturing the touching state that phase
// computation compares against.
func (t *Tracker) Begin() {
	t.framePrev = t.present
	t.frameTouching = t.present && t.state.Touching
	t.framePresent = true
}

// Tool reports a tool entering range; present false clears the
// state.
func (t *Tracker) Tool(tool Tool, present bool) {
	if !present {
		t.present = false
		t.state = State{}
		return
	}
	t.state = State{Tool: tool}
	t.present = true
}

// Touch reports the contact flag.
func (t *Tracker) Touch(v bool) {
	if t.present {
		t.state.Touching = v
	}
}

func (t *Tracker) PositionX(v uint16) {
	if t.present {
		t.state.X = v
	}
}

func (t *Tracker) PositionY(v uint16) {
	if t.present {
		t.state.Y = v
	}
}

func (t *Tracker) Pressure(v uint16) {
	if t.present {
		t.state.Pressure = v
	}
}

func (t *Tracker) Distance(v uint8) {
	if t.present {
		t.state.Distance = v
	}
}

func (t *Tracker) TiltX(v int16) {
	if t.present {
		t.state.TiltX = v
	}
}

func (t *Tracker) TiltY(v int16) {
	if t.present {
		t.state.TiltY = v
	}
}

// Sync ends the frame and emits at most one event describing the
// transition since Begin.
func (t *Tracker) Sync(emit func(Event)) {
	if !t.framePresent {
		return
	}
	t.framePresent = false

	prevAbsent := !t.framePrev
	prevTouching := t.frameTouching
	var phase Phase
	switch {
	case prevAbsent && !t.present:
		return
	case prevAbsent && t.state.Touching:
		phase = Touch
	case prevAbsent:
		phase = Hover
	case !t.present:
		if prevTouching {
			phase = Lift
		} else {
			phase = Leave
		}
	case prevTouching == t.state.Touching:
		phase = Change
	case t.state.Touching:
		phase = Touch
	default:
		phase = Lift
	}
	emit(Event{Phase: phase})
}

func (p Phase) String() string {
	switch p {
	case Hover:
		return "Hover"
	case Touch:
		return "Touch"
	case Change:
		return "Change"
	case Lift:
		return "Lift"
	case Leave:
		return "Leave"
	default:
		panic("invalid Phase")
	}
}

func (t Tool) String() string {
	switch t {
	case Pen:
		return "Pen"
	case Rubber:
		return "Rubber"
	default:
		panic("invalid Tool")
	}
}
