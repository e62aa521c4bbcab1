// SPDX-License-Identifier: Unlicense OR MIT

// Package touch implements the multi-touch slot state machine fed by
// the touchscreen's absolute-axis frames.
package touch

import "inkwm.org/geom"

// NumSlots is the number of hardware contact slots.
const NumSlots = 32

// ID identifies a contact for its duration. The slot number serves
// as the ID: it does not change while the contact persists.
type ID uint8

// Phase describes how a contact changed within one frame.
type Phase uint8

const (
	// Start is emitted for slots that were empty at frame entry.
	Start Phase = iota
	// Change is emitted when an existing contact moved or changed
	// shape.
	Change
	// End is emitted for slots that held a contact at frame entry
	// and lost it.
	End
)

// An Event reports one contact transition.
type Event struct {
	ID    ID    `cbor:"id"`
	Phase Phase `cbor:"phase"`
}

func (Event) ImplementsEvent() {}

// State is the full description of one contact.
type State struct {
	X           uint16 `cbor:"x"`
	Y           uint16 `cbor:"y"`
	Pressure    uint8  `cbor:"pressure"`
	TouchMajor  uint8  `cbor:"touchMajor"`
	TouchMinor  uint8  `cbor:"touchMinor"`
	Orientation int8   `cbor:"orientation"`
}

// Position returns the contact position in framebuffer coordinates
// for a display of the given height. The device's Y axis grows
// opposite the display's.
func (s State) Position(fbHeight int32) geom.Point {
	return geom.Pt(int32(s.X), fbHeight-int32(s.Y))
}

// Tracker accumulates axis updates for the current frame and owns
// the cross-frame slot states. Slot states live in a fixed array so
// the hot input path does not allocate.
type Tracker struct {
	slot    uint8
	states  [NumSlots]State
	present [NumSlots]bool

	changes [NumSlots]phaseChange
}

type phaseChange uint8

const (
	changeNone phaseChange = iota
	changeStart
	changeChange
	changeEnd
)

// Get returns the state for a contact and whether it is present.
func (t *Tracker) Get(id ID) (State, bool) {
	if int(id) >= NumSlots {
		return State{}, false
	}
	return t.states[id], t.present[id]
}

// Slot switches the slot that subsequent axis updates apply to.
func (t *Tracker) Slot(v uint8) {
	t.slot = v
}

// TouchEnd removes the current slot's contact, if any. A contact
// that both started and ended within the frame cancels to no event.
func (t *Tracker) TouchEnd() {
	if int(t.slot) >= NumSlots || !t.present[t.slot] {
		return
	}
	t.present[t.slot] = false
	if t.changes[t.slot] == changeStart {
		t.changes[t.slot] = changeNone
	} else {
		t.changes[t.slot] = changeEnd
	}
}

// touch materializes the current slot's state for an axis update and
// records the phase change. Start is only recorded for slots that
// were empty at frame entry; restarting a contact that ended earlier
// in the frame collapses to Change, and Start dominates Change.
func (t *Tracker) touch() *State {
	if int(t.slot) >= NumSlots {
		return nil
	}
	if !t.present[t.slot] {
		t.states[t.slot] = State{}
		t.present[t.slot] = true
		if t.changes[t.slot] == changeNone {
			t.changes[t.slot] = changeStart
		} else {
			t.changes[t.slot] = changeChange
		}
	} else if t.changes[t.slot] != changeStart {
		t.changes[t.slot] = changeChange
	}
	return &t.states[t.slot]
}

// Axis updates for the current slot.

func (t *Tracker) PositionX(v uint16) {
	if s := t.touch(); s != nil {
		s.X = v
	}
}

func (t *Tracker) PositionY(v uint16) {
	if s := t.touch(); s != nil {
		s.Y = v
	}
}

func (t *Tracker) Pressure(v uint8) {
	if s := t.touch(); s != nil {
		s.Pressure = v
	}
}

func (t *Tracker) TouchMajor(v uint8) {
	if s := t.touch(); s != nil {
		s.TouchMajor = v
	}
}

func (t *Tracker) TouchMinor(v uint8) {
	if s := t.touch(); s != nil {
		s.TouchMinor = v
	}
}

func (t *Tracker) Orientation(v int8) {
	if s := t.touch(); s != nil {
		s.Orientation = v
	}
}

// Sync ends the frame: one event per changed slot, in slot order.
// The per-frame change tracker is reset.
func (t *Tracker) Sync(emit func(Event)) {
	for slot := range t.changes {
		change := t.changes[slot]
		t.changes[slot] = changeNone
		var phase Phase
		switch change {
		case changeNone:
			continue
		case changeStart:
			phase = Start
		case changeChange:
			phase = Change
		case changeEnd:
			phase = End
		}
		emit(Event{ID: ID(slot), Phase: phase})
	}
}

func (p Phase) String() string {
	switch p {
	case Start:
		return "Start"
	case Change:
		return "Change"
	case End:
		return "End"
	default:
		panic("invalid Phase")
	}
}
