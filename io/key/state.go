// SPDX-License-Identifier: Unlicense OR MIT

package key

import "inkwm.org/io/event"

// State is the keyboard state machine: the persistent modifier set
// and the keys currently held down.
type State struct {
	layout Layout
	mods   Modifiers
	// held maps each scancode to the Key resolved when it was
	// pressed, or None when the key is up. Releases report the
	// stored Key so applications see the same Key for press and
	// release regardless of modifier changes in between. The array
	// is fixed-size to keep the hot path allocation free.
	held [NumScancodes]Key
}

// NewState returns a State using layout, or DefaultLayout if layout
// is nil.
func NewState(layout Layout) *State {
	if layout == nil {
		layout = DefaultLayout{}
	}
	return &State{layout: layout}
}

// Modifiers returns the persistent modifier set.
func (s *State) Modifiers() Modifiers {
	return s.mods
}

// A PressedKey is one currently held key.
type PressedKey struct {
	Scancode Scancode
	Key      Key
}

// Pressed returns the currently held keys in scancode order.
func (s *State) Pressed() []PressedKey {
	var keys []PressedKey
	for sc, k := range s.held {
		if k != None {
			keys = append(keys, PressedKey{Scancode: Scancode(sc), Key: k})
		}
	}
	return keys
}

// Process feeds one physical key transition through the layout and
// emits the resulting events: always an Event, plus a TextEvent when
// a press produces text.
func (s *State) Process(sc Scancode, kind Kind, emit func(event.Event)) {
	mods := s.mods
	var k Key
	if kind.Released() {
		// None here means the key was already down when we started;
		// the press-time modifiers are unknown, so no Key is
		// reported.
		k = s.held[sc]
		s.held[sc] = None
	} else {
		// Lookup may consume accessor modifiers from mods for this
		// keystroke only.
		k = s.layout.Lookup(sc, &mods)
		// Overwrites any auto-repeat entry if modifiers changed while
		// the key was held. Intended.
		s.held[sc] = k
	}

	emit(Event{Scancode: sc, Key: k, Kind: kind, Modifiers: mods})

	if k == None {
		return
	}
	switch r := s.layout.Resolve(k, mods); r.Action {
	case ActionModifier:
		s.updateModifier(r.Modifier, kind)
	case ActionText:
		if kind.Pressed() {
			emit(TextEvent{Text: r.Text})
		}
	}
}

func (s *State) updateModifier(m Modifiers, kind Kind) {
	if m.Toggle() {
		if kind == Press {
			s.mods ^= m
		}
		return
	}
	switch kind {
	case Press:
		s.mods |= m
	case Release:
		s.mods &^= m
	case Repeat:
	}
}
