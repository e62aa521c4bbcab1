// SPDX-License-Identifier: Unlicense OR MIT

/*
Package protocol defines the messages exchanged between the window
manager and its clients over the control socket, framed by package
wire.

Variant messages are encoded as CBOR maps with one populated member;
absent members are omitted entirely.
*/
package protocol

import (
	"inkwm.org/geom"
	"inkwm.org/io/key"
	"inkwm.org/io/stylus"
	"inkwm.org/io/touch"
	"inkwm.org/surface"
)

// ID is a non-zero 32-bit identifier. Allocation is monotonically
// increasing and wraps around past zero.
type ID uint32

// FirstID is the first allocated ID.
const FirstID ID = 1

// Next returns the ID following id.
func (id ID) Next() ID {
	id++
	if id == 0 {
		return FirstID
	}
	return id
}

// SurfaceID identifies a surface. Surface and task IDs share one
// allocator, so the two spaces never collide.
type SurfaceID ID

// TaskID identifies a connected client task.
type TaskID ID

// An Allocator hands out IDs.
type Allocator struct {
	last ID
}

// Next returns a fresh ID.
func (a *Allocator) Next() ID {
	if a.last == 0 {
		a.last = FirstID
		return a.last
	}
	a.last = a.last.Next()
	return a.last
}

// InitKind selects how a new surface attaches to the shell.
type InitKind uint8

const (
	// InitNormal tiles the surface into the container tree next to
	// the focused surface.
	InitNormal InitKind = iota
	// InitLayer anchors the surface to one screen side, claimed
	// before the main layout.
	InitLayer
	// InitWallpaper fills the residual region behind the container
	// tree, replacing any previous wallpaper.
	InitWallpaper
)

// SurfaceInit describes a surface creation request.
type SurfaceInit struct {
	Kind InitKind `cbor:"kind"`
	// Anchor and Size apply to InitLayer only. The anchor is
	// interpreted before the global rotation.
	Anchor geom.Side `cbor:"anchor,omitempty"`
	Size   int32     `cbor:"size,omitempty"`
}

// Command is a client-to-server message.
type Command struct {
	CreateSurface *SurfaceInit `cbor:"createSurface,omitempty"`
}

// Event is a server-to-client message.
type Event struct {
	Surface *SurfaceEvent `cbor:"surface,omitempty"`
}

// SurfaceEvent is addressed to one surface of the receiving client.
// Exactly one of Description, Input and Quit is populated.
type SurfaceEvent struct {
	ID SurfaceID `cbor:"id"`
	// Description reports a geometry change. It always precedes any
	// input event that depends on it.
	Description *surface.Description `cbor:"description,omitempty"`
	Input       *InputEvent          `cbor:"input,omitempty"`
	// Quit asks the client to tear down the surface.
	Quit bool `cbor:"quit,omitempty"`
}

// InputEvent is a routed input event. Exactly one member is
// populated.
type InputEvent struct {
	Key    *key.Event       `cbor:"key,omitempty"`
	Text   *key.TextEvent   `cbor:"text,omitempty"`
	Button *key.ButtonEvent `cbor:"button,omitempty"`
	Touch  *TouchEvent      `cbor:"touch,omitempty"`
	Stylus *StylusEvent     `cbor:"stylus,omitempty"`
}

// TouchEvent carries a contact transition along with the full
// contact state at the moment of the event, which the client cannot
// otherwise observe. End carries no state.
type TouchEvent struct {
	ID    touch.ID     `cbor:"id"`
	Phase touch.Phase  `cbor:"phase"`
	State *touch.State `cbor:"state,omitempty"`
}

// StylusEvent carries a stylus transition along with the stylus
// state snapshot. Leave carries no state.
type StylusEvent struct {
	Phase stylus.Phase  `cbor:"phase"`
	State *stylus.State `cbor:"state,omitempty"`
}
