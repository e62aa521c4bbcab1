// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains the interface type for semantic input
// events.
package event

// Event is implemented by all semantic input event types.
type Event interface {
	ImplementsEvent()
}
