// SPDX-License-Identifier: Unlicense OR MIT

// Package eink describes E-Ink refresh requests independently of the
// framebuffer that performs them.
package eink

import "inkwm.org/geom"

// Style selects the waveform the display driver uses to refresh the
// pixels, trading speed against ghosting and color fidelity.
type Style uint8

const (
	// StyleInit is a slow refresh with no ghosting. Works for all colors.
	StyleInit Style = iota
	// StyleRGB is a relatively fast refresh with some ghosting. Works
	// for all colors.
	StyleRGB
	// StyleMonochrome is a very fast refresh with minimal ghosting, but
	// only works for black and white.
	StyleMonochrome
)

// Depth selects how hard the driver tries to remove ghosting.
type Depth uint8

const (
	// DepthPartial is a normal and relatively fast update.
	DepthPartial Depth = iota
	// DepthFull is a longer and more thorough update. It will flash
	// between black and white.
	DepthFull
)

// Updater is implemented by pixel sinks that can ask the display
// driver to refresh a region.
type Updater interface {
	// Update refreshes area with the given style and depth. Rectangles
	// extending past the sink are clipped; empty rectangles are
	// dropped without a driver round trip.
	Update(area geom.Rect, style Style, depth Depth) error
}

// UpdatePartial is shorthand for Update with DepthPartial.
func UpdatePartial(u Updater, area geom.Rect, style Style) error {
	return u.Update(area, style, DepthPartial)
}

// UpdateFull is shorthand for Update with DepthFull.
func UpdateFull(u Updater, area geom.Rect, style Style) error {
	return u.Update(area, style, DepthFull)
}

func (s Style) String() string {
	switch s {
	case StyleInit:
		return "Init"
	case StyleRGB:
		return "RGB"
	case StyleMonochrome:
		return "Monochrome"
	default:
		panic("invalid Style")
	}
}

func (d Depth) String() string {
	switch d {
	case DepthPartial:
		return "Partial"
	case DepthFull:
		return "Full"
	default:
		panic("invalid Depth")
	}
}
