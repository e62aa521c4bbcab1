// SPDX-License-Identifier: Unlicense OR MIT

/*
Package surface describes the rectangular region, rotation and scale
a client draws through. The window manager assigns a Description to
every surface; clients compose it with their framebuffer handle to
translate surface-local drawing into global coordinates.
*/
package surface

import "inkwm.org/geom"

// A Description is the placement of a surface on the display: an
// affine map from surface-local coordinates to framebuffer
// coordinates. Local points are scaled, rotated within the base
// rectangle's size, then translated by its origin.
type Description struct {
	BaseRect geom.Rect     `cbor:"baseRect"`
	Rotation geom.Rotation `cbor:"rotation"`
	Scale    uint8         `cbor:"scale"`
	// Visible is false while the surface is fully obscured; drawing
	// through an invisible surface is a no-op.
	Visible bool `cbor:"visible"`
}

// TransformPoint maps a surface-local point to framebuffer
// coordinates.
func (d Description) TransformPoint(p geom.Point) geom.Point {
	p = p.Mul(int32(d.Scale))
	p = d.Rotation.TransformPoint(p, d.BaseRect.Size)
	return p.Add(d.BaseRect.Origin.Vec())
}

// TransformRect maps a surface-local rectangle to framebuffer
// coordinates.
func (d Description) TransformRect(r geom.Rect) geom.Rect {
	r = r.Mul(int32(d.Scale))
	r = d.Rotation.TransformRect(r, d.BaseRect.Size)
	r.Origin = r.Origin.Add(d.BaseRect.Origin.Vec())
	return r
}

// Size returns the logical size presented to the client: the base
// rectangle un-rotated and divided by the scale.
func (d Description) Size() geom.Vec {
	return d.Rotation.Inverse().TransformSize(d.BaseRect.Size).Abs().Div(int32(d.Scale))
}
