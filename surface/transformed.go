// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"image"
	"image/color"

	"inkwm.org/eink"
	"inkwm.org/fb"
	"inkwm.org/geom"
)

// Target is the drawing surface a Transformed composes with:
// typically the process's framebuffer handle, or a fake in tests.
type Target interface {
	image.Image
	SetPixel(p geom.Point, c fb.RGB565)
	Fill(area geom.Rect, c fb.RGB565)
	eink.Updater
}

// Transformed maps drawing primitives through a Description into a
// Target, clipping to the surface's base rectangle. While the
// description is not visible, all drawing is a no-op.
//
// Transformed implements draw.Image over the surface's logical size,
// so image/draw and golang.org/x/image renderers work directly
// against it.
type Transformed struct {
	base Target
	desc Description
}

// Transform composes d with base.
func (d Description) Transform(base Target) *Transformed {
	return &Transformed{base: base, desc: d}
}

// Description returns the description the target was composed with.
func (t *Transformed) Description() Description {
	return t.desc
}

// Size returns the logical drawing size.
func (t *Transformed) Size() geom.Vec {
	return t.desc.Size()
}

// SetPixel writes one surface-local pixel, clipped to the surface.
func (t *Transformed) SetPixel(p geom.Point, c fb.RGB565) {
	if !t.desc.Visible {
		return
	}
	q := t.desc.TransformPoint(p)
	if !q.In(t.desc.BaseRect) {
		return
	}
	t.base.SetPixel(q, c)
}

// Fill fills a surface-local rectangle, clipped to the surface.
func (t *Transformed) Fill(area geom.Rect, c fb.RGB565) {
	if !t.desc.Visible {
		return
	}
	area = t.desc.TransformRect(area).Intersect(t.desc.BaseRect)
	t.base.Fill(area, c)
}

// Clear fills the whole surface.
func (t *Transformed) Clear(c fb.RGB565) {
	if !t.desc.Visible {
		return
	}
	t.base.Fill(t.desc.BaseRect, c)
}

// Update refreshes a surface-local region, clipped to the surface.
// Implements eink.Updater.
func (t *Transformed) Update(area geom.Rect, style eink.Style, depth eink.Depth) error {
	return t.base.Update(t.desc.TransformRect(area).Intersect(t.desc.BaseRect), style, depth)
}

// UpdateAll refreshes the whole surface.
func (t *Transformed) UpdateAll(style eink.Style, depth eink.Depth) error {
	return t.base.Update(t.desc.BaseRect, style, depth)
}

// ColorModel implements image.Image.
func (t *Transformed) ColorModel() color.Model {
	return t.base.ColorModel()
}

// Bounds implements image.Image.
func (t *Transformed) Bounds() image.Rectangle {
	size := t.desc.Size()
	return image.Rect(0, 0, int(size.X), int(size.Y))
}

// At implements image.Image.
func (t *Transformed) At(x, y int) color.Color {
	q := t.desc.TransformPoint(geom.Pt(int32(x), int32(y)))
	return t.base.At(int(q.X), int(q.Y))
}

// Set implements draw.Image.
func (t *Transformed) Set(x, y int, c color.Color) {
	t.SetPixel(geom.Pt(int32(x), int32(y)), fb.RGB565Model.Convert(c).(fb.RGB565))
}
