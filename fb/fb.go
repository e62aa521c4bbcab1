// SPDX-License-Identifier: Unlicense OR MIT

/*
Package fb provides access to the reMarkable 2 framebuffer: a
memory-mapped array of 16-bit RGB565 pixels shared with the rm2fb
display server, and the IPC channel used to request E-Ink refreshes.

The Framebuffer implements draw.Image, so the standard image/draw
machinery and golang.org/x/image renderers draw into it directly.
*/
package fb

import (
	"image"
	"image/color"

	"github.com/rs/zerolog"

	"inkwm.org/eink"
	"inkwm.org/geom"
)

// Display dimensions in pixels.
const (
	Width  int32 = 1404
	Height int32 = 1872
)

// Size is the display size as a vector.
var Size = geom.Sz(Width, Height)

// Rect is the display bounds with origin (0, 0).
var Rect = geom.Rect{Size: Size}

// Framebuffer is an open handle to the shared pixel array and the
// refresh channel. Each process typically opens its own.
type Framebuffer struct {
	mapping *mapping
	channel *channel
}

// Open maps the shared pixel file and attaches to the refresh queue.
func Open(log zerolog.Logger) (*Framebuffer, error) {
	log.Debug().Msg("open framebuffer")
	m, err := openMapping()
	if err != nil {
		return nil, err
	}
	c, err := openChannel(log)
	if err != nil {
		m.close()
		return nil, err
	}
	return &Framebuffer{mapping: m, channel: c}, nil
}

// Close unmaps the pixel array. The refresh queue handle needs no
// cleanup; it is owned by the display driver.
func (fb *Framebuffer) Close() error {
	return fb.mapping.close()
}

// Pix returns the raw RGB565 pixel array in row-major order. The
// array is shared with other processes.
func (fb *Framebuffer) Pix() []uint16 {
	return fb.mapping.pix
}

// SetPixel writes one pixel. Out-of-bounds points are ignored.
func (fb *Framebuffer) SetPixel(p geom.Point, c RGB565) {
	if !p.In(Rect) {
		return
	}
	fb.mapping.pix[index(p.X, p.Y)] = uint16(c)
}

// Fill sets every pixel inside area to c, clipped to the display.
func (fb *Framebuffer) Fill(area geom.Rect, c RGB565) {
	area = area.Normalize().Intersect(Rect)
	if area.Empty() {
		return
	}
	pix := fb.mapping.pix
	for y := area.Origin.Y; y < area.Origin.Y+area.Size.Y; y++ {
		row := pix[index(area.Origin.X, y):index(area.Origin.X+area.Size.X, y)]
		for i := range row {
			row[i] = uint16(c)
		}
	}
}

// Clear sets every pixel to c.
func (fb *Framebuffer) Clear(c RGB565) {
	pix := fb.mapping.pix
	for i := range pix {
		pix[i] = uint16(c)
	}
}

// Update asks the driver to refresh area. Implements eink.Updater.
func (fb *Framebuffer) Update(area geom.Rect, style eink.Style, depth eink.Depth) error {
	return fb.channel.update(area, style, depth)
}

// UpdateAll refreshes the whole display with eink.DepthFull.
func (fb *Framebuffer) UpdateAll(style eink.Style) error {
	return fb.channel.update(Rect, style, eink.DepthFull)
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model {
	return RGB565Model
}

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(Width), int(Height))
}

// At implements image.Image.
func (fb *Framebuffer) At(x, y int) color.Color {
	if !geom.Pt(int32(x), int32(y)).In(Rect) {
		return RGB565(0)
	}
	return RGB565(fb.mapping.pix[index(int32(x), int32(y))])
}

// Set implements draw.Image.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(geom.Pt(int32(x), int32(y)), toRGB565(c))
}
