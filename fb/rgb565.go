// SPDX-License-Identifier: Unlicense OR MIT

package fb

import "image/color"

// RGB565 is a 16-bit pixel with 5 bits of red, 6 of green and 5 of
// blue, the native format of the shared framebuffer.
type RGB565 uint16

// Common colors.
const (
	Black RGB565 = 0x0000
	White RGB565 = 0xffff
)

// New565 packs 5/6/5-bit channel values into a pixel.
func New565(r, g, b uint8) RGB565 {
	return RGB565(uint16(r&0x1f)<<11 | uint16(g&0x3f)<<5 | uint16(b&0x1f))
}

// RGBA implements color.Color.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	// Replicate the high bits into the low bits so that full channels
	// map to full 16-bit values.
	r = uint32(c>>11) & 0x1f
	r = r<<11 | r<<6 | r<<1 | r>>4
	g = uint32(c>>5) & 0x3f
	g = g<<10 | g<<4 | g>>2
	b = uint32(c) & 0x1f
	b = b<<11 | b<<6 | b<<1 | b>>4
	return r, g, b, 0xffff
}

// RGB565Model converts any color to RGB565.
var RGB565Model color.Model = color.ModelFunc(func(c color.Color) color.Color {
	return toRGB565(c)
})

func toRGB565(c color.Color) RGB565 {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB565(uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(b>>11))
}
