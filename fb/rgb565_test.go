// SPDX-License-Identifier: Unlicense OR MIT

package fb

import (
	"image/color"
	"testing"
)

func TestRGB565RGBA(t *testing.T) {
	tests := []struct {
		c       RGB565
		r, g, b uint32
	}{
		{Black, 0, 0, 0},
		{White, 0xffff, 0xffff, 0xffff},
		{New565(31, 0, 0), 0xffff, 0, 0},
		{New565(0, 63, 0), 0, 0xffff, 0},
		{New565(0, 0, 31), 0, 0, 0xffff},
	}
	for _, test := range tests {
		r, g, b, a := test.c.RGBA()
		if r != test.r || g != test.g || b != test.b || a != 0xffff {
			t.Errorf("%#04x.RGBA() = %v %v %v %v, want %v %v %v 0xffff",
				uint16(test.c), r, g, b, a, test.r, test.g, test.b)
		}
	}
}

func TestRGB565ModelRoundTrip(t *testing.T) {
	for _, c := range []RGB565{Black, White, New565(12, 34, 5), New565(31, 0, 31)} {
		if got := RGB565Model.Convert(c); got != c {
			t.Errorf("Convert(%#04x) = %v", uint16(c), got)
		}
	}
	if got := toRGB565(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}); got != White {
		t.Errorf("toRGB565(white) = %#04x", uint16(got))
	}
	if got := toRGB565(color.RGBA{A: 0xff}); got != Black {
		t.Errorf("toRGB565(black) = %#04x", uint16(got))
	}
}
