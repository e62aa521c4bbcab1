// SPDX-License-Identifier: Unlicense OR MIT

// Command inkbar is a status bar client: a top layer showing the
// clock and the live modifier state.
package main

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"inkwm.org/client"
	"inkwm.org/eink"
	"inkwm.org/fb"
	"inkwm.org/geom"
	"inkwm.org/io/key"
	"inkwm.org/protocol"
	"inkwm.org/surface"
)

const barHeight = 48

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(log); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	c, err := client.Dial(log)
	if err != nil {
		return err
	}
	defer c.Close()

	buf, err := fb.Open(log)
	if err != nil {
		return err
	}
	defer buf.Close()

	if err := c.CreateSurface(protocol.SurfaceInit{
		Kind:   protocol.InitLayer,
		Anchor: geom.Top,
		Size:   barHeight,
	}); err != nil {
		return err
	}

	events := c.Events()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var desc *surface.Description
	var mods key.Modifiers
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch {
			case ev.Description != nil:
				desc = ev.Description
			case ev.Quit:
				return nil
			case ev.Input != nil && ev.Input.Key != nil:
				mods = ev.Input.Key.Modifiers
			default:
				continue
			}
		case <-ticker.C:
		}
		if desc == nil {
			continue
		}
		if err := draw(buf, *desc, mods); err != nil {
			return err
		}
	}
}

func upperIf(c byte, cond bool) byte {
	if cond {
		return c - 'a' + 'A'
	}
	return c
}

func draw(buf *fb.Framebuffer, desc surface.Description, mods key.Modifiers) error {
	dst := desc.Transform(buf)
	dst.Clear(fb.Black)

	now := time.Now()
	text := fmt.Sprintf("%s | %c%c%c%c%c%c%c",
		now.Format("2006-01-02 15:04"),
		upperIf('c', mods.Contain(key.ModCtrl)),
		upperIf('a', mods.Contain(key.ModAlt)),
		upperIf('o', mods.Contain(key.ModOpt)),
		upperIf('o', mods.Contain(key.ModAltOpt)),
		upperIf('s', mods.Contain(key.ModLeftShift)),
		upperIf('s', mods.Contain(key.ModRightShift)),
		upperIf('c', mods.Contain(key.ModCapsLock)),
	)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fb.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, (barHeight+basicfont.Face7x13.Ascent)/2),
	}
	d.DrawString(text)

	size := dst.Size()
	return eink.UpdatePartial(dst, geom.Rect{Size: size}, eink.StyleMonochrome)
}
