// SPDX-License-Identifier: Unlicense OR MIT

// Command inkevents is a debugging client: it opens a normal surface
// and logs every event the window manager routes to it.
package main

import (
	"os"

	"github.com/rs/zerolog"

	"inkwm.org/client"
	"inkwm.org/eink"
	"inkwm.org/fb"
	"inkwm.org/geom"
	"inkwm.org/protocol"
)

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

	if err := c.CreateSurface(protocol.SurfaceInit{Kind: protocol.InitNormal}); err != nil {
		return err
	}

	for {
		ev, err := c.Next()
		if err != nil {
			return err
		}
		switch {
		case ev.Description != nil:
			d := *ev.Description
			log.Info().
				Int32("x", d.BaseRect.Origin.X).Int32("y", d.BaseRect.Origin.Y).
				Int32("w", d.BaseRect.Size.X).Int32("h", d.BaseRect.Size.Y).
				Stringer("rotation", d.Rotation).
				Bool("visible", d.Visible).
				Msg("description")
			dst := d.Transform(buf)
			dst.Clear(fb.White)
			if err := eink.UpdatePartial(dst, geom.Rect{Size: dst.Size()}, eink.StyleMonochrome); err != nil {
				return err
			}
		case ev.Input != nil:
			logInput(log, *ev.Input)
		case ev.Quit:
			log.Info().Msg("quit")
			return nil
		}
	}
}

func logInput(log zerolog.Logger, in protocol.InputEvent) {
	switch {
	case in.Key != nil:
		log.Info().
			Stringer("kind", in.Key.Kind).
			Uint8("scancode", uint8(in.Key.Scancode)).
			Uint8("key", uint8(in.Key.Key)).
			Stringer("modifiers", in.Key.Modifiers).
			Msg("key")
	case in.Text != nil:
		log.Info().Str("text", in.Text.Text).Msg("text")
	case in.Button != nil:
		log.Info().Bool("pressed", in.Button.Pressed).Msg("button")
	case in.Touch != nil:
		ev := log.Info().Uint8("id", uint8(in.Touch.ID)).Stringer("phase", in.Touch.Phase)
		if in.Touch.State != nil {
			p := in.Touch.State.Position(fb.Height)
			ev = ev.Int32("x", p.X).Int32("y", p.Y)
		}
		ev.Msg("touch")
	case in.Stylus != nil:
		ev := log.Info().Stringer("phase", in.Stylus.Phase)
		if in.Stylus.State != nil {
			p := in.Stylus.State.Position(fb.Size)
			ev = ev.Int32("x", p.X).Int32("y", p.Y).Uint16("pressure", in.Stylus.State.Pressure)
		}
		ev.Msg("stylus")
	}
}
