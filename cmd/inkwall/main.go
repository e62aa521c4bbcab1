// SPDX-License-Identifier: Unlicense OR MIT

// Command inkwall is the wallpaper client: it fills its assigned
// region with white whenever it becomes visible.
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

	if err := c.CreateSurface(protocol.SurfaceInit{Kind: protocol.InitWallpaper}); err != nil {
		return err
	}

	for {
		ev, err := c.Next()
		if err != nil {
			return err
		}
		switch {
		case ev.Description != nil:
			dst := ev.Description.Transform(buf)
			dst.Clear(fb.White)
			size := dst.Size()
			if err := eink.UpdateFull(dst, geom.Rect{Size: size}, eink.StyleInit); err != nil {
				return err
			}
		case ev.Quit:
			return nil
		}
	}
}
