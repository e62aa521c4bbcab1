// SPDX-License-Identifier: Unlicense OR MIT

// Command inkwm is the window manager server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"inkwm.org/config"
	"inkwm.org/fb"
	"inkwm.org/wm"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "configuration file")
	socketPath := flag.String("control-socket", "", "control socket path (overrides the config file)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(log, *configPath, *socketPath); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, configPath, socketPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if socketPath != "" {
		cfg.ControlSocket = socketPath
	}
	rotation, err := cfg.GlobalRotation()
	if err != nil {
		return err
	}

	srv, err := wm.Listen(wm.Options{
		Screen:       fb.Rect,
		Rotation:     rotation,
		Inset:        cfg.Inset,
		SpawnCommand: cfg.SpawnCommand,
		Log:          log,
	}, cfg.ControlSocket)
	if err != nil {
		return err
	}

	// Clients inherit the socket path through the environment.
	os.Setenv(wm.SocketEnv, cfg.ControlSocket)
	fmt.Printf("%s=%s\n", wm.SocketEnv, cfg.ControlSocket)
	log.Info().Str("socket", cfg.ControlSocket).Msg("listening")

	return srv.Run()
}
