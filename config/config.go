// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads the window manager's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"inkwm.org/geom"
)

// DefaultPath is consulted when no config flag is given.
const DefaultPath = "/etc/inkwm.yaml"

// Config are the server settings. Fields absent from the file keep
// the values of Default below; an empty ControlSocket also falls back
// to it.
type Config struct {
	// ControlSocket is where the manager binds its listening socket.
	ControlSocket string `yaml:"controlSocket"`
	// Rotation is the global rotation in clockwise degrees: one of
	// 0, 90, 180 or 270.
	Rotation int `yaml:"rotation"`
	// Inset is the border in pixels kept free around the screen.
	Inset int32 `yaml:"inset"`
	// SpawnCommand is launched by the spawn hotkey.
	SpawnCommand []string `yaml:"spawnCommand"`
}

// Default is the configuration used when no file exists.
var Default = Config{
	ControlSocket: "/tmp/inkwm.sock",
	Rotation:      90,
	Inset:         4,
}

// Load reads path, layering it over Default. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	c := Default
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if c.ControlSocket == "" {
		c.ControlSocket = Default.ControlSocket
	}
	if _, err := c.GlobalRotation(); err != nil {
		return c, err
	}
	return c, nil
}

// GlobalRotation converts the configured degrees to a rotation.
func (c Config) GlobalRotation() (geom.Rotation, error) {
	switch c.Rotation {
	case 0:
		return geom.RotateNone, nil
	case 90:
		return geom.Rotate90, nil
	case 180:
		return geom.Rotate180, nil
	case 270:
		return geom.Rotate270, nil
	default:
		return geom.RotateNone, fmt.Errorf("config: rotation %d is not a quarter turn", c.Rotation)
	}
}
