// Package settings persists UI preferences between runs: window geometry,
// the mirror axis, and the mirror tolerance. Values live in a YAML file under
// the user config dir.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	keyWindowWidth     = "window.width"
	keyWindowHeight    = "window.height"
	keyMirrorAxis      = "mirror.axis"
	keyMirrorTolerance = "mirror.tolerance"
)

// Settings is a persisted preference store.
type Settings struct {
	v    *viper.Viper
	path string
}

// Open loads the settings file at path, creating defaults when it does not
// exist yet. An empty path resolves to the user config dir.
func Open(path string) (*Settings, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "vertex-blender", "settings.yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(keyWindowWidth, 0)
	v.SetDefault(keyWindowHeight, 0)
	v.SetDefault(keyMirrorAxis, "x")
	v.SetDefault(keyMirrorTolerance, 0.001)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}
	return &Settings{v: v, path: path}, nil
}

// WindowSize returns the persisted window geometry; zeroes mean unset.
func (s *Settings) WindowSize() (width, height int) {
	return s.v.GetInt(keyWindowWidth), s.v.GetInt(keyWindowHeight)
}

// SetWindowSize records the window geometry.
func (s *Settings) SetWindowSize(width, height int) {
	s.v.Set(keyWindowWidth, width)
	s.v.Set(keyWindowHeight, height)
}

// MirrorAxis returns the persisted mirror axis ("x", "y", or "z").
func (s *Settings) MirrorAxis() string {
	return s.v.GetString(keyMirrorAxis)
}

// SetMirrorAxis records the mirror axis.
func (s *Settings) SetMirrorAxis(axis string) {
	s.v.Set(keyMirrorAxis, axis)
}

// MirrorTolerance returns the persisted mirror match tolerance.
func (s *Settings) MirrorTolerance() float64 {
	return s.v.GetFloat64(keyMirrorTolerance)
}

// SetMirrorTolerance records the mirror match tolerance.
func (s *Settings) SetMirrorTolerance(tolerance float64) {
	s.v.Set(keyMirrorTolerance, tolerance)
}

// Save writes the store back to disk, creating parent directories as needed.
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
