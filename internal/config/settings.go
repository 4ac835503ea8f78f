package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type PanelCfg struct {
	Bus    string `yaml:"bus"`  // i2c bus name, "" for the first one
	Addr   uint16 `yaml:"addr"` // e.g. 0x3C
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RingCfg describes a 12-pixel addressable LED ring, one pixel per anchor.
type RingCfg struct {
	Port       string `yaml:"port"` // spi port name, "" for the first one
	Brightness uint8  `yaml:"brightness"`
	FreqKHz    int    `yaml:"freq_khz"`
}

// Settings configures the host binary. Zero values mean "use the default".
type Settings struct {
	Mode         string `yaml:"mode"`   // "immediate" | "animated"
	Driver       string `yaml:"driver"` // comma separated: "panel", "ring", "term", "sim"
	StatePath    string `yaml:"state_path"`
	FPS          int    `yaml:"fps"`
	TransitionMs int    `yaml:"transition_ms"`
	Addr         string `yaml:"addr"`
	Snapshot     string `yaml:"snapshot,omitempty"`

	Panel PanelCfg `yaml:"panel"`
	Ring  RingCfg  `yaml:"ring"`
}

func DefaultSettings() Settings {
	return Settings{
		Mode:         "animated",
		Driver:       "sim",
		StatePath:    "state.yaml",
		FPS:          30,
		TransitionMs: 250,
		Panel:        PanelCfg{Addr: 0x3C, Width: 128, Height: 64},
		Ring:         RingCfg{Brightness: 64, FreqKHz: 2500},
	}
}

// Transition is the hand animation length.
func (s Settings) Transition() time.Duration {
	return time.Duration(s.TransitionMs) * time.Millisecond
}

// Merge fills every zero field of s from d.
func (s Settings) Merge(d Settings) Settings {
	if s.Mode == "" {
		s.Mode = d.Mode
	}
	if s.Driver == "" {
		s.Driver = d.Driver
	}
	if s.StatePath == "" {
		s.StatePath = d.StatePath
	}
	if s.FPS <= 0 {
		s.FPS = d.FPS
	}
	if s.TransitionMs <= 0 {
		s.TransitionMs = d.TransitionMs
	}
	if s.Addr == "" {
		s.Addr = d.Addr
	}
	if s.Snapshot == "" {
		s.Snapshot = d.Snapshot
	}
	if s.Panel.Bus == "" {
		s.Panel.Bus = d.Panel.Bus
	}
	if s.Panel.Addr == 0 {
		s.Panel.Addr = d.Panel.Addr
	}
	if s.Panel.Width <= 0 {
		s.Panel.Width = d.Panel.Width
	}
	if s.Panel.Height <= 0 {
		s.Panel.Height = d.Panel.Height
	}
	if s.Ring.Port == "" {
		s.Ring.Port = d.Ring.Port
	}
	if s.Ring.Brightness == 0 {
		s.Ring.Brightness = d.Ring.Brightness
	}
	if s.Ring.FreqKHz <= 0 {
		s.Ring.FreqKHz = d.Ring.FreqKHz
	}
	return s
}

// LoadSettings reads path. A missing file yields zero Settings and no error.
func LoadSettings(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &s, nil
}

func SaveSettings(path string, s *Settings) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
