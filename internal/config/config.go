// Package config provides YAML-based application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wifi-ar/internal/compositor"
	"wifi-ar/internal/markers"
	"wifi-ar/internal/mask"
	"wifi-ar/internal/overlay"
	"wifi-ar/internal/signal"

	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Config is the root configuration. Fields omitted from the file keep their
// defaults, so partial configs are safe.
type Config struct {
	Camera  CameraConfig  `yaml:"camera"`
	Markers MarkersConfig `yaml:"markers"`
	Overlay OverlayConfig `yaml:"overlay"`
	Mask    MaskConfig    `yaml:"mask"`
	Signal  SignalConfig  `yaml:"signal"`
	Display DisplayConfig `yaml:"display"`
}

// CameraConfig selects the capture device.
type CameraConfig struct {
	Device int `yaml:"device"`
	// MaxMisses is how many consecutive missing frames end the session.
	MaxMisses int `yaml:"max_misses"`
}

// MarkersConfig names the four target markers in TL, TR, BR, BL order.
type MarkersConfig struct {
	Required []markers.RequiredMarker `yaml:"required"`
}

// OverlayConfig sets the overlay canvas size.
type OverlayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MaskConfig sets the seam dilation.
type MaskConfig struct {
	DilateKernel     int `yaml:"dilate_kernel"`
	DilateIterations int `yaml:"dilate_iterations"`
}

// SignalConfig controls Wi-Fi scanning.
type SignalConfig struct {
	// Platform is auto, linux, darwin or windows.
	Platform string `yaml:"platform"`
	// ScanInterval is the background rescan period; 0 rescans every frame.
	ScanInterval time.Duration `yaml:"scan_interval"`
	Timeout      time.Duration `yaml:"timeout"`
}

// DisplayConfig controls the output windows.
type DisplayConfig struct {
	ShowInput  bool   `yaml:"show_input"`
	ShowSource bool   `yaml:"show_source"`
	QuitKey    string `yaml:"quit_key"`
}

// Default returns the configuration for the reference rig.
func Default() *Config {
	req := markers.DefaultRequiredSet()
	return &Config{
		Camera: CameraConfig{Device: 0, MaxMisses: 30},
		Markers: MarkersConfig{Required: req[:]},
		Overlay: OverlayConfig{Width: overlay.DefaultWidth, Height: overlay.DefaultHeight},
		Mask:    MaskConfig{DilateKernel: mask.DefaultKernel, DilateIterations: mask.DefaultIterations},
		Signal:  SignalConfig{Platform: "auto", ScanInterval: 0, Timeout: 10 * time.Second},
		Display: DisplayConfig{ShowInput: true, ShowSource: true, QuitKey: "q"},
	}
}

// DefaultPath returns ~/.config/wifi-ar/config.yaml (or the platform equivalent).
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "wifi-ar", configFile)
}

// Load reads the config at path over the defaults. A missing file at the
// default path is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges, naming the offending key.
func (c *Config) Validate() error {
	if c.Camera.Device < 0 {
		return fmt.Errorf("camera.device must be >= 0, got %d", c.Camera.Device)
	}
	if c.Camera.MaxMisses < 1 {
		return fmt.Errorf("camera.max_misses must be >= 1, got %d", c.Camera.MaxMisses)
	}
	if _, err := c.RequiredSet(); err != nil {
		return err
	}
	if c.Overlay.Width < 1 || c.Overlay.Height < 1 {
		return fmt.Errorf("overlay size must be positive, got %dx%d", c.Overlay.Width, c.Overlay.Height)
	}
	if c.Mask.DilateKernel < 0 || c.Mask.DilateIterations < 0 {
		return fmt.Errorf("mask.dilate_kernel and mask.dilate_iterations must be >= 0")
	}
	if p := c.Signal.Platform; p != "" && !strings.EqualFold(p, "auto") {
		if _, err := signal.ParsePlatform(p); err != nil {
			return fmt.Errorf("signal.platform %q: %w", p, err)
		}
	}
	if c.Signal.ScanInterval < 0 || c.Signal.Timeout < 0 {
		return fmt.Errorf("signal.scan_interval and signal.timeout must be >= 0")
	}
	if len(c.Display.QuitKey) != 1 {
		return fmt.Errorf("display.quit_key must be a single character, got %q", c.Display.QuitKey)
	}
	return nil
}

// RequiredSet converts markers.required into a validated RequiredSet.
func (c *Config) RequiredSet() (markers.RequiredSet, error) {
	var set markers.RequiredSet
	if len(c.Markers.Required) != len(set) {
		return set, fmt.Errorf("markers.required must list exactly %d markers, got %d", len(set), len(c.Markers.Required))
	}
	copy(set[:], c.Markers.Required)
	if err := set.Validate(); err != nil {
		return set, fmt.Errorf("markers.required: %w", err)
	}
	return set, nil
}

// CompositorOptions builds compositor options from the config.
func (c *Config) CompositorOptions() (compositor.Options, error) {
	set, err := c.RequiredSet()
	if err != nil {
		return compositor.Options{}, err
	}
	return compositor.Options{
		Required:         set,
		DilateKernel:     c.Mask.DilateKernel,
		DilateIterations: c.Mask.DilateIterations,
	}, nil
}
