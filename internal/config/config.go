package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds plotboard configuration.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Framing  FramingConfig  `toml:"framing"`
	Sections SectionsConfig `toml:"sections"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// CanvasConfig controls camera limits and pointer thresholds.
type CanvasConfig struct {
	MinScale      float64 `toml:"min_scale"`
	MaxScale      float64 `toml:"max_scale"`
	ZoomStep      float64 `toml:"zoom_step"`
	WheelZoom     float64 `toml:"wheel_zoom"`
	DragThreshold float64 `toml:"drag_threshold"`
	MinDrawSize   float64 `toml:"min_draw_size"`
}

// FramingConfig controls auto-framing.
type FramingConfig struct {
	SinglePadding  float64 `toml:"single_padding"`
	GroupPadding   float64 `toml:"group_padding"`
	SingleScaleCap float64 `toml:"single_scale_cap"`
	Epsilon        float64 `toml:"epsilon"`
	ScaleEpsilon   float64 `toml:"scale_epsilon"`
}

type SectionsConfig struct {
	Padding float64 `toml:"padding"`
}

// UIConfig controls the terminal front end.
type UIConfig struct {
	SaveDirectory string `toml:"save_directory"`
	Confirmations bool   `toml:"confirmations"`
	FrameMillis   int    `toml:"frame_ms"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			MinScale:      0.1,
			MaxScale:      3.0,
			ZoomStep:      0.1,
			WheelZoom:     0.002,
			DragThreshold: 5,
			MinDrawSize:   50,
		},
		Framing: FramingConfig{
			SinglePadding:  40,
			GroupPadding:   80,
			SingleScaleCap: 0.6,
			Epsilon:        0.5,
			ScaleEpsilon:   0.001,
		},
		Sections: SectionsConfig{Padding: 120},
		UI:       UIConfig{Confirmations: true, FrameMillis: 16},
		Log:      LogConfig{Level: "info"},
	}
}

// Dir returns the plotboard config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "plotboard")
}

// Path is the default config file location.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// normalize repairs values a hand-edited file may have broken.
func (c *Config) normalize() {
	d := Default()
	if c.Canvas.MinScale <= 0 {
		c.Canvas.MinScale = d.Canvas.MinScale
	}
	if c.Canvas.MaxScale < c.Canvas.MinScale {
		c.Canvas.MaxScale = max(d.Canvas.MaxScale, c.Canvas.MinScale)
	}
	if c.Canvas.ZoomStep <= 0 {
		c.Canvas.ZoomStep = d.Canvas.ZoomStep
	}
	if c.Canvas.WheelZoom <= 0 {
		c.Canvas.WheelZoom = d.Canvas.WheelZoom
	}
	if c.Canvas.DragThreshold <= 0 {
		c.Canvas.DragThreshold = d.Canvas.DragThreshold
	}
	if c.Canvas.MinDrawSize <= 0 {
		c.Canvas.MinDrawSize = d.Canvas.MinDrawSize
	}
	if c.Framing.SingleScaleCap <= 0 {
		c.Framing.SingleScaleCap = d.Framing.SingleScaleCap
	}
	if c.Framing.Epsilon <= 0 {
		c.Framing.Epsilon = d.Framing.Epsilon
	}
	if c.Framing.ScaleEpsilon <= 0 {
		c.Framing.ScaleEpsilon = d.Framing.ScaleEpsilon
	}
	if c.UI.FrameMillis <= 0 {
		c.UI.FrameMillis = d.UI.FrameMillis
	}
	c.UI.SaveDirectory = expandPath(c.UI.SaveDirectory)
}

func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.UI.FrameMillis) * time.Millisecond
}

// GetSavePath places filename in the save directory when one is set,
// creating the directory.
func (c *Config) GetSavePath(filename string) (string, error) {
	if c.UI.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.UI.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("save directory: %w", err)
	}
	return filepath.Join(c.UI.SaveDirectory, filename), nil
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}
