package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"gopkg.in/yaml.v3"
)

// Config is the optional harscope.yaml. Flags override anything set here.
type Config struct {
	Layout  LayoutConfig      `yaml:"layout"`
	Tooltip TooltipConfig     `yaml:"tooltip"`
	Server  ServerConfig      `yaml:"server"`
	Palette map[string]string `yaml:"palette,omitempty"`
	Workers int               `yaml:"workers,omitempty"`
}

type LayoutConfig struct {
	URLAreaWidth        float64 `yaml:"url_area_width"`
	RightLabelAreaWidth float64 `yaml:"right_label_area_width"`
	Width               float64 `yaml:"width"`
	RowHeight           float64 `yaml:"row_height"`
}

type TooltipConfig struct {
	Delay time.Duration `yaml:"delay"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Default returns the classic report geometry.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			URLAreaWidth:        300,
			RightLabelAreaWidth: 50,
			Width:               1200,
			RowHeight:           27,
		},
		Tooltip: TooltipConfig{Delay: 300 * time.Millisecond},
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Palette: map[string]string{},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail deep inside a layout.
func (c *Config) Validate() error {
	l := c.Layout
	if l.URLAreaWidth < 0 {
		return fmt.Errorf("layout.url_area_width cannot be negative: %g", l.URLAreaWidth)
	}
	if l.RightLabelAreaWidth < 0 {
		return fmt.Errorf("layout.right_label_area_width cannot be negative: %g", l.RightLabelAreaWidth)
	}
	if l.Width-l.URLAreaWidth-l.RightLabelAreaWidth <= 0 {
		return fmt.Errorf("layout.width %g leaves no room for bars", l.Width)
	}
	if l.RowHeight <= 0 {
		return fmt.Errorf("layout.row_height must be positive: %g", l.RowHeight)
	}
	if c.Tooltip.Delay < 0 {
		return fmt.Errorf("tooltip.delay cannot be negative: %s", c.Tooltip.Delay)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", c.Workers)
	}

	for key, color := range c.Palette {
		if !validColorKey(key) {
			return fmt.Errorf("palette: unknown color key '%s'", key)
		}
		if !hexColor.MatchString(color) {
			return fmt.Errorf("palette.%s: '%s' is not a hex color", key, color)
		}
	}
	return nil
}

// Budget is the layout budget for a capture with the given number of entries.
func (c *Config) Budget(entries int) motor.Budget {
	return motor.Budget{
		URLAreaWidth:        c.Layout.URLAreaWidth,
		RightLabelAreaWidth: c.Layout.RightLabelAreaWidth,
		TotalWidth:          c.Layout.Width,
		TotalHeight:         c.Layout.RowHeight * float64(entries),
	}
}

// CaptureBudget adapts Budget for batch layouts.
func (c *Config) CaptureBudget(capture *model.Capture) motor.Budget {
	return c.Budget(len(capture.Log.Entries))
}

func validColorKey(key string) bool {
	if _, ok := model.ParsePhase(key); ok {
		return true
	}
	switch key {
	case "bar", motor.MarkerContentLoad, motor.MarkerLoad:
		return true
	}
	return false
}
