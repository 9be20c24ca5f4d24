package jmhbench

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle  = "Throughput Benchmark (on b_verify with 10k records)"
	DefaultXLabel = "Performance (ms/op)"
	DefaultAddr   = "localhost:18081"
)

// Config controls how a report is turned into a chart and where it goes.
type Config struct {
	Title             string          `yaml:"title"`
	XLabel            string          `yaml:"x_label"`
	LabelPrefixLength int             `yaml:"label_prefix_length"`
	ShortNamePolicy   ShortNamePolicy `yaml:"short_name_policy"`
	BarColor          string          `yaml:"bar_color"`
	ErrorColor        string          `yaml:"error_color"`
	Opacity           float64         `yaml:"opacity"`
	// Width and Height are in inches. A zero Height grows with the number of bars.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Output is the file the chart is written to. Empty means serve it on Addr.
	Output string `yaml:"output"`
	Addr   string `yaml:"addr"`
	// OpenBrowser opens the served page in the default browser.
	OpenBrowser bool `yaml:"open_browser"`
}

func DefaultConfig() Config {
	return Config{
		Title:             DefaultTitle,
		XLabel:            DefaultXLabel,
		LabelPrefixLength: DefaultLabelPrefixLength,
		ShortNamePolicy:   ShortNameEmpty,
		BarColor:          "blue",
		ErrorColor:        "red",
		Opacity:           0.4,
		Width:             10,
		Addr:              DefaultAddr,
		OpenBrowser:       true,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys that are not Config fields
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.LabelPrefixLength < 0 {
		return fmt.Errorf("label_prefix_length must not be negative, got %d", c.LabelPrefixLength)
	}
	if err := c.ShortNamePolicy.valid(); err != nil {
		return err
	}
	if c.Opacity <= 0 || c.Opacity > 1 {
		return fmt.Errorf("opacity must be in (0, 1], got %v", c.Opacity)
	}
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %v", c.Width)
	}
	if c.Height < 0 {
		return fmt.Errorf("height must not be negative, got %v", c.Height)
	}
	if _, err := ParseColor(c.BarColor); err != nil {
		return err
	}
	if _, err := ParseColor(c.ErrorColor); err != nil {
		return err
	}
	return nil
}

func (c Config) Labeler() Labeler {
	return Labeler{PrefixLength: c.LabelPrefixLength, Policy: c.ShortNamePolicy}
}

var namedColors = map[string]color.RGBA{
	"black":  {0, 0, 0, 255},
	"blue":   {0, 0, 255, 255},
	"gray":   {128, 128, 128, 255},
	"green":  {0, 128, 0, 255},
	"orange": {255, 165, 0, 255},
	"purple": {128, 0, 128, 255},
	"red":    {255, 0, 0, 255},
}

// ParseColor accepts a color name or a #rrggbb hex triplet.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// hexColor formats c the way echarts expects it.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
