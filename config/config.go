// Package config holds the settings for generating corridors: the random
// route, curve sampling, the corridor profile and the pacing of the narrated
// demo. Settings are read from YAML files, overlaying the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tubular"
	"github.com/npillmayer/tubular/corridor"
	"github.com/npillmayer/tubular/curve"
	"github.com/npillmayer/tubular/stl"
	"gopkg.in/yaml.v3"
)

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config contains all settings.
type Config struct {
	// Route contains settings for the random dot route.
	Route RouteConfig `yaml:"route"`

	// Curve contains curve sampling settings.
	Curve CurveConfig `yaml:"curve"`

	// Corridor contains the profile and colours of the corridor.
	Corridor CorridorConfig `yaml:"corridor"`

	// Demo contains settings for the narrated demo.
	Demo DemoConfig `yaml:"demo"`

	// TraceLevel is one of "error", "info", "debug".
	TraceLevel string `yaml:"trace_level"`
}

// RouteConfig contains settings for the random dot route.
type RouteConfig struct {
	Dots     int    `yaml:"dots"`
	WorkArea Extent `yaml:"work_area"`
	Seed     uint64 `yaml:"seed"`
}

// Extent is the size of a box, per axis.
type Extent struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec returns an extent as a vector.
func (e Extent) Vec() tubular.Vec {
	return tubular.V(e.X, e.Y, e.Z)
}

// CurveConfig contains curve sampling settings.
type CurveConfig struct {
	Type    string  `yaml:"type"`    // centripetal, chordal or uniform
	Tension float64 `yaml:"tension"` // for uniform curves
	Samples int     `yaml:"samples"` // number of segments; samples+1 points
	Spaced  bool    `yaml:"spaced"`  // sample evenly by arc length
}

// CorridorConfig contains the profile and colours of the corridor.
type CorridorConfig struct {
	Profile corridor.Profile `yaml:"profile"`
	Palette []string         `yaml:"palette"` // 4 colours, "#rrggbb"
}

// DemoConfig contains settings for the narrated demo.
type DemoConfig struct {
	Speed float64 `yaml:"speed"` // pacing factor, 2 is twice as fast
}

// Default returns the default configuration.
func Default() *Config {
	pal := corridor.DefaultPalette()
	colours := make([]string, len(pal))
	for i, c := range pal {
		colours[i] = c.String()
	}
	return &Config{
		Route: RouteConfig{
			Dots:     10,
			WorkArea: Extent{X: 200, Y: 200, Z: 200},
		},
		Curve: CurveConfig{
			Type:    curve.Centripetal.String(),
			Tension: curve.DefaultTension,
			Samples: 300,
		},
		Corridor: CorridorConfig{
			Profile: corridor.DefaultProfile(),
			Palette: colours,
		},
		Demo:       DemoConfig{Speed: 1},
		TraceLevel: "error",
	}
}

// Load reads a YAML configuration file. Settings missing from the file keep
// their default values. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}
	return Parse(data)
}

// Parse reads a YAML configuration from data, overlaying the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse the config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal returns the YAML representation of a configuration.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks all settings for sensible values.
func (c *Config) Validate() error {
	if c.Route.Dots < 3 {
		return fmt.Errorf("%w: route needs at least 3 dots, got %d", ErrInvalid, c.Route.Dots)
	}
	if w := c.Route.WorkArea; !(w.X > 0 && w.Y > 0 && w.Z > 0) {
		return fmt.Errorf("%w: work area %v", ErrInvalid, w.Vec())
	}
	if _, err := curve.ParseKind(c.Curve.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Curve.Samples < 2 {
		return fmt.Errorf("%w: need at least 2 curve samples, got %d", ErrInvalid, c.Curve.Samples)
	}
	if err := c.Corridor.Profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	if !(c.Demo.Speed > 0) {
		return fmt.Errorf("%w: demo speed must be positive, got %g", ErrInvalid, c.Demo.Speed)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// CurveKind returns the configured curve parametrization.
func (c *Config) CurveKind() curve.Kind {
	k, _ := curve.ParseKind(c.Curve.Type)
	return k
}

// Palette returns the configured corridor colours.
func (c *Config) Palette() (corridor.Palette, error) {
	var pal corridor.Palette
	if len(c.Corridor.Palette) != len(pal) {
		return pal, fmt.Errorf("%w: palette needs %d colours, got %d", ErrInvalid, len(pal), len(c.Corridor.Palette))
	}
	for i, s := range c.Corridor.Palette {
		rgb, err := ParseColour(s)
		if err != nil {
			return pal, err
		}
		pal[i] = rgb
	}
	return pal, nil
}

// ParseColour parses a colour in notation "#rrggbb".
func ParseColour(s string) (stl.RGB, error) {
	var rgb stl.RGB
	if len(s) != 7 || s[0] != '#' {
		return rgb, fmt.Errorf("%w: colour %q, expected #rrggbb", ErrInvalid, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return rgb, fmt.Errorf("%w: colour %q: %v", ErrInvalid, s, err)
	}
	rgb.R, rgb.G, rgb.B = uint8(v>>16), uint8(v>>8), uint8(v)
	return rgb, nil
}

// Level returns the configured trace level.
func (c *Config) Level() (tracing.TraceLevel, error) {
	switch strings.ToLower(c.TraceLevel) {
	case "error", "":
		return tracing.LevelError, nil
	case "info":
		return tracing.LevelInfo, nil
	case "debug":
		return tracing.LevelDebug, nil
	}
	return tracing.LevelError, fmt.Errorf("%w: trace level %q", ErrInvalid, c.TraceLevel)
}
