package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ModeSnow = "snow"
	ModeRain = "rain"
)

// Defaults for a gentle snowfall on an 80x24 terminal canvas
// (160x96 sub-pixels).
const (
	DefaultWidth           = 160.0
	DefaultHeight          = 96.0
	DefaultFPS             = 30
	DefaultIntensity       = 2
	DefaultTTLSeconds      = 10.0
	DefaultTerminalVelRate = 1.0
	DefaultOffscreenOffset = 8.0
	DefaultSpawnBand       = 24.0
	DefaultSizeMin         = 0.8
	DefaultSizeMax         = 2.2
	DefaultGravity         = 0.05
	DefaultDrag            = 0.08
)

var ErrInvalid = errors.New("config: invalid value")

// Config is one simulation's merged settings. Once handed to a population it
// is treated as immutable for that instance's lifetime.
type Config struct {
	Mode                 string  `yaml:"mode"`
	Width                float64 `yaml:"width"`
	Height               float64 `yaml:"height"`
	FPS                  int     `yaml:"fps"`
	Intensity            int     `yaml:"intensity"`
	TTLSeconds           float64 `yaml:"ttl_seconds"`
	TerminalVelocityRate float64 `yaml:"terminal_velocity_rate"`
	OffscreenOffset      float64 `yaml:"offscreen_offset"`
	SpawnBand            float64 `yaml:"spawn_band"`
	SizeMin              float64 `yaml:"size_min"`
	SizeMax              float64 `yaml:"size_max"`
	TranslucencyMin      float64 `yaml:"translucency_min"`
	Seed                 int64   `yaml:"seed"`
	Forces               Forces  `yaml:"forces"`
}

// Forces holds the per-force tunables registered at setup.
type Forces struct {
	Gravity float64 `yaml:"gravity"`
	Drag    float64 `yaml:"drag"`
	Wind    WindVec `yaml:"wind"`
}

type WindVec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:                 ModeSnow,
		Width:                DefaultWidth,
		Height:               DefaultHeight,
		FPS:                  DefaultFPS,
		Intensity:            DefaultIntensity,
		TTLSeconds:           DefaultTTLSeconds,
		TerminalVelocityRate: DefaultTerminalVelRate,
		OffscreenOffset:      DefaultOffscreenOffset,
		SpawnBand:            DefaultSpawnBand,
		SizeMin:              DefaultSizeMin,
		SizeMax:              DefaultSizeMax,
		TranslucencyMin:      0.3,
		Forces: Forces{
			Gravity: DefaultGravity,
			Drag:    DefaultDrag,
			Wind:    WindVec{X: 0.02},
		},
	}
}

// Load reads a yaml file, merging user-supplied overrides over the
// documented defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the simulation cannot run with. Note that TTL
// also bounds the live population at roughly intensity*fps*ttl particles,
// since resting particles are only ever removed by TTL; sizing that bound
// is the operator's call, only positivity is enforced here.
func (c *Config) Validate() error {
	if c.Mode != ModeSnow && c.Mode != ModeRain {
		return fmt.Errorf("%w: mode %q", ErrInvalid, c.Mode)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: surface %gx%g", ErrInvalid, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	}
	if c.Intensity < 0 {
		return fmt.Errorf("%w: intensity %d", ErrInvalid, c.Intensity)
	}
	if c.TTLSeconds <= 0 {
		return fmt.Errorf("%w: ttl %gs", ErrInvalid, c.TTLSeconds)
	}
	if c.TerminalVelocityRate <= 0 {
		return fmt.Errorf("%w: terminal velocity rate %g", ErrInvalid, c.TerminalVelocityRate)
	}
	if c.OffscreenOffset < 0 {
		return fmt.Errorf("%w: offscreen offset %g", ErrInvalid, c.OffscreenOffset)
	}
	if c.SizeMin <= 0 || c.SizeMax < c.SizeMin {
		return fmt.Errorf("%w: size range [%g, %g]", ErrInvalid, c.SizeMin, c.SizeMax)
	}
	if c.TranslucencyMin < 0 || c.TranslucencyMin > 1 {
		return fmt.Errorf("%w: translucency %g", ErrInvalid, c.TranslucencyMin)
	}
	return nil
}

func (c *Config) TTL() time.Duration {
	return time.Duration(c.TTLSeconds * float64(time.Second))
}

func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
