package sim

import (
	"math/rand"
	"time"

	"github.com/hawkgs/snow/internal/config"
	"github.com/hawkgs/snow/internal/physics"
	"github.com/hawkgs/snow/internal/vec"
)

// BuildRegistry constructs the force set from configuration. Gravity is
// always present; drag and wind are registered only when their tunables are
// nonzero.
func BuildRegistry(f config.Forces) (*physics.Registry, error) {
	forces := []physics.Force{physics.Gravity(f.Gravity)}
	if f.Drag != 0 {
		forces = append(forces, physics.Drag(f.Drag))
	}
	if f.Wind.X != 0 || f.Wind.Y != 0 {
		forces = append(forces, physics.Wind(vec.New(f.Wind.X, f.Wind.Y)))
	}
	return physics.NewRegistry(forces...)
}

func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Width:                cfg.Width,
		Height:               cfg.Height,
		Intensity:            cfg.Intensity,
		TerminalVelocityRate: cfg.TerminalVelocityRate,
		TTL:                  cfg.TTL(),
		OffscreenOffset:      cfg.OffscreenOffset,
		SpawnBand:            cfg.SpawnBand,
		SizeMin:              cfg.SizeMin,
		SizeMax:              cfg.SizeMax,
		TranslucencyMin:      cfg.TranslucencyMin,
	}
}

// FromConfig wires a ready population from merged configuration: validated
// params, the force registry, and the seeded randomness source. Seed 0 means
// non-deterministic.
func FromConfig(cfg *config.Config) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	registry, err := BuildRegistry(cfg.Forces)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(ParamsFromConfig(cfg), registry, rand.New(rand.NewSource(seed))), nil
}
