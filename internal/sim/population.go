package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hawkgs/snow/internal/particle"
	"github.com/hawkgs/snow/internal/physics"
	"github.com/hawkgs/snow/internal/vec"
)

// Params is the merged, immutable configuration for one population instance.
type Params struct {
	Width, Height        float64
	Intensity            int
	TerminalVelocityRate float64
	TTL                  time.Duration
	OffscreenOffset      float64

	// SpawnBand is the vertical band above the surface (negative y) new
	// particles spawn in, so they fall into view.
	SpawnBand float64

	SizeMin, SizeMax float64
	TranslucencyMin  float64
}

// Metric observes the population after every tick.
type Metric interface {
	Name() string
	Observe(particles []*particle.Particle, now time.Time)
	Value() float64
	Reset()
}

// Population owns the live particle collection and drives one simulation
// step per Tick. Single-threaded and cooperative: the external scheduling
// collaborator calls Tick once per animation frame and supplies "now"; the
// population makes no timing decisions of its own.
type Population struct {
	params    Params
	registry  *physics.Registry
	rng       *rand.Rand
	particles []*particle.Particle
	metrics   []Metric
}

// New creates an empty population. The rng is the sole randomness source
// (spawn position, size, translucency); inject a seeded one for
// deterministic runs.
func New(params Params, registry *physics.Registry, rng *rand.Rand) *Population {
	return &Population{
		params:   params,
		registry: registry,
		rng:      rng,
	}
}

func (p *Population) AddMetric(m Metric) { p.metrics = append(p.metrics, m) }

// SetRegistry swaps the force set for subsequent ticks. Used for live
// parameter tuning; contributions are stateless so a swap between ticks is
// always safe.
func (p *Population) SetRegistry(registry *physics.Registry) {
	p.registry = registry
}

// Particles exposes the live collection for read-only iteration by the
// rendering collaborator between ticks. Callers must not mutate it.
func (p *Population) Particles() []*particle.Particle { return p.particles }

func (p *Population) Len() int { return len(p.particles) }

// Resting counts particles that reached their floor but are still rendered.
func (p *Population) Resting() int {
	n := 0
	for _, pt := range p.particles {
		if pt.AtRest {
			n++
		}
	}
	return n
}

// Reset drops the whole population and resets metrics. Tearing down a
// simulation is just this plus no longer calling Tick.
func (p *Population) Reset() {
	p.particles = nil
	for _, m := range p.metrics {
		m.Reset()
	}
}

// Spawn inserts exactly Intensity new particles with randomized spawn
// position (within the off-screen margin horizontally, in the spawn band
// above the surface vertically), size and translucency.
func (p *Population) Spawn(now time.Time) {
	for i := 0; i < p.params.Intensity; i++ {
		loc := vec.Vec{
			X: p.randRange(-p.params.OffscreenOffset, p.params.Width+p.params.OffscreenOffset),
			Y: p.randRange(-p.params.SpawnBand, 0),
		}
		size := p.randRange(p.params.SizeMin, p.params.SizeMax)
		translucency := p.randRange(p.params.TranslucencyMin, 1)
		p.particles = append(p.particles, particle.New(loc, size, translucency, now))
	}
}

// Tick advances one simulation step: spawn, then force application and
// integration for every active particle, then a single filter pass removing
// expired ones. Expiry is marked during the scan and applied after it, so
// removal never perturbs the in-progress iteration.
//
// It returns an error only when a force evaluation produces a non-finite
// vector, which indicates a broken force registration.
func (p *Population) Tick(now time.Time) error {
	p.Spawn(now)

	bounds := particle.Bounds{
		Width:                p.params.Width,
		Height:               p.params.Height,
		OffscreenOffset:      p.params.OffscreenOffset,
		TerminalVelocityRate: p.params.TerminalVelocityRate,
	}

	expired := make([]bool, len(p.particles))
	for i, pt := range p.particles {
		if pt.Expired(now, p.params.TTL) {
			expired[i] = true
			continue
		}
		if pt.AtRest {
			continue
		}

		snapshot := pt.Snapshot()
		for _, f := range p.registry.Forces() {
			contribution := f.Eval(snapshot)
			if !contribution.IsFinite() {
				return fmt.Errorf("%w: %q", physics.ErrNotFinite, f.Name)
			}
			pt.ApplyForce(contribution)
		}
		pt.Step(bounds)
	}

	survivors := make([]*particle.Particle, 0, len(p.particles))
	for i, pt := range p.particles {
		if !expired[i] {
			survivors = append(survivors, pt)
		}
	}
	p.particles = survivors

	for _, m := range p.metrics {
		m.Observe(p.particles, now)
	}
	return nil
}

func (p *Population) randRange(lo, hi float64) float64 {
	return lo + p.rng.Float64()*(hi-lo)
}
