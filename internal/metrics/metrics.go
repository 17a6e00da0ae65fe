package metrics

import (
	"time"

	"github.com/hawkgs/snow/internal/particle"
)

// Count tracks the live population size.
type Count struct {
	current float64
	peak    float64
}

func NewCount() *Count { return &Count{} }

func (c *Count) Name() string { return "population" }

func (c *Count) Observe(particles []*particle.Particle, now time.Time) {
	c.current = float64(len(particles))
	if c.current > c.peak {
		c.peak = c.current
	}
}

func (c *Count) Value() float64 { return c.current }

func (c *Count) Peak() float64 { return c.peak }

func (c *Count) Reset() { c.current, c.peak = 0, 0 }

// RestingFraction is the share of the population that has settled on the
// floor and is waiting out its TTL.
type RestingFraction struct {
	fraction float64
}

func NewRestingFraction() *RestingFraction { return &RestingFraction{} }

func (r *RestingFraction) Name() string { return "resting_fraction" }

func (r *RestingFraction) Observe(particles []*particle.Particle, now time.Time) {
	if len(particles) == 0 {
		r.fraction = 0
		return
	}
	resting := 0
	for _, p := range particles {
		if p.AtRest {
			resting++
		}
	}
	r.fraction = float64(resting) / float64(len(particles))
}

func (r *RestingFraction) Value() float64 { return r.fraction }

func (r *RestingFraction) Reset() { r.fraction = 0 }

// MeanFallSpeed averages velocity magnitude over the active (non-resting)
// particles.
type MeanFallSpeed struct {
	mean float64
}

func NewMeanFallSpeed() *MeanFallSpeed { return &MeanFallSpeed{} }

func (m *MeanFallSpeed) Name() string { return "mean_fall_speed" }

func (m *MeanFallSpeed) Observe(particles []*particle.Particle, now time.Time) {
	sum, n := 0.0, 0
	for _, p := range particles {
		if p.AtRest {
			continue
		}
		sum += p.Velocity.Magnitude()
		n++
	}
	if n == 0 {
		m.mean = 0
		return
	}
	m.mean = sum / float64(n)
}

func (m *MeanFallSpeed) Value() float64 { return m.mean }

func (m *MeanFallSpeed) Reset() { m.mean = 0 }
