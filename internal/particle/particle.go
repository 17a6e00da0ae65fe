package particle

import (
	"time"

	"github.com/hawkgs/snow/internal/physics"
	"github.com/hawkgs/snow/internal/vec"
)

// Bounds describes the surface a particle moves within.
type Bounds struct {
	Width, Height float64

	// OffscreenOffset is the margin outside the visible bounds within which
	// particles may still exist, so they can drift in and out smoothly.
	OffscreenOffset float64

	// TerminalVelocityRate scales each particle's per-axis velocity cap:
	// terminal velocity = rate * size.
	TerminalVelocityRate float64
}

// Particle is one simulated flake or drop. Mutated by at most one tick's
// worth of force application and integration per tick; never shared across
// goroutines.
type Particle struct {
	Location     vec.Vec
	Velocity     vec.Vec
	Acceleration vec.Vec

	// Size is the drawn radius and the basis for mass; both fixed at
	// creation.
	Size float64
	Mass float64

	// Translucency is cosmetic, carried for the renderer only.
	Translucency float64

	CreatedAt time.Time

	// AtRest is set once the particle reaches its floor. A resting particle
	// receives no forces and no integration but stays rendered until TTL.
	AtRest bool
}

// New creates a particle with mass fixed at size^2, so heavier particles
// resist force more under the mass division in ApplyForce.
func New(loc vec.Vec, size, translucency float64, now time.Time) *Particle {
	return &Particle{
		Location:     loc,
		Size:         size,
		Mass:         size * size,
		Translucency: translucency,
		CreatedAt:    now,
	}
}

// Snapshot returns the kinematic state handed to force evaluators. Vec is a
// value type, so the snapshot is an independent copy by construction.
func (p *Particle) Snapshot() physics.State {
	return physics.State{
		Velocity:     p.Velocity,
		Acceleration: p.Acceleration,
		Mass:         p.Mass,
	}
}

// ApplyForce folds one force contribution into this tick's acceleration,
// divided by mass (second law in reverse). Called once per registered force
// per tick, before Step.
func (p *Particle) ApplyForce(f vec.Vec) {
	p.Acceleration = p.Acceleration.Add(f.DivScalar(p.Mass))
}

// Step advances one tick of semi-implicit Euler integration.
//
// Reaching the floor freezes the particle permanently; this is intentional
// rest behavior, not a bounce-then-settle. Acceleration never persists
// between ticks: each tick's value is purely that tick's force sum.
func (p *Particle) Step(b Bounds) {
	if p.AtRest || p.Location.Y >= b.Height-p.Size {
		p.AtRest = true
		return
	}

	p.Velocity = p.Velocity.Add(p.Acceleration)

	tv := b.TerminalVelocityRate * p.Size
	p.Velocity = p.Velocity.Clamp(-tv, tv, -tv, tv)

	p.Location = p.Location.Add(p.Velocity)
	p.Location = p.Location.Clamp(
		-b.OffscreenOffset, b.Width+b.OffscreenOffset,
		0, b.Height-p.Size,
	)

	p.Acceleration = vec.Zero()
}

// Expired reports whether the particle's age reached ttl. Rest state is
// irrelevant: resting particles expire on the same clock.
func (p *Particle) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.CreatedAt) >= ttl
}
