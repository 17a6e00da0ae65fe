package physics

import (
	"fmt"

	"github.com/hawkgs/snow/internal/vec"
)

// State is the kinematic snapshot handed to force evaluators. All fields are
// values: an evaluator cannot mutate the particle it was computed from, only
// contribute through its returned vector.
type State struct {
	Velocity     vec.Vec
	Acceleration vec.Vec
	Mass         float64
}

// Force contributes a vector to a particle's acceleration once per tick.
// Forces never mutate particle state directly.
type Force struct {
	Name           string
	StateDependent bool
	Eval           func(s State) vec.Vec
}

// Constant builds a force that returns the same vector every tick,
// regardless of particle state.
func Constant(name string, f vec.Vec) Force {
	return Force{
		Name: name,
		Eval: func(State) vec.Vec { return f },
	}
}

// Wind is a constant lateral push.
func Wind(w vec.Vec) Force { return Constant("wind", w) }

// Gravity scales with mass so heavier particles fall proportionally harder
// before the mass division in Particle.ApplyForce.
func Gravity(g float64) Force {
	return Force{
		Name:           "gravity",
		StateDependent: true,
		Eval: func(s State) vec.Vec {
			return vec.Vec{Y: g * s.Mass}
		},
	}
}

// Drag opposes the current velocity with magnitude cd*|v|^2. It is
// recomputed from the live velocity each tick; at zero velocity it
// contributes nothing.
func Drag(cd float64) Force {
	return Force{
		Name:           "drag",
		StateDependent: true,
		Eval: func(s State) vec.Vec {
			speed := s.Velocity.Magnitude()
			return s.Velocity.Neg().Normalize().Scale(cd * speed * speed)
		},
	}
}

// Registry holds the forces applied to every active particle each tick.
// Contributions are summed into acceleration, so registration order never
// affects the result.
type Registry struct {
	forces []Force
}

// NewRegistry registers the given forces, failing fast on the first
// invalid one.
func NewRegistry(forces ...Force) (*Registry, error) {
	r := &Registry{}
	for _, f := range forces {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and adds a force. A missing evaluator or name is
// rejected immediately; constant forces are probed once so a non-finite
// constant fails here rather than mid-simulation.
func (r *Registry) Register(f Force) error {
	if f.Eval == nil {
		return fmt.Errorf("%w: %q has no evaluator", ErrInvalidForce, f.Name)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidForce)
	}
	if !f.StateDependent {
		if probe := f.Eval(State{}); !probe.IsFinite() {
			return fmt.Errorf("%w: constant force %q", ErrNotFinite, f.Name)
		}
	}
	r.forces = append(r.forces, f)
	return nil
}

// Forces returns the registered forces for per-tick evaluation.
func (r *Registry) Forces() []Force { return r.forces }

func (r *Registry) Len() int { return len(r.forces) }
