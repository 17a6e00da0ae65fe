package metrics

import (
	"testing"
	"time"

	"github.com/hawkgs/snow/internal/particle"
	"github.com/hawkgs/snow/internal/vec"
)

func flakes(n, resting int) []*particle.Particle {
	now := time.Unix(0, 0)
	ps := make([]*particle.Particle, 0, n)
	for i := 0; i < n; i++ {
		p := particle.New(vec.Zero(), 1, 1, now)
		p.Velocity = vec.New(3, 4) // magnitude 5
		if i < resting {
			p.AtRest = true
		}
		ps = append(ps, p)
	}
	return ps
}

func TestCount(t *testing.T) {
	c := NewCount()
	now := time.Unix(0, 0)

	c.Observe(flakes(5, 0), now)
	c.Observe(flakes(3, 0), now)

	if c.Value() != 3 {
		t.Errorf("value: got %f", c.Value())
	}
	if c.Peak() != 5 {
		t.Errorf("peak: got %f", c.Peak())
	}

	c.Reset()
	if c.Value() != 0 || c.Peak() != 0 {
		t.Error("reset did not zero the metric")
	}
}

func TestRestingFraction(t *testing.T) {
	r := NewRestingFraction()
	now := time.Unix(0, 0)

	r.Observe(flakes(4, 1), now)
	if r.Value() != 0.25 {
		t.Errorf("got %f, want 0.25", r.Value())
	}

	r.Observe(nil, now)
	if r.Value() != 0 {
		t.Errorf("empty population: got %f", r.Value())
	}
}

func TestMeanFallSpeed(t *testing.T) {
	m := NewMeanFallSpeed()
	now := time.Unix(0, 0)

	m.Observe(flakes(4, 2), now)
	if m.Value() != 5 {
		t.Errorf("got %f, want 5", m.Value())
	}

	// Resting particles are excluded; all-resting means zero.
	m.Observe(flakes(2, 2), now)
	if m.Value() != 0 {
		t.Errorf("all resting: got %f", m.Value())
	}
}
