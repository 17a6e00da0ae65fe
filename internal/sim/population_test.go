package sim_test

import (
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hawkgs/snow/internal/particle"
	"github.com/hawkgs/snow/internal/physics"
	"github.com/hawkgs/snow/internal/sim"
	"github.com/hawkgs/snow/internal/vec"
)

func testParams(intensity int, ttl time.Duration) sim.Params {
	return sim.Params{
		Width:                100,
		Height:               100,
		Intensity:            intensity,
		TerminalVelocityRate: 5,
		TTL:                  ttl,
		OffscreenOffset:      0,
		SpawnBand:            20,
		SizeMin:              1,
		SizeMax:              2,
		TranslucencyMin:      0.5,
	}
}

func gravityOnly(g float64) *physics.Registry {
	registry, err := physics.NewRegistry(physics.Gravity(g))
	Expect(err).NotTo(HaveOccurred())
	return registry
}

var _ = Describe("Population", func() {
	var (
		t0  time.Time
		rng *rand.Rand
	)

	BeforeEach(func() {
		t0 = time.Unix(1000, 0)
		rng = rand.New(rand.NewSource(42))
	})

	Describe("spawning", func() {
		It("inserts exactly intensity particles per tick", func() {
			pop := sim.New(testParams(3, time.Minute), gravityOnly(0.05), rng)

			Expect(pop.Tick(t0)).To(Succeed())
			Expect(pop.Len()).To(Equal(3))

			Expect(pop.Tick(t0.Add(time.Second / 30))).To(Succeed())
			Expect(pop.Len()).To(Equal(6))
		})

		It("spawns nothing at intensity zero", func() {
			pop := sim.New(testParams(0, time.Minute), gravityOnly(0.05), rng)

			Expect(pop.Tick(t0)).To(Succeed())
			Expect(pop.Len()).To(BeZero())
		})

		It("randomizes position within the spawn bounds", func() {
			params := testParams(50, time.Minute)
			params.OffscreenOffset = 10
			pop := sim.New(params, gravityOnly(0.05), rng)

			pop.Spawn(t0)

			for _, p := range pop.Particles() {
				Expect(p.Location.X).To(BeNumerically(">=", -10))
				Expect(p.Location.X).To(BeNumerically("<=", params.Width+10))
				Expect(p.Location.Y).To(BeNumerically(">=", -params.SpawnBand))
				Expect(p.Location.Y).To(BeNumerically("<=", 0))
				Expect(p.Size).To(BeNumerically(">=", params.SizeMin))
				Expect(p.Size).To(BeNumerically("<=", params.SizeMax))
				Expect(p.Translucency).To(BeNumerically(">=", params.TranslucencyMin))
				Expect(p.Translucency).To(BeNumerically("<=", 1))
			}
		})

		It("is deterministic for a fixed seed", func() {
			a := sim.New(testParams(5, time.Minute), gravityOnly(0.05), rand.New(rand.NewSource(7)))
			b := sim.New(testParams(5, time.Minute), gravityOnly(0.05), rand.New(rand.NewSource(7)))

			Expect(a.Tick(t0)).To(Succeed())
			Expect(b.Tick(t0)).To(Succeed())

			for i, p := range a.Particles() {
				Expect(p.Location).To(Equal(b.Particles()[i].Location))
				Expect(p.Size).To(Equal(b.Particles()[i].Size))
			}
		})
	})

	Describe("a single gravity tick", func() {
		It("applies force then integrates in the same tick", func() {
			pop := sim.New(testParams(1, 1000*time.Millisecond), gravityOnly(0.08), rng)

			Expect(pop.Tick(t0)).To(Succeed())
			Expect(pop.Len()).To(Equal(1))

			p := pop.Particles()[0]
			Expect(p.AtRest).To(BeFalse())
			// Gravity returns g*mass and ApplyForce divides by mass, so one
			// tick leaves velocity at exactly g and moves y by that amount,
			// clamped into bounds.
			Expect(p.Velocity.Y).To(BeNumerically("~", 0.08, 1e-12))
			Expect(p.Velocity.X).To(BeZero())
			Expect(p.Location.Y).To(BeNumerically(">=", 0))
			Expect(p.Location.Y).To(BeNumerically("<=", 100-p.Size))
			Expect(p.Acceleration).To(Equal(vec.Zero()))
		})
	})

	Describe("time-to-live", func() {
		const frame = time.Second / 30

		It("keeps a particle until its age reaches ttl, then removes it", func() {
			ttl := 100 * time.Millisecond
			pop := sim.New(testParams(1, ttl), gravityOnly(0.05), rng)

			Expect(pop.Tick(t0)).To(Succeed())
			first := pop.Particles()[0]

			now := t0.Add(ttl - time.Millisecond)
			Expect(pop.Tick(now)).To(Succeed())
			Expect(pop.Particles()).To(ContainElement(first))

			now = t0.Add(ttl)
			Expect(pop.Tick(now)).To(Succeed())
			Expect(pop.Particles()).NotTo(ContainElement(first))
		})

		It("removes resting particles by ttl too", func() {
			ttl := 50 * time.Millisecond
			pop := sim.New(testParams(1, ttl), gravityOnly(0.05), rng)

			Expect(pop.Tick(t0)).To(Succeed())
			p := pop.Particles()[0]
			p.Location.Y = 100 - p.Size // on the floor
			Expect(pop.Tick(t0.Add(frame))).To(Succeed())
			Expect(p.AtRest).To(BeTrue())
			Expect(pop.Particles()).To(ContainElement(p))
			Expect(pop.Resting()).To(Equal(1))

			Expect(pop.Tick(t0.Add(ttl))).To(Succeed())
			Expect(pop.Particles()).NotTo(ContainElement(p))
		})

		It("filters expired particles in one pass after the scan", func() {
			ttl := 40 * time.Millisecond
			pop := sim.New(testParams(2, ttl), gravityOnly(0.05), rng)

			Expect(pop.Tick(t0)).To(Succeed())
			Expect(pop.Len()).To(Equal(2))

			// The first batch expires on this tick; only the fresh spawns
			// survive.
			Expect(pop.Tick(t0.Add(ttl))).To(Succeed())
			Expect(pop.Len()).To(Equal(2))
			for _, p := range pop.Particles() {
				Expect(p.CreatedAt).To(Equal(t0.Add(ttl)))
			}
		})
	})

	Describe("resting particles", func() {
		It("excludes them from force application and integration", func() {
			pop := sim.New(testParams(1, time.Minute), gravityOnly(0.5), rng)

			Expect(pop.Tick(t0)).To(Succeed())
			p := pop.Particles()[0]
			p.Location.Y = 100 - p.Size
			Expect(pop.Tick(t0.Add(time.Second / 30))).To(Succeed())
			Expect(p.AtRest).To(BeTrue())

			loc, vel := p.Location, p.Velocity
			for i := 2; i < 6; i++ {
				Expect(pop.Tick(t0.Add(time.Duration(i) * time.Second / 30))).To(Succeed())
			}
			Expect(p.Location).To(Equal(loc))
			Expect(p.Velocity).To(Equal(vel))
		})
	})

	Describe("invariants over many ticks", func() {
		It("keeps every particle inside bounds and under terminal velocity", func() {
			params := testParams(4, 2*time.Second)
			registry, err := physics.NewRegistry(
				physics.Gravity(0.08),
				physics.Drag(0.02),
				physics.Wind(vec.New(0.3, 0)),
			)
			Expect(err).NotTo(HaveOccurred())
			pop := sim.New(params, registry, rng)

			now := t0
			for i := 0; i < 300; i++ {
				now = now.Add(time.Second / 30)
				Expect(pop.Tick(now)).To(Succeed())

				for _, p := range pop.Particles() {
					tv := params.TerminalVelocityRate * p.Size
					Expect(math.Abs(p.Velocity.X)).To(BeNumerically("<=", tv))
					Expect(math.Abs(p.Velocity.Y)).To(BeNumerically("<=", tv))
					if p.Velocity != vec.Zero() || p.AtRest {
						// Integrated at least once: y is inside the surface.
						Expect(p.Location.Y).To(BeNumerically(">=", 0))
						Expect(p.Location.Y).To(BeNumerically("<=", params.Height-p.Size))
					}
				}
			}

			// TTL bounds the population: at most intensity per frame for
			// ttl's worth of frames.
			Expect(pop.Len()).To(BeNumerically("<=", 4*2*30+4))
		})
	})

	Describe("broken forces", func() {
		It("fails the tick when an evaluation is non-finite", func() {
			bad := physics.Force{
				Name:           "curse",
				StateDependent: true,
				Eval: func(physics.State) vec.Vec {
					return vec.New(math.NaN(), 0)
				},
			}
			registry, err := physics.NewRegistry(physics.Gravity(0.05), bad)
			Expect(err).NotTo(HaveOccurred())

			pop := sim.New(testParams(1, time.Minute), registry, rng)
			err = pop.Tick(t0)
			Expect(err).To(MatchError(physics.ErrNotFinite))
			Expect(err.Error()).To(ContainSubstring("curse"))
		})
	})

	Describe("metrics", func() {
		It("observes the population after every tick", func() {
			m := &countingMetric{}
			pop := sim.New(testParams(2, time.Minute), gravityOnly(0.05), rng)
			pop.AddMetric(m)

			Expect(pop.Tick(t0)).To(Succeed())
			Expect(pop.Tick(t0.Add(time.Second / 30))).To(Succeed())

			Expect(m.observations).To(Equal(2))
			Expect(m.lastLen).To(Equal(4))
		})
	})

	Describe("reset", func() {
		It("drops the population and resets metrics", func() {
			m := &countingMetric{}
			pop := sim.New(testParams(2, time.Minute), gravityOnly(0.05), rng)
			pop.AddMetric(m)

			Expect(pop.Tick(t0)).To(Succeed())
			pop.Reset()

			Expect(pop.Len()).To(BeZero())
			Expect(m.observations).To(BeZero())
		})
	})
})

type countingMetric struct {
	observations int
	lastLen      int
}

func (m *countingMetric) Name() string { return "counting" }

func (m *countingMetric) Observe(particles []*particle.Particle, now time.Time) {
	m.observations++
	m.lastLen = len(particles)
}

func (m *countingMetric) Value() float64 { return float64(m.lastLen) }

func (m *countingMetric) Reset() { m.observations, m.lastLen = 0, 0 }
