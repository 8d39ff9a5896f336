package sim

import (
	"image/color"
	"math"
	"math/rand"
)

// Explosion particle tuning, per frame.
const (
	particleGravity  = 0.06
	particleDecay    = 0.995
	particleSpeedMin = 1.5
	particleSpeedMax = 6.0
	particleLifeMin  = 40.0
	particleLifeMax  = 90.0
	particleSizeMin  = 2.0
	particleSizeMax  = 6.0

	explosionCountMin = 24
	explosionCountMax = 48
)

// Particle is a single spark of an explosion.
type Particle struct {
	Pos   Vec2
	Vel   Vec2
	Age   float64 // frames lived
	Life  float64 // frames until death, fixed at creation
	Size  float64
	Color color.NRGBA
}

// IsAlive returns true if the particle is still alive
func (p *Particle) IsAlive() bool {
	return p.Age < p.Life
}

// Fade returns the remaining life fraction in [0, 1].
func (p *Particle) Fade() float64 {
	if p.Life <= 0 {
		return 0
	}
	return clamp(1-p.Age/p.Life, 0, 1)
}

func (p *Particle) update() {
	p.Pos = p.Pos.Add(p.Vel)
	p.Vel.Y += particleGravity
	p.Vel = p.Vel.Scale(particleDecay)
	p.Age++
}

// Explosion is a fixed batch of particles spawned at one point. It never
// emits again after creation and is done once every particle has died.
type Explosion struct {
	Origin    Vec2
	Color     color.NRGBA
	Age       int
	particles []Particle
}

// RandomBurst asks NewExplosion for a full-size burst of random count.
const RandomBurst = -1

// NewExplosion creates an explosion with count particles. A negative count
// picks a random count in [24, 48); zero yields an explosion that is
// already done.
func NewExplosion(rng *rand.Rand, origin Vec2, col color.NRGBA, count int) *Explosion {
	if count < 0 {
		count = explosionCountMin + rng.Intn(explosionCountMax-explosionCountMin)
	}
	e := &Explosion{
		Origin:    origin,
		Color:     col,
		particles: make([]Particle, 0, count),
	}
	for i := 0; i < count; i++ {
		a := rng.Float64() * 2 * math.Pi
		sp := randRange(rng, particleSpeedMin, particleSpeedMax)
		e.particles = append(e.particles, Particle{
			Pos:   origin,
			Vel:   Vec2{math.Cos(a) * sp, math.Sin(a) * sp},
			Life:  randRange(rng, particleLifeMin, particleLifeMax),
			Size:  randRange(rng, particleSizeMin, particleSizeMax),
			Color: col,
		})
	}
	return e
}

// Update advances every particle one frame and reaps the dead ones.
func (e *Explosion) Update() {
	for i := len(e.particles) - 1; i >= 0; i-- {
		p := &e.particles[i]
		p.update()
		if !p.IsAlive() {
			e.particles = append(e.particles[:i], e.particles[i+1:]...)
		}
	}
	e.Age++
}

// Done reports whether all particles have died.
func (e *Explosion) Done() bool {
	return len(e.particles) == 0
}

// Particles returns the live particles. The slice must not be modified.
func (e *Explosion) Particles() []Particle {
	return e.particles
}
