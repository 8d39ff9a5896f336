package sim

import (
	"image/color"
	"math"
)

const (
	massPerSize    = 10.0 // initial mass per unit of base size
	minDisplaySize = 4.0
	distEpsilon    = 1e-6
)

// PlanetParams describes a planet at creation time.
type PlanetParams struct {
	Center       Vec2    // gravity center the planet orbits
	OrbitRadius  float64
	Angle        float64 // initial orbit angle
	AngularSpeed float64 // radians per frame
	Size         float64 // base visual radius
	Color        color.NRGBA
	SpinAngle    float64
	SpinSpeed    float64 // radians per frame
	MinMassRatio float64 // mass floor as a fraction of the initial mass
}

// Planet orbits a fixed center and is perturbed by the other planets.
// Its visual size never changes; erosion only lowers its mass.
type Planet struct {
	id EntityID

	center       Vec2
	orbitRadius  float64
	angle        float64
	angularSpeed float64

	pos Vec2
	vel Vec2 // perturbation velocity, added on top of the orbit position

	baseSize float64
	color    color.NRGBA

	mass     float64
	initMass float64
	minMass  float64
	hitCount int

	destroyed     bool
	skipExplosion bool // a collision already spawned this planet's explosion

	spinAngle float64
	spinSpeed float64

	craters CraterField
}

// NewPlanet creates a planet placed on its orbit.
func NewPlanet(p PlanetParams) *Planet {
	initMass := p.Size * massPerSize
	pl := &Planet{
		id:           generateEntityID(),
		center:       p.Center,
		orbitRadius:  p.OrbitRadius,
		angle:        p.Angle,
		angularSpeed: p.AngularSpeed,
		baseSize:     p.Size,
		color:        p.Color,
		mass:         initMass,
		initMass:     initMass,
		minMass:      initMass * clamp(p.MinMassRatio, 0, 1),
		spinAngle:    normalizeAngle(p.SpinAngle),
		spinSpeed:    p.SpinSpeed,
	}
	pl.pos = polar(pl.center, pl.angle, pl.orbitRadius)
	return pl
}

// ID returns the planet's entity ID.
func (p *Planet) ID() EntityID { return p.id }

// Position returns the planet center in world coordinates.
func (p *Planet) Position() Vec2 { return p.pos }

// Center returns the gravity center the planet orbits.
func (p *Planet) Center() Vec2 { return p.center }

// OrbitRadius returns the radius of the base orbit.
func (p *Planet) OrbitRadius() float64 { return p.orbitRadius }

// Size returns the base size the planet was created with.
func (p *Planet) Size() float64 { return p.baseSize }

// Radius returns the display and collision radius.
func (p *Planet) Radius() float64 { return math.Max(minDisplaySize, p.baseSize) }

// Color returns the planet's base color.
func (p *Planet) Color() color.NRGBA { return p.color }

// Mass returns the current mass, always within [MinMass, InitMass].
func (p *Planet) Mass() float64 { return p.mass }

// InitMass returns the mass the planet was created with.
func (p *Planet) InitMass() float64 { return p.initMass }

// MinMass returns the mass floor erosion cannot go below.
func (p *Planet) MinMass() float64 { return p.minMass }

// HitCount returns the number of satellite impacts received.
func (p *Planet) HitCount() int { return p.hitCount }

// Destroyed reports whether the planet has been destroyed. Once true it stays true.
func (p *Planet) Destroyed() bool { return p.destroyed }

// SpinAngle returns the rotation of the surface in [0, 2π).
func (p *Planet) SpinAngle() float64 { return p.spinAngle }

// Craters returns the planet's crater field.
func (p *Planet) Craters() *CraterField { return &p.craters }

// Update advances the planet one frame. Peers are the planets whose gravity
// perturbs it; the planet itself and destroyed peers are skipped.
func (p *Planet) Update(peers []*Planet, cfg Config) {
	scale := cfg.mutualAccelScale()
	for _, other := range peers {
		if other == nil || other == p || other.destroyed {
			continue
		}
		d := other.pos.Sub(p.pos)
		dist2 := d.X*d.X + d.Y*d.Y + distEpsilon
		dist := math.Sqrt(dist2)
		aMag := other.mass / (dist2 + cfg.GravitySoftening)
		p.vel.X += d.X / dist * aMag * scale
		p.vel.Y += d.Y / dist * aMag * scale
	}

	p.angle += p.angularSpeed
	base := polar(p.center, p.angle, p.orbitRadius)

	p.vel = p.vel.Scale(cfg.VelocityDamping)
	p.pos = base.Add(p.vel)

	p.spinAngle = normalizeAngle(p.spinAngle + p.spinSpeed)
}

// Erode lowers the mass by amount, never below the floor nor above the
// initial mass. Destruction is decided by the world, not here.
func (p *Planet) Erode(amount float64) {
	p.mass = clamp(p.mass-amount, p.minMass, p.initMass)
}

// maxErosionPerHit caps a single impact so destruction takes at least requiredHits impacts.
func (p *Planet) maxErosionPerHit(requiredHits int) float64 {
	return p.initMass / float64(max(1, requiredHits))
}

// depleted reports whether the planet has met both destruction conditions.
func (p *Planet) depleted(requiredHits int) bool {
	return p.mass <= p.minMass && p.hitCount >= requiredHits
}

func (p *Planet) markDestroyed() {
	p.destroyed = true
}

// AddCrater records an impact at a world-space point. The crater is
// placed along the direction from the planet center to the point.
func (p *Planet) AddCrater(impact Vec2, size, depth float64) {
	d := impact.Sub(p.pos)
	p.AddCraterAtAngle(math.Atan2(d.Y, d.X), size, depth)
}

// AddCraterAtAngle records an impact at a world-space angle around the planet center.
func (p *Planet) AddCraterAtAngle(angle, size, depth float64) {
	p.craters.add(p.surface(), angle, size, depth)
}

// CraterPosition returns the current world position of a crater on p.
func (p *Planet) CraterPosition(c Crater) Vec2 {
	return p.surface().worldPos(c)
}

func (p *Planet) surface() surfaceFrame {
	return surfaceFrame{Center: p.pos, Spin: p.spinAngle, Radius: p.Radius()}
}
