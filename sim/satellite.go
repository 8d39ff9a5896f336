package sim

import "math"

const (
	minSpeedFactor  = 0.06 // satellites keep orbiting slowly even around a fully eroded host
	wobbleAmplitude = 2.0

	// Perturbation from foreign planets is projected onto the host's
	// radial/tangential frame and converted into temporary offsets.
	radialScale     = 28.0 // radial acceleration -> radius offset in px
	tangentialScale = 0.6  // tangential acceleration -> angle offset in rad
)

// SatelliteParams describes a satellite at creation time.
type SatelliteParams struct {
	OrbitRadius  float64
	Angle        float64
	AngularSpeed float64 // base radians per frame, before host mass scaling
	Size         float64
	Wobble       float64 // radius wobble frequency per frame
	TailLength   int
}

// Satellite orbits a host planet. The host is held by ID and resolved
// through the World each frame, so it can be reassigned or vanish safely.
type Satellite struct {
	id   EntityID
	host EntityID

	orbitRadius      float64
	angle            float64
	baseAngularSpeed float64
	size             float64
	wobble           float64

	pos  Vec2
	prev Vec2 // position before the last update

	tail       []Vec2
	tailLength int
}

// NewSatellite creates a satellite bound to host.
func NewSatellite(host *Planet, p SatelliteParams) *Satellite {
	s := &Satellite{
		id:               generateEntityID(),
		host:             host.ID(),
		orbitRadius:      p.OrbitRadius,
		angle:            p.Angle,
		baseAngularSpeed: p.AngularSpeed,
		size:             p.Size,
		wobble:           p.Wobble,
		tailLength:       p.TailLength,
	}
	s.pos = polar(host.Position(), s.angle, s.orbitRadius)
	s.prev = s.pos
	return s
}

// ID returns the satellite's entity ID.
func (s *Satellite) ID() EntityID { return s.id }

// HostID returns the ID of the planet the satellite orbits.
func (s *Satellite) HostID() EntityID { return s.host }

// Position returns the satellite position in world coordinates.
func (s *Satellite) Position() Vec2 { return s.pos }

// Size returns the satellite diameter.
func (s *Satellite) Size() float64 { return s.size }

// Angle returns the current orbit angle around the host.
func (s *Satellite) Angle() float64 { return s.angle }

// OrbitRadius returns the unperturbed orbit radius.
func (s *Satellite) OrbitRadius() float64 { return s.orbitRadius }

// Tail returns recent positions, oldest first. The slice must not be modified.
func (s *Satellite) Tail() []Vec2 { return s.tail }

// ImpactSpeed returns the distance moved during the last update.
func (s *Satellite) ImpactSpeed() float64 { return s.pos.Dist(s.prev) }

// SpeedFactor returns the multiplier applied to the base angular speed:
// the host's remaining mass ratio, floored at 0.06.
func SpeedFactor(host *Planet) float64 {
	f := 1.0
	if host != nil && host.initMass > 0 {
		f = host.mass / host.initMass
	}
	return math.Max(minSpeedFactor, f)
}

// Update advances the satellite one frame around host. The radius and
// angle offsets caused by other planets are recomputed from scratch every
// frame; only the accumulated orbit angle persists.
func (s *Satellite) Update(host *Planet, planets []*Planet, frame int, cfg Config) {
	s.prev = s.pos
	if host == nil {
		return
	}

	s.angle += s.baseAngularSpeed * SpeedFactor(host)
	r := s.orbitRadius + math.Sin(float64(frame)*s.wobble)*wobbleAmplitude

	scale := cfg.satelliteAccelScale()
	angleDelta := 0.0
	for _, p := range planets {
		if p == nil || p == host || p.destroyed {
			continue
		}
		at := polar(host.pos, s.angle, r)
		d := p.pos.Sub(at)
		dist2 := d.X*d.X + d.Y*d.Y + distEpsilon
		dist := math.Sqrt(dist2)
		aMag := p.mass / (dist2 + cfg.GravitySoftening)
		ax := d.X / dist * aMag * scale
		ay := d.Y / dist * aMag * scale

		pr := at.Sub(host.pos)
		prMag := pr.Len() + distEpsilon
		rx, ry := pr.X/prMag, pr.Y/prMag
		tx, ty := -ry, rx

		r += (ax*rx + ay*ry) * radialScale
		angleDelta += (ax*tx + ay*ty) * tangentialScale
	}
	s.angle += angleDelta

	s.pos = polar(host.pos, s.angle, r)
	s.pushTail(s.pos)
}

func (s *Satellite) pushTail(p Vec2) {
	if s.tailLength <= 0 {
		return
	}
	s.tail = append(s.tail, p)
	if over := len(s.tail) - s.tailLength; over > 0 {
		s.tail = append(s.tail[:0], s.tail[over:]...)
	}
}

func (s *Satellite) rebind(host *Planet) {
	s.host = host.ID()
}
