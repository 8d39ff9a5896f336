package sim

import (
	"image/color"
	"math"
	"math/rand"
	"slices"
	"time"
)

// Spawn tuning for planets and satellites created from input.
const (
	spawnPlanetMinOrbit = 24.0
	spawnSatelliteGap   = 6.0
	maxSpinSpeed        = 0.02
)

// World owns every planet, satellite and explosion and advances them one
// frame at a time. It is not safe for concurrent use: Step, the spawn
// methods and rendering reads must all happen on one goroutine.
type World struct {
	cfg    Config
	rng    *rand.Rand
	center Vec2
	frame  int

	planets    []*Planet
	satellites []*Satellite
	explosions []*Explosion

	listeners []Listener
	totals    Totals
}

// NewWorld creates an empty world. The config is used as is; callers
// should run Config.Validate first.
func NewWorld(cfg Config) *World {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &World{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		center:     Vec2{cfg.Width / 2, cfg.Height / 2},
		planets:    make([]*Planet, 0, 16),
		satellites: make([]*Satellite, 0, 64),
		explosions: make([]*Explosion, 0, 16),
	}
}

// Config returns the active tunables.
func (w *World) Config() Config { return w.cfg }

// SetConfig replaces the tunables between frames. Existing bodies keep
// their state; a changed viewport size moves the gravity center for
// future spawns.
func (w *World) SetConfig(cfg Config) {
	cfg.Seed = w.cfg.Seed
	w.cfg = cfg
	w.Resize(cfg.Width, cfg.Height)
}

// Resize sets the viewport size and recenters the gravity center used by
// new planets. Planets already orbiting keep their own center.
func (w *World) Resize(width, height float64) {
	w.cfg.Width = width
	w.cfg.Height = height
	w.center = Vec2{width / 2, height / 2}
}

// Center returns the shared gravity center.
func (w *World) Center() Vec2 { return w.center }

// Frame returns the number of completed steps.
func (w *World) Frame() int { return w.frame }

// Planets returns the live planets in world order. The slice must not be modified.
func (w *World) Planets() []*Planet { return w.planets }

// Satellites returns the live satellites. The slice must not be modified.
func (w *World) Satellites() []*Satellite { return w.satellites }

// Explosions returns the active explosions. The slice must not be modified.
func (w *World) Explosions() []*Explosion { return w.explosions }

// Planet looks up a live planet by ID.
func (w *World) Planet(id EntityID) *Planet {
	for _, p := range w.planets {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Host returns the planet s orbits, or nil if it is gone.
func (w *World) Host(s *Satellite) *Planet {
	return w.Planet(s.host)
}

// Subscribe registers a listener for world events.
func (w *World) Subscribe(l Listener) {
	w.listeners = append(w.listeners, l)
}

func (w *World) emit(e Event) {
	e.Frame = w.frame
	for _, l := range w.listeners {
		l.OnEvent(e)
	}
}

// AddPlanet appends a planet to the world.
func (w *World) AddPlanet(p *Planet) {
	w.planets = append(w.planets, p)
	w.totals.PlanetsSpawned++
	w.emit(Event{Kind: EventPlanetSpawned, Pos: p.pos, Planet: p.id, Color: p.color})
}

// AddSatellite appends a satellite to the world. Its host must already be in the world.
func (w *World) AddSatellite(s *Satellite) {
	w.satellites = append(w.satellites, s)
	w.totals.SatellitesSpawned++
	w.emit(Event{Kind: EventSatelliteSpawned, Pos: s.pos, Planet: s.host, Satellite: s.id})
}

// Step advances the simulation by one frame. The passes run as strict
// barriers: integrate every body, detect planet collisions, detect
// satellite impacts, resolve destruction, then age explosions.
func (w *World) Step() {
	w.frame++

	for _, p := range w.planets {
		p.Update(w.planets, w.cfg)
	}
	for _, s := range w.satellites {
		s.Update(w.Host(s), w.planets, w.frame, w.cfg)
	}

	w.detectPlanetCollisions()
	w.detectSatelliteImpacts()
	w.resolveDestruction()
	w.updateExplosions()
}

func (w *World) spawnExplosion(pos Vec2, col color.NRGBA, count int) {
	e := NewExplosion(w.rng, pos, col, count)
	w.explosions = append(w.explosions, e)
	w.totals.Explosions++
	w.emit(Event{Kind: EventExplosionSpawned, Pos: pos, Color: col, Magnitude: float64(len(e.particles))})
}

// resolveDestruction spawns explosions for destroyed planets, disposes of
// their satellites and only then removes the planets.
func (w *World) resolveDestruction() {
	for pi := len(w.planets) - 1; pi >= 0; pi-- {
		p := w.planets[pi]
		if !p.destroyed {
			continue
		}
		if !p.skipExplosion {
			w.spawnExplosion(p.pos, p.color, RandomBurst)
		}

		for si := len(w.satellites) - 1; si >= 0; si-- {
			s := w.satellites[si]
			if s.host != p.id {
				continue
			}
			if w.cfg.SatelliteDeathBehavior == DeathReassign {
				if nearest := w.nearestSurvivor(s.pos, p); nearest != nil {
					s.rebind(nearest)
					w.totals.SatellitesReassigned++
					w.emit(Event{Kind: EventSatelliteReassign, Pos: s.pos, Planet: p.id, Other: nearest.id, Satellite: s.id})
					continue
				}
			} else {
				if w.cfg.DebrisParticles > 0 {
					w.spawnExplosion(s.pos, p.color, w.cfg.DebrisParticles)
				}
				w.emit(Event{Kind: EventSatelliteDebris, Pos: s.pos, Planet: p.id, Satellite: s.id, Color: p.color})
			}
			w.satellites = slices.Delete(w.satellites, si, si+1)
			w.totals.SatellitesLost++
		}

		w.planets = slices.Delete(w.planets, pi, pi+1)
		w.totals.PlanetsDestroyed++
		w.emit(Event{Kind: EventPlanetDestroyed, Pos: p.pos, Planet: p.id, Color: p.color})
	}
}

// nearestSurvivor returns the closest planet to pos that is not destroyed
// and is not exclude.
func (w *World) nearestSurvivor(pos Vec2, exclude *Planet) *Planet {
	var nearest *Planet
	best := math.Inf(1)
	for _, q := range w.planets {
		if q == exclude || q.destroyed {
			continue
		}
		if d := pos.Dist(q.pos); d < best {
			best = d
			nearest = q
		}
	}
	return nearest
}

func (w *World) updateExplosions() {
	for i := len(w.explosions) - 1; i >= 0; i-- {
		e := w.explosions[i]
		e.Update()
		if e.Done() {
			w.explosions = slices.Delete(w.explosions, i, i+1)
		}
	}
}

// SpawnPlanetAt creates a planet orbiting the gravity center through (x, y).
func (w *World) SpawnPlanetAt(x, y float64) *Planet {
	d := Vec2{x, y}.Sub(w.center)
	p := NewPlanet(PlanetParams{
		Center:       w.center,
		OrbitRadius:  math.Max(d.Len(), spawnPlanetMinOrbit),
		Angle:        math.Atan2(d.Y, d.X),
		AngularSpeed: randRange(w.rng, 0.002, 0.009) * randSign(w.rng),
		Size:         randRange(w.rng, 10, 22),
		Color: color.NRGBA{
			R: uint8(randRange(w.rng, 100, 255)),
			G: uint8(randRange(w.rng, 120, 220)),
			B: uint8(randRange(w.rng, 80, 220)),
			A: 255,
		},
		SpinAngle:    w.rng.Float64() * 2 * math.Pi,
		SpinSpeed:    randRange(w.rng, -maxSpinSpeed, maxSpinSpeed),
		MinMassRatio: w.cfg.MinMassRatio,
	})
	w.AddPlanet(p)
	return p
}

// SpawnSatelliteAt creates a satellite around the planet nearest to
// (x, y). It returns nil, and changes nothing, when there are no planets.
func (w *World) SpawnSatelliteAt(x, y float64) *Satellite {
	at := Vec2{x, y}
	host := w.nearestSurvivor(at, nil)
	if host == nil {
		return nil
	}
	d := at.Sub(host.pos)
	s := NewSatellite(host, SatelliteParams{
		OrbitRadius:  math.Max(d.Len(), host.baseSize+spawnSatelliteGap),
		Angle:        math.Atan2(d.Y, d.X),
		AngularSpeed: randRange(w.rng, 0.008, 0.03) * randSign(w.rng),
		Size:         4 + w.rng.Float64()*3,
		Wobble:       randRange(w.rng, 0.002, 0.01),
		TailLength:   w.cfg.TailLength,
	})
	w.AddSatellite(s)
	return s
}

// Populate adds the initial planets on widening orbits and scatters the
// initial satellites across them.
func (w *World) Populate() {
	n := w.cfg.InitialPlanets
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		dir := -1.0
		if i%2 == 1 {
			dir = 1
		}
		w.AddPlanet(NewPlanet(PlanetParams{
			Center:       w.center,
			OrbitRadius:  80 + float64(i)*90,
			Angle:        w.rng.Float64() * 2 * math.Pi,
			AngularSpeed: randRange(w.rng, 0.002, 0.008) * dir,
			Size:         12 + float64(i)*4,
			Color:        color.NRGBA{R: uint8(120 + 135*t), G: 180, B: uint8(200 - 100*t), A: 255},
			SpinAngle:    w.rng.Float64() * 2 * math.Pi,
			SpinSpeed:    randRange(w.rng, -maxSpinSpeed, maxSpinSpeed),
			MinMassRatio: w.cfg.MinMassRatio,
		}))
	}
	if len(w.planets) == 0 {
		return
	}
	for i := 0; i < w.cfg.InitialSatellites; i++ {
		host := w.planets[w.rng.Intn(len(w.planets))]
		w.AddSatellite(NewSatellite(host, SatelliteParams{
			OrbitRadius:  host.baseSize + 12 + randRange(w.rng, 8, 60),
			Angle:        w.rng.Float64() * 2 * math.Pi,
			AngularSpeed: randRange(w.rng, 0.005, 0.03) * randSign(w.rng),
			Size:         4 + w.rng.Float64()*3,
			Wobble:       randRange(w.rng, 0.002, 0.01),
			TailLength:   w.cfg.TailLength,
		}))
	}
}
