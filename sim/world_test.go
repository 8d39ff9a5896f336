package sim

import (
	"image/color"
	"math"
	"testing"
)

// testConfig returns a deterministic config with no initial population.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.InitialPlanets = 0
	cfg.InitialSatellites = 0
	return cfg
}

// fixedPlanet creates a planet that stays at pos: zero orbit radius and
// zero angular and spin speed.
func fixedPlanet(pos Vec2, size float64, cfg Config) *Planet {
	return NewPlanet(PlanetParams{
		Center:       pos,
		Size:         size,
		Color:        color.NRGBA{R: 200, G: 100, B: 50, A: 255},
		MinMassRatio: cfg.MinMassRatio,
	})
}

// recorder collects events by kind.
type recorder struct {
	events []Event
}

// record subscribes a new recorder to w.
func record(w *World) *recorder {
	r := &recorder{}
	w.Subscribe(ListenerFunc(func(e Event) { r.events = append(r.events, e) }))
	return r
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) first(kind EventKind) (Event, bool) {
	for _, e := range r.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func TestPlanetDestroyedAfterRequiredHits(t *testing.T) {
	cfg := testConfig()
	cfg.RequiredHits = 5
	w := NewWorld(cfg)
	rec := record(w)

	p := fixedPlanet(Vec2{400, 300}, 12, cfg)
	w.AddPlanet(p)
	if p.InitMass() != 120 {
		t.Fatalf("InitMass = %v, want 120", p.InitMass())
	}

	for hit := 1; hit <= 5; hit++ {
		w.AddSatellite(NewSatellite(p, SatelliteParams{OrbitRadius: 2, Size: 4}))
		lastPos := p.Position()
		w.Step()

		if hit < 5 {
			if p.Destroyed() {
				t.Fatalf("planet destroyed after %d hits", hit)
			}
			if p.HitCount() != hit {
				t.Fatalf("HitCount = %d, want %d", p.HitCount(), hit)
			}
			if p.Mass() < p.MinMass() || p.Mass() > p.InitMass() {
				t.Fatalf("mass %v outside [%v, %v]", p.Mass(), p.MinMass(), p.InitMass())
			}
			if len(w.Planets()) != 1 {
				t.Fatalf("planet removed after %d hits", hit)
			}
			continue
		}

		if !p.Destroyed() {
			t.Fatal("planet not destroyed after required hits")
		}
		if len(w.Planets()) != 0 {
			t.Fatalf("planets = %d, want 0", len(w.Planets()))
		}
		if n := rec.count(EventExplosionSpawned); n != 1 {
			t.Fatalf("explosions spawned = %d, want 1", n)
		}
		e, _ := rec.first(EventExplosionSpawned)
		if e.Pos.Dist(lastPos) > 1e-9 {
			t.Errorf("explosion at %v, want %v", e.Pos, lastPos)
		}
	}

	if n := rec.count(EventSatelliteImpact); n != 5 {
		t.Errorf("impacts = %d, want 5", n)
	}
	if len(w.Satellites()) != 0 {
		t.Errorf("satellites = %d, want 0", len(w.Satellites()))
	}
}

func TestErosionIsCappedPerHit(t *testing.T) {
	cfg := testConfig()
	cfg.MinMassRatio = 0
	cfg.RequiredHits = 5
	w := NewWorld(cfg)

	p := fixedPlanet(Vec2{400, 300}, 12, cfg)
	w.AddPlanet(p)
	w.AddSatellite(NewSatellite(p, SatelliteParams{OrbitRadius: 2, Size: 7}))
	w.Step()

	// 7*8 = 56 would exceed 120/5 = 24.
	if got, want := p.Mass(), 96.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Mass = %v, want %v", got, want)
	}
}

func TestPlanetCollisionSpawnsSingleExplosion(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(cfg)
	rec := record(w)

	a := fixedPlanet(Vec2{500, 300}, 12, cfg)
	b := fixedPlanet(Vec2{527, 300}, 16, cfg)
	w.AddPlanet(a)
	w.AddPlanet(b)

	w.Step()

	if !a.Destroyed() || !b.Destroyed() {
		t.Fatalf("destroyed = %v, %v, want both", a.Destroyed(), b.Destroyed())
	}
	if len(w.Planets()) != 0 {
		t.Fatalf("planets = %d, want 0", len(w.Planets()))
	}
	if n := rec.count(EventExplosionSpawned); n != 1 {
		t.Fatalf("explosions spawned = %d, want 1", n)
	}
	e, _ := rec.first(EventExplosionSpawned)
	mid := a.Position().Lerp(b.Position(), 0.5)
	if e.Pos.Dist(mid) > 1e-9 {
		t.Errorf("explosion at %v, want midpoint %v", e.Pos, mid)
	}
	if n := rec.count(EventPlanetDestroyed); n != 2 {
		t.Errorf("planet-destroyed events = %d, want 2", n)
	}
	if n := rec.count(EventPlanetsCollided); n != 1 {
		t.Errorf("collision events = %d, want 1", n)
	}
}

func TestSeparatedPlanetsSurvive(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(cfg)
	w.AddPlanet(fixedPlanet(Vec2{100, 300}, 12, cfg))
	w.AddPlanet(fixedPlanet(Vec2{600, 300}, 16, cfg))

	for i := 0; i < 10; i++ {
		w.Step()
	}
	if len(w.Planets()) != 2 {
		t.Errorf("planets = %d, want 2", len(w.Planets()))
	}
}

func TestSpawnSatelliteWithoutPlanetsIsNoop(t *testing.T) {
	w := NewWorld(testConfig())
	if s := w.SpawnSatelliteAt(10, 10); s != nil {
		t.Fatalf("SpawnSatelliteAt returned %v, want nil", s)
	}
	if len(w.Satellites()) != 0 {
		t.Errorf("satellites = %d, want 0", len(w.Satellites()))
	}
}

func TestSpawnSatelliteBindsNearestPlanet(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(cfg)
	far := fixedPlanet(Vec2{100, 100}, 12, cfg)
	near := fixedPlanet(Vec2{700, 400}, 12, cfg)
	w.AddPlanet(far)
	w.AddPlanet(near)

	s := w.SpawnSatelliteAt(720, 400)
	if s == nil {
		t.Fatal("SpawnSatelliteAt returned nil")
	}
	if s.HostID() != near.ID() {
		t.Errorf("host = %d, want %d", s.HostID(), near.ID())
	}
	// 20px offset is above the host size + 6 floor.
	if math.Abs(s.OrbitRadius()-20) > 1e-9 {
		t.Errorf("OrbitRadius = %v, want 20", s.OrbitRadius())
	}

	inside := w.SpawnSatelliteAt(701, 400)
	if got, want := inside.OrbitRadius(), near.Size()+spawnSatelliteGap; got != want {
		t.Errorf("OrbitRadius = %v, want floor %v", got, want)
	}
}

func TestSpawnPlanetDerivesOrbitFromCenter(t *testing.T) {
	w := NewWorld(testConfig())
	c := w.Center()

	p := w.SpawnPlanetAt(c.X, c.Y-150)
	if math.Abs(p.OrbitRadius()-150) > 1e-9 {
		t.Errorf("OrbitRadius = %v, want 150", p.OrbitRadius())
	}
	if p.Position().Dist(Vec2{c.X, c.Y - 150}) > 1e-9 {
		t.Errorf("Position = %v, want spawn point", p.Position())
	}

	inner := w.SpawnPlanetAt(c.X+1, c.Y)
	if inner.OrbitRadius() != spawnPlanetMinOrbit {
		t.Errorf("OrbitRadius = %v, want floor %v", inner.OrbitRadius(), spawnPlanetMinOrbit)
	}
	if p.Size() < 10 || p.Size() >= 22 {
		t.Errorf("Size = %v, want [10, 22)", p.Size())
	}
}

func TestDebrisPolicyRemovesOrphans(t *testing.T) {
	cfg := testConfig()
	cfg.SatelliteDeathBehavior = DeathDebris
	w := NewWorld(cfg)
	rec := record(w)

	a := fixedPlanet(Vec2{500, 300}, 12, cfg)
	b := fixedPlanet(Vec2{520, 300}, 12, cfg)
	w.AddPlanet(a)
	w.AddPlanet(b)
	w.AddSatellite(NewSatellite(a, SatelliteParams{OrbitRadius: 200, Size: 4}))
	w.AddSatellite(NewSatellite(b, SatelliteParams{OrbitRadius: 200, Angle: math.Pi, Size: 4}))

	w.Step()

	if len(w.Satellites()) != 0 {
		t.Fatalf("satellites = %d, want 0", len(w.Satellites()))
	}
	if n := rec.count(EventSatelliteDebris); n != 2 {
		t.Errorf("debris events = %d, want 2", n)
	}
	// one collision explosion plus two debris bursts
	if n := len(w.Explosions()); n != 3 {
		t.Fatalf("explosions = %d, want 3", n)
	}
	debris := 0
	for _, e := range rec.events {
		if e.Kind == EventExplosionSpawned && e.Magnitude == float64(cfg.DebrisParticles) {
			debris++
		}
	}
	if debris != 2 {
		t.Errorf("debris-sized explosions = %d, want 2", debris)
	}
}

func TestZeroDebrisParticlesSpawnsNoBurst(t *testing.T) {
	cfg := testConfig()
	cfg.SatelliteDeathBehavior = DeathDebris
	cfg.DebrisParticles = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	w := NewWorld(cfg)
	rec := record(w)

	a := fixedPlanet(Vec2{500, 300}, 12, cfg)
	b := fixedPlanet(Vec2{520, 300}, 12, cfg)
	w.AddPlanet(a)
	w.AddPlanet(b)
	w.AddSatellite(NewSatellite(a, SatelliteParams{OrbitRadius: 200, Size: 4}))

	w.Step()

	if len(w.Satellites()) != 0 {
		t.Fatalf("satellites = %d, want 0", len(w.Satellites()))
	}
	if n := rec.count(EventSatelliteDebris); n != 1 {
		t.Errorf("debris events = %d, want 1", n)
	}
	// only the collision explosion
	if n := rec.count(EventExplosionSpawned); n != 1 {
		t.Fatalf("explosions spawned = %d, want 1", n)
	}
	if e, _ := rec.first(EventExplosionSpawned); e.Magnitude < explosionCountMin {
		t.Errorf("collision explosion has %v particles, want at least %d", e.Magnitude, explosionCountMin)
	}
}

func TestSatelliteConsumedByCollidingPlanet(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(cfg)
	rec := record(w)

	a := fixedPlanet(Vec2{500, 300}, 12, cfg)
	b := fixedPlanet(Vec2{520, 300}, 12, cfg)
	c := fixedPlanet(Vec2{800, 300}, 12, cfg)
	w.AddPlanet(a)
	w.AddPlanet(b)
	w.AddPlanet(c)
	// orbits c but sits on top of a
	w.AddSatellite(NewSatellite(c, SatelliteParams{OrbitRadius: 300, Angle: math.Pi, Size: 4}))

	w.Step()

	if !a.Destroyed() || !b.Destroyed() {
		t.Fatalf("destroyed = %v, %v, want both", a.Destroyed(), b.Destroyed())
	}
	if a.HitCount() != 1 {
		t.Errorf("a hits = %d, want 1", a.HitCount())
	}
	if n := len(w.Satellites()); n != 0 {
		t.Errorf("satellites = %d, want 0", n)
	}
	if n := rec.count(EventSatelliteImpact); n != 1 {
		t.Errorf("impact events = %d, want 1", n)
	}
	if n := rec.count(EventExplosionSpawned); n != 1 {
		t.Errorf("explosions spawned = %d, want 1", n)
	}
	if len(w.Planets()) != 1 || w.Planets()[0] != c {
		t.Errorf("surviving planets = %d, want only c", len(w.Planets()))
	}
}

func TestReassignPolicyRebindsToNearestSurvivor(t *testing.T) {
	cfg := testConfig()
	cfg.SatelliteDeathBehavior = DeathReassign
	w := NewWorld(cfg)
	rec := record(w)

	a := fixedPlanet(Vec2{500, 300}, 12, cfg)
	b := fixedPlanet(Vec2{520, 300}, 12, cfg)
	survivor := fixedPlanet(Vec2{900, 300}, 12, cfg)
	w.AddPlanet(a)
	w.AddPlanet(b)
	w.AddPlanet(survivor)
	s := NewSatellite(a, SatelliteParams{OrbitRadius: 150, Size: 4})
	w.AddSatellite(s)

	w.Step()

	if len(w.Planets()) != 1 || w.Planets()[0] != survivor {
		t.Fatalf("planets = %v, want only the survivor", w.Planets())
	}
	if len(w.Satellites()) != 1 {
		t.Fatalf("satellites = %d, want 1", len(w.Satellites()))
	}
	if s.HostID() != survivor.ID() {
		t.Errorf("host = %d, want %d", s.HostID(), survivor.ID())
	}
	if w.Host(s) != survivor {
		t.Error("Host did not resolve to the survivor")
	}
	if n := rec.count(EventSatelliteReassign); n != 1 {
		t.Errorf("reassign events = %d, want 1", n)
	}
}

func TestReassignWithoutSurvivorsRemovesSatellite(t *testing.T) {
	cfg := testConfig()
	cfg.SatelliteDeathBehavior = DeathReassign
	w := NewWorld(cfg)

	a := fixedPlanet(Vec2{500, 300}, 12, cfg)
	b := fixedPlanet(Vec2{520, 300}, 12, cfg)
	w.AddPlanet(a)
	w.AddPlanet(b)
	w.AddSatellite(NewSatellite(a, SatelliteParams{OrbitRadius: 150, Size: 4}))

	w.Step()

	if len(w.Satellites()) != 0 {
		t.Errorf("satellites = %d, want 0", len(w.Satellites()))
	}
}

func TestSatelliteHitsForeignPlanet(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(cfg)

	host := fixedPlanet(Vec2{300, 300}, 12, cfg)
	target := fixedPlanet(Vec2{360, 300}, 12, cfg)
	w.AddPlanet(host)
	w.AddPlanet(target)
	w.AddSatellite(NewSatellite(host, SatelliteParams{OrbitRadius: 55, Size: 4}))

	w.Step()

	if target.HitCount() != 1 {
		t.Errorf("target HitCount = %d, want 1", target.HitCount())
	}
	if host.HitCount() != 0 {
		t.Errorf("host HitCount = %d, want 0", host.HitCount())
	}
	if target.Craters().Len() != 1 {
		t.Errorf("target craters = %d, want 1", target.Craters().Len())
	}
}

func TestMassStaysWithinBoundsUnderLongRun(t *testing.T) {
	cfg := testConfig()
	cfg.InitialPlanets = 3
	cfg.InitialSatellites = 12
	w := NewWorld(cfg)
	w.Populate()

	seen := map[EntityID]bool{}
	gone := map[EntityID]bool{}
	for frame := 0; frame < 2000; frame++ {
		if frame%25 == 0 && len(w.Planets()) > 0 {
			p := w.Planets()[frame%len(w.Planets())]
			w.SpawnSatelliteAt(p.Position().X+p.Radius()+3, p.Position().Y)
		}
		w.Step()

		alive := map[EntityID]bool{}
		for _, p := range w.Planets() {
			if p.Mass() < p.MinMass() || p.Mass() > p.InitMass() {
				t.Fatalf("frame %d: mass %v outside [%v, %v]", frame, p.Mass(), p.MinMass(), p.InitMass())
			}
			if p.Destroyed() {
				t.Fatalf("frame %d: destroyed planet %d still in world", frame, p.ID())
			}
			if gone[p.ID()] {
				t.Fatalf("frame %d: planet %d came back", frame, p.ID())
			}
			alive[p.ID()] = true
			seen[p.ID()] = true
		}
		for id := range seen {
			if !alive[id] {
				gone[id] = true
			}
		}
		for _, s := range w.Satellites() {
			if w.Host(s) == nil {
				t.Fatalf("frame %d: satellite %d has no host", frame, s.ID())
			}
		}
	}
}

func TestPopulate(t *testing.T) {
	cfg := testConfig()
	cfg.InitialPlanets = 3
	cfg.InitialSatellites = 12
	w := NewWorld(cfg)
	w.Populate()

	if len(w.Planets()) != 3 {
		t.Fatalf("planets = %d, want 3", len(w.Planets()))
	}
	if len(w.Satellites()) != 12 {
		t.Fatalf("satellites = %d, want 12", len(w.Satellites()))
	}
	for i, p := range w.Planets() {
		if want := 80 + float64(i)*90; p.OrbitRadius() != want {
			t.Errorf("planet %d orbit = %v, want %v", i, p.OrbitRadius(), want)
		}
		if want := 12 + float64(i)*4; p.Size() != want {
			t.Errorf("planet %d size = %v, want %v", i, p.Size(), want)
		}
	}
	st := w.Stats()
	if st.Totals.PlanetsSpawned != 3 || st.Totals.SatellitesSpawned != 12 {
		t.Errorf("totals = %+v", st.Totals)
	}
}

func TestSetConfigKeepsSeedAndRecenters(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(cfg)

	next := cfg
	next.Seed = 7
	next.Width = 2000
	next.Height = 1000
	next.RequiredHits = 9
	w.SetConfig(next)

	if w.Config().Seed != cfg.Seed {
		t.Errorf("Seed = %d, want %d", w.Config().Seed, cfg.Seed)
	}
	if w.Config().RequiredHits != 9 {
		t.Errorf("RequiredHits = %d, want 9", w.Config().RequiredHits)
	}
	if w.Center() != (Vec2{1000, 500}) {
		t.Errorf("Center = %v, want (1000, 500)", w.Center())
	}
}
