package sim

import (
	"math"
	"slices"
)

// Impact tuning.
const (
	erosionPerSize     = 8.0
	minCraterSize      = 4.0
	craterPerSize      = 2.0
	craterPerSpeed     = 30.0
	depthSpeedDivisor  = 6.0
	satelliteHitFactor = 0.5 // fraction of the satellite size added to the planet radius
)

// circlesTouch reports whether two circles overlap or touch.
func circlesTouch(a Vec2, ra float64, b Vec2, rb float64) bool {
	return a.Dist(b) <= ra+rb
}

// detectPlanetCollisions destroys every pair of touching planets and
// spawns one explosion at the pair's midpoint. Both planets are flagged so
// resolveDestruction does not explode them a second time.
func (w *World) detectPlanetCollisions() {
	for i := 0; i < len(w.planets); i++ {
		for j := i + 1; j < len(w.planets); j++ {
			a, b := w.planets[i], w.planets[j]
			if a.destroyed || b.destroyed {
				continue
			}
			if !circlesTouch(a.pos, a.Radius(), b.pos, b.Radius()) {
				continue
			}
			mid := a.pos.Lerp(b.pos, 0.5)
			col := BlendColors(a.color, b.color, 0.5)
			w.spawnExplosion(mid, col, RandomBurst)

			a.markDestroyed()
			a.skipExplosion = true
			b.markDestroyed()
			b.skipExplosion = true
			w.totals.PlanetCollisions++
			w.emit(Event{Kind: EventPlanetsCollided, Pos: mid, Planet: a.id, Other: b.id, Color: col})
		}
	}
}

// detectSatelliteImpacts tests each satellite against every planet in
// world order. The first planet hit takes the impact; the satellite is
// removed and scanning moves on to the next satellite.
func (w *World) detectSatelliteImpacts() {
	for i := len(w.satellites) - 1; i >= 0; i-- {
		s := w.satellites[i]
		for _, p := range w.planets {
			if !circlesTouch(s.pos, s.size*satelliteHitFactor, p.pos, p.Radius()) {
				continue
			}
			w.applyImpact(p, s)
			w.satellites = slices.Delete(w.satellites, i, i+1)
			break
		}
	}
}

// applyImpact erodes p, counts the hit, carves a crater and decides whether
// p is now destroyed.
func (w *World) applyImpact(p *Planet, s *Satellite) {
	p.Erode(math.Min(s.size*erosionPerSize, p.maxErosionPerHit(w.cfg.RequiredHits)))
	p.hitCount++

	speed := s.ImpactSpeed()
	size := math.Max(minCraterSize, math.Max(s.size*craterPerSize, speed*craterPerSpeed))
	depth := math.Min(1, speed/depthSpeedDivisor)
	before := p.craters.Len()
	p.AddCrater(s.pos, size, depth)
	if p.craters.Len() > before {
		w.totals.CratersCreated++
	} else {
		w.totals.CratersMerged++
	}

	if p.depleted(w.cfg.RequiredHits) {
		p.markDestroyed()
	}
	w.totals.Impacts++
	w.emit(Event{Kind: EventSatelliteImpact, Pos: s.pos, Planet: p.id, Satellite: s.id, Color: p.color, Magnitude: speed})
}
