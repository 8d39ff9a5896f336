package sim

// Totals are cumulative counters since the world was created.
type Totals struct {
	PlanetsSpawned       int `toml:"planets_spawned"`
	SatellitesSpawned    int `toml:"satellites_spawned"`
	Impacts              int `toml:"impacts"`
	CratersCreated       int `toml:"craters_created"`
	CratersMerged        int `toml:"craters_merged"`
	PlanetCollisions     int `toml:"planet_collisions"`
	PlanetsDestroyed     int `toml:"planets_destroyed"`
	SatellitesLost       int `toml:"satellites_lost"`
	SatellitesReassigned int `toml:"satellites_reassigned"`
	Explosions           int `toml:"explosions"`
}

// Stats is a snapshot of the world.
type Stats struct {
	Frame      int    `toml:"frame"`
	Planets    int    `toml:"planets"`
	Satellites int    `toml:"satellites"`
	Explosions int    `toml:"explosions"`
	Particles  int    `toml:"particles"`
	Craters    int    `toml:"craters"`
	Totals     Totals `toml:"totals"`
}

// Stats returns a snapshot of the current counts and cumulative totals.
func (w *World) Stats() Stats {
	st := Stats{
		Frame:      w.frame,
		Planets:    len(w.planets),
		Satellites: len(w.satellites),
		Explosions: len(w.explosions),
		Totals:     w.totals,
	}
	for _, e := range w.explosions {
		st.Particles += len(e.particles)
	}
	for _, p := range w.planets {
		st.Craters += p.craters.Len()
	}
	return st
}
