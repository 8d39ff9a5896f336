package sim

import (
	"errors"
	"fmt"
)

// DeathBehavior selects what happens to satellites whose host planet is destroyed.
type DeathBehavior string

const (
	// DeathDebris turns orphaned satellites into small particle bursts.
	DeathDebris DeathBehavior = "debris"
	// DeathReassign rebinds orphaned satellites to the nearest surviving planet.
	DeathReassign DeathBehavior = "reassign"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config holds the simulation tunables
type Config struct {
	// GM is the gravitational parameter. It scales the mutual pull between
	// planets and the perturbation planets apply to foreign satellites.
	// The default of 800 reproduces the tuned acceleration scales.
	GM float64 `mapstructure:"gm" toml:"gm"`

	// GravitySoftening is added to squared distances in every gravity term
	// so that acceleration stays bounded when two bodies nearly coincide.
	GravitySoftening float64 `mapstructure:"gravity_softening" toml:"gravity_softening"`

	// VelocityDamping multiplies a planet's perturbation velocity every frame.
	VelocityDamping float64 `mapstructure:"velocity_damping" toml:"velocity_damping"`

	// RequiredHits is the number of satellite impacts a planet must take,
	// together with reaching its mass floor, before it is destroyed.
	RequiredHits int `mapstructure:"required_hits" toml:"required_hits"`

	// SatelliteDeathBehavior is either "debris" or "reassign"
	SatelliteDeathBehavior DeathBehavior `mapstructure:"satellite_death_behavior" toml:"satellite_death_behavior"`

	// MinMassRatio is the mass floor as a fraction of a planet's initial mass.
	MinMassRatio float64 `mapstructure:"min_mass_ratio" toml:"min_mass_ratio"`

	// DebrisParticles is the particle count of a satellite debris burst.
	DebrisParticles int `mapstructure:"debris_particles" toml:"debris_particles"`

	// TailLength is the number of past positions each satellite keeps.
	TailLength int `mapstructure:"tail_length" toml:"tail_length"`

	// InitialPlanets is the number of planets Populate creates.
	InitialPlanets int `mapstructure:"initial_planets" toml:"initial_planets"`

	// InitialSatellites is the number of satellites Populate creates.
	InitialSatellites int `mapstructure:"initial_satellites" toml:"initial_satellites"`

	// Width is the viewport width in world units. The gravity center sits
	// at (Width/2, Height/2).
	Width float64 `mapstructure:"width" toml:"width"`

	// Height is the viewport height in world units.
	Height float64 `mapstructure:"height" toml:"height"`

	// Seed seeds the world's random source. Zero picks a time based seed.
	Seed int64 `mapstructure:"seed" toml:"seed"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		GM:                     800,
		GravitySoftening:       100,
		VelocityDamping:        0.98,
		RequiredHits:           5,
		SatelliteDeathBehavior: DeathDebris,
		MinMassRatio:           0.8,
		DebrisParticles:        6,
		TailLength:             16,
		InitialPlanets:         3,
		InitialSatellites:      12,
		Width:                  1024,
		Height:                 614,
		Seed:                   0,
	}
}

// Validate reports the first tunable that would make the simulation unstable.
func (c Config) Validate() error {
	switch {
	case c.GM < 0:
		return fmt.Errorf("%w: gm must not be negative, got %v", ErrInvalidConfig, c.GM)
	case c.GravitySoftening <= 0:
		return fmt.Errorf("%w: gravity_softening must be positive, got %v", ErrInvalidConfig, c.GravitySoftening)
	case c.VelocityDamping <= 0 || c.VelocityDamping > 1:
		return fmt.Errorf("%w: velocity_damping must be in (0,1], got %v", ErrInvalidConfig, c.VelocityDamping)
	case c.RequiredHits < 1:
		return fmt.Errorf("%w: required_hits must be at least 1, got %d", ErrInvalidConfig, c.RequiredHits)
	case c.SatelliteDeathBehavior != DeathDebris && c.SatelliteDeathBehavior != DeathReassign:
		return fmt.Errorf("%w: unknown satellite_death_behavior %q", ErrInvalidConfig, c.SatelliteDeathBehavior)
	case c.MinMassRatio < 0 || c.MinMassRatio > 1:
		return fmt.Errorf("%w: min_mass_ratio must be in [0,1], got %v", ErrInvalidConfig, c.MinMassRatio)
	case c.DebrisParticles < 0 || c.TailLength < 0 || c.InitialPlanets < 0 || c.InitialSatellites < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: width and height must be positive, got %vx%v", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// mutualAccelScale converts planet-planet acceleration into a velocity change.
func (c Config) mutualAccelScale() float64 {
	return c.GM * 1.25e-6
}

// satelliteAccelScale converts foreign-planet acceleration on a satellite.
func (c Config) satelliteAccelScale() float64 {
	return c.GM * 1.125e-6
}
