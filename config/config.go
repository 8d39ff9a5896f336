// Package config loads orbitsim settings from defaults, an optional TOML
// file and ORBITSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"orbitfield/sim"
)

// DefaultFile is the config file looked up in the working directory when
// no explicit path is given.
const DefaultFile = ".orbitsim.toml"

// EnvPrefix prefixes every environment override, e.g. ORBITSIM_SIM_GM.
const EnvPrefix = "ORBITSIM"

// App holds all runtime configuration for an orbitsim session.
type App struct {
	ScreenWidth   int        `mapstructure:"screen_width" toml:"screen_width"`
	ScreenHeight  int        `mapstructure:"screen_height" toml:"screen_height"`
	Audio         bool       `mapstructure:"audio" toml:"audio"`
	Verbose       bool       `mapstructure:"verbose" toml:"verbose"`
	Watch         bool       `mapstructure:"watch" toml:"watch"`
	ProfileOnDrop bool       `mapstructure:"profile_on_drop" toml:"profile_on_drop"`
	Sim           sim.Config `mapstructure:"sim" toml:"sim"`
}

// Default returns the built-in settings.
func Default() App {
	s := sim.DefaultConfig()
	return App{
		ScreenWidth:  int(s.Width),
		ScreenHeight: int(s.Height),
		Audio:        true,
		Sim:          s,
	}
}

// Validate checks the app level settings and the simulation tunables.
func (a App) Validate() error {
	if a.ScreenWidth <= 0 || a.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size must be positive, got %dx%d", sim.ErrInvalidConfig, a.ScreenWidth, a.ScreenHeight)
	}
	return a.Sim.Validate()
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("screen_width", d.ScreenWidth)
	v.SetDefault("screen_height", d.ScreenHeight)
	v.SetDefault("audio", d.Audio)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("profile_on_drop", d.ProfileOnDrop)

	s := d.Sim
	v.SetDefault("sim.gm", s.GM)
	v.SetDefault("sim.gravity_softening", s.GravitySoftening)
	v.SetDefault("sim.velocity_damping", s.VelocityDamping)
	v.SetDefault("sim.required_hits", s.RequiredHits)
	v.SetDefault("sim.satellite_death_behavior", string(s.SatelliteDeathBehavior))
	v.SetDefault("sim.min_mass_ratio", s.MinMassRatio)
	v.SetDefault("sim.debris_particles", s.DebrisParticles)
	v.SetDefault("sim.tail_length", s.TailLength)
	v.SetDefault("sim.initial_planets", s.InitialPlanets)
	v.SetDefault("sim.initial_satellites", s.InitialSatellites)
	v.SetDefault("sim.width", s.Width)
	v.SetDefault("sim.height", s.Height)
	v.SetDefault("sim.seed", s.Seed)
}

// New returns a viper instance with defaults and environment binding set
// up. Callers may bind command line flags to it before calling Decode.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path, or from DefaultFile in the working
// directory when path is empty. A missing default file is not an error.
func Load(path string) (App, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return App{}, err
	}
	return Decode(v)
}

// ReadFile points v at path (or the default file) and reads it.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(strings.TrimSuffix(DefaultFile, ".toml"))
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (App, error) {
	var app App
	if err := v.Unmarshal(&app); err != nil {
		return App{}, fmt.Errorf("decode config: %w", err)
	}
	if err := app.Validate(); err != nil {
		return App{}, err
	}
	return app, nil
}
