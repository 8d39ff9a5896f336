// Package audio plays synthesized sounds for world events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"orbitfield/sim"
)

const (
	sampleRate = beep.SampleRate(48000)

	explosionDuration = 900 * time.Millisecond
	impactDuration    = 180 * time.Millisecond
	debrisDuration    = 250 * time.Millisecond

	fullExplosionParticles = 48.0

	// maxVoices caps how many one-shot sounds may be queued per world frame.
	maxVoices = 4
)

// SoundManager manages all simulation audio. It implements sim.Listener
// and is safe to call without a working audio device.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	frame  int
	voices int
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// OnEvent implements sim.Listener.
func (sm *SoundManager) OnEvent(e sim.Event) {
	switch e.Kind {
	case sim.EventExplosionSpawned:
		gain, d := ExplosionShape(e.Magnitude)
		sm.play(e.Frame, beep.Take(sampleRate.N(d), NewRumbleGenerator(sampleRate, gain, int64(e.Frame))))
	case sim.EventSatelliteImpact:
		sm.play(e.Frame, beep.Take(sampleRate.N(impactDuration), NewThudGenerator(sampleRate, ImpactPitch(e.Magnitude))))
	}
}

// ExplosionShape maps an explosion's particle count to a gain and a
// duration: small debris bursts are short and quiet.
func ExplosionShape(particles float64) (float64, time.Duration) {
	f := math.Max(0, math.Min(1, particles/fullExplosionParticles))
	gain := 0.3 + 0.7*f
	d := debrisDuration + time.Duration(f*float64(explosionDuration-debrisDuration))
	return gain, d
}

// ImpactPitch maps an impact speed to a thud frequency: faster hits sound higher.
func ImpactPitch(speed float64) float64 {
	return 70 + 40*math.Min(speed, 6)
}

func (sm *SoundManager) play(frame int, s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	if frame != sm.frame {
		sm.frame = frame
		sm.voices = 0
	}
	if sm.voices >= maxVoices {
		return
	}
	sm.voices++

	vol := &effects.Volume{Streamer: s, Base: 2, Volume: -1}
	speaker.Lock()
	sm.mixer.Add(vol)
	speaker.Unlock()
}

// RumbleGenerator generates a decaying noise burst over a low rumble
type RumbleGenerator struct {
	sr    beep.SampleRate
	pos   int
	gain  float64
	seed  int64
	noise float64
}

// NewRumbleGenerator creates a rumble generator. gain scales the output.
func NewRumbleGenerator(sr beep.SampleRate, gain float64, seed int64) *RumbleGenerator {
	return &RumbleGenerator{
		sr:   sr,
		gain: gain,
		seed: seed&0x7fffffff | 1,
	}
}

func (g *RumbleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Quick attack, slow decay
		envelope := math.Min(t/0.01, 1) * math.Exp(-t*4)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		white := float64(g.seed)/float64(0x7fffffff)*2 - 1
		// one pole low-pass for a darker noise
		g.noise += (white - g.noise) * 0.08

		rumble := 0.35 * math.Sin(2*math.Pi*(55-20*t)*t)
		sample := g.gain * envelope * (0.6*g.noise + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *RumbleGenerator) Err() error {
	return nil
}

// ThudGenerator generates a short pitched-down knock
type ThudGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewThudGenerator creates a thud starting at freq Hz.
func NewThudGenerator(sr beep.SampleRate, freq float64) *ThudGenerator {
	return &ThudGenerator{
		sr:   sr,
		freq: freq,
	}
}

func (g *ThudGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 22)
		freq := g.freq * (1 - 0.5*math.Min(t/0.15, 1))
		sample := 0.5 * envelope * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ThudGenerator) Err() error {
	return nil
}
