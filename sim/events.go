package sim

import (
	"fmt"
	"image/color"
	"log"
)

// EventKind identifies what happened in the world.
type EventKind int

const (
	EventPlanetSpawned EventKind = iota
	EventSatelliteSpawned
	EventSatelliteImpact   // a satellite struck a planet
	EventPlanetsCollided   // two planets touched and were both destroyed
	EventPlanetDestroyed   // a planet was removed from the world
	EventSatelliteDebris   // an orphaned satellite burst into debris
	EventSatelliteReassign // an orphaned satellite moved to another host
	EventExplosionSpawned
)

var eventNames = [...]string{
	EventPlanetSpawned:     "planet-spawned",
	EventSatelliteSpawned:  "satellite-spawned",
	EventSatelliteImpact:   "satellite-impact",
	EventPlanetsCollided:   "planets-collided",
	EventPlanetDestroyed:   "planet-destroyed",
	EventSatelliteDebris:   "satellite-debris",
	EventSatelliteReassign: "satellite-reassign",
	EventExplosionSpawned:  "explosion-spawned",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// Event is published synchronously from inside World.Step or a spawn call.
type Event struct {
	Kind      EventKind
	Frame     int
	Pos       Vec2
	Planet    EntityID
	Other     EntityID // second planet of a collision, or new host of a reassignment
	Satellite EntityID
	Color     color.NRGBA
	// Magnitude is the impact speed for impacts and the particle count for explosions.
	Magnitude float64
}

// Listener receives world events. Listeners run on the simulation
// goroutine and must not call back into the World.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) { f(e) }

// LogListener logs destruction related events.
type LogListener struct {
	Logger *log.Logger
}

// OnEvent implements Listener.
func (l LogListener) OnEvent(e Event) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	switch e.Kind {
	case EventPlanetsCollided:
		logger.Printf("frame %d: planets %d and %d collided at (%.0f, %.0f)", e.Frame, e.Planet, e.Other, e.Pos.X, e.Pos.Y)
	case EventPlanetDestroyed:
		logger.Printf("frame %d: planet %d destroyed at (%.0f, %.0f)", e.Frame, e.Planet, e.Pos.X, e.Pos.Y)
	case EventSatelliteReassign:
		logger.Printf("frame %d: satellite %d reassigned to planet %d", e.Frame, e.Satellite, e.Other)
	}
}
