// Package tracker wraps an external orbital propagator behind a narrow
// interface: given an observer location and a satellite's orbital
// elements, it yields the satellite's azimuth and elevation at a given
// instant. TLE parsing and SGP4 propagation are external collaborators;
// this package only adapts their output into the shape the pass
// orchestrator needs.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/geo/s2"
)

// Observer is the ground station's location.
type Observer struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64
}

// LatLng converts the observer's location into an s2.LatLng for bearing
// math.
func (o Observer) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(o.LatitudeDeg, o.LongitudeDeg)
}

// Observation is a predicted look angle at one instant.
type Observation struct {
	AzimuthDeg   float64
	ElevationDeg float64
}

// Elements is an opaque orbital-element set produced by parsing a TLE. The
// propagator backing Propagator.Observe is the only code that inspects
// its fields.
type Elements struct {
	Name  string
	Line1 string
	Line2 string
}

// Propagator is the external collaborator this package wraps: an SGP4-style
// orbit predictor capable of computing az/el for a given observer, a given
// element set, and a given instant. Production wiring supplies an adapter
// over a real propagation library; tests supply a deterministic stub.
type Propagator interface {
	// Observe returns the look angle of the satellite described by
	// elements, as seen by observer, at the instant at.
	Observe(observer Observer, elements Elements, at time.Time) (Observation, error)
}

// Tracker is immutable after construction: one observer, one element set,
// bound to a single Propagator.
type Tracker struct {
	propagator Propagator
	observer   Observer
	elements   Elements
}

// New constructs a Tracker. It does not itself validate the element set;
// a Propagator that rejects malformed elements reports that on the first
// Track call.
func New(propagator Propagator, observer Observer, elements Elements) *Tracker {
	return &Tracker{propagator: propagator, observer: observer, elements: elements}
}

// Track returns the satellite's look angle at the instant at.
func (t *Tracker) Track(at time.Time) (Observation, error) {
	obs, err := t.propagator.Observe(t.observer, t.elements, at)
	if err != nil {
		return Observation{}, fmt.Errorf("tracker: observe: %w", err)
	}
	return obs, nil
}

// ErrNoPropagator is returned by Unconfigured, and by extension surfaces
// through Tracker.Track wrapped, when a station has not wired in an
// external orbit predictor.
var ErrNoPropagator = errors.New("tracker: no propagator configured")

// Unconfigured is a Propagator placeholder for stations that have not
// wired in a real orbit predictor: it fails every Observe call, so a
// missing binding surfaces as the pass's fatal tracker error rather than
// silently pointing the antenna at a fixed angle.
type Unconfigured struct{}

// Observe implements Propagator.
func (Unconfigured) Observe(Observer, Elements, time.Time) (Observation, error) {
	return Observation{}, ErrNoPropagator
}

var _ Propagator = Unconfigured{}
