package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPropagator struct {
	obs Observation
	err error
}

func (s stubPropagator) Observe(Observer, Elements, time.Time) (Observation, error) {
	return s.obs, s.err
}

func TestTrackReturnsPropagatorObservation(t *testing.T) {
	want := Observation{AzimuthDeg: 123.4, ElevationDeg: 45.6}
	tr := New(stubPropagator{obs: want}, Observer{LatitudeDeg: 51.5}, Elements{Name: "ISS"})

	got, err := tr.Track(time.Now())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTrackWrapsPropagatorError(t *testing.T) {
	boom := errors.New("boom")
	tr := New(stubPropagator{err: boom}, Observer{}, Elements{})

	_, err := tr.Track(time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestUnconfiguredAlwaysFails(t *testing.T) {
	_, err := Unconfigured{}.Observe(Observer{}, Elements{}, time.Now())
	assert.ErrorIs(t, err, ErrNoPropagator)
}

func TestObserverLatLngRoundTrip(t *testing.T) {
	o := Observer{LatitudeDeg: 51.477928, LongitudeDeg: -0.001545, AltitudeM: 45}
	ll := o.LatLng()
	assert.InDelta(t, 51.477928, ll.Lat.Degrees(), 1e-6)
	assert.InDelta(t, -0.001545, ll.Lng.Degrees(), 1e-6)
}
