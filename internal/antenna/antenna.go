// Package antenna drives the ground station's rotator: a narrow sink that
// accepts azimuth/elevation pointing updates, applies per-station
// calibration, and reports mechanical or I/O failures as transient so the
// tracking task can keep running with degraded pointing.
package antenna

import (
	"context"
	"fmt"
)

// Sink is the capability the pass orchestrator's tracking task points at.
// A failed Send is treated as TransientIO by the caller: logged, skipped,
// and the pass continues.
type Sink interface {
	Send(ctx context.Context, azimuthDeg, elevationDeg float64) error
}

// Calibration is the per-station mechanical offset and travel-limit data
// applied to every pointing update before it reaches the wire.
type Calibration struct {
	AzOffsetDeg float64 `yaml:"az_offset_deg"`
	ElOffsetDeg float64 `yaml:"el_offset_deg"`
	AzMinDeg    float64 `yaml:"az_min_deg"`
	AzMaxDeg    float64 `yaml:"az_max_deg"`
	ElMinDeg    float64 `yaml:"el_min_deg"`
	ElMaxDeg    float64 `yaml:"el_max_deg"`
}

// Apply translates a tracker-computed look angle into the rotator's
// physical frame: offset, then clamp to the configured travel limits.
func (c Calibration) Apply(azimuthDeg, elevationDeg float64) (az, el float64) {
	az = clamp(azimuthDeg+c.AzOffsetDeg, c.AzMinDeg, c.AzMaxDeg)
	el = clamp(elevationDeg+c.ElOffsetDeg, c.ElMinDeg, c.ElMaxDeg)
	return az, el
}

func clamp(v, min, max float64) float64 {
	if min == 0 && max == 0 {
		return v // unconfigured limits: pass through unclamped
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ErrLimitTripped is returned by a Sink when a configured limit switch is
// tripped at send time.
var ErrLimitTripped = fmt.Errorf("antenna: rotator limit switch tripped")

// NoOp is a Sink for stations without a controllable rotator: every send
// succeeds without doing anything, so the tracking task's control flow
// does not change shape based on whether rotator hardware is present.
type NoOp struct{}

// Send implements Sink.
func (NoOp) Send(context.Context, float64, float64) error { return nil }

var _ Sink = NoOp{}
