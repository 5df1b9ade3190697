// Package tuner drives an external radio transceiver to a job's receive
// and transmit frequencies at pass start. It is a narrow capability so a
// station with a fixed-tuned receiver chain can run with the no-op
// implementation instead of a controllable rig.
package tuner

import (
	"context"
	"fmt"
)

// Target is the frequency pair a Tuner is asked to reach.
type Target struct {
	RxHz uint64
	TxHz uint64
}

// Tuner commands an external rig to a Target. Implementations are not
// expected to retry internally; the caller treats a returned error as
// TransientIO and continues the pass without retuning the rig.
type Tuner interface {
	Tune(ctx context.Context, target Target) error
}

// NoOp is a Tuner for stations without a controllable rig: it always
// succeeds without doing anything, so the orchestrator's control flow does
// not change shape based on whether rig control hardware is present.
type NoOp struct{}

// Tune implements Tuner.
func (NoOp) Tune(context.Context, Target) error { return nil }

var _ Tuner = NoOp{}

// tuneError wraps a failure from the underlying rig-control backend.
func tuneError(op string, err error) error {
	return fmt.Errorf("tuner: %s: %w", op, err)
}
