package tuner

import (
	"context"

	"github.com/xylo04/goHamlib"
)

// HamlibTuner drives a rig over Hamlib's rigctld protocol. The call shape
// mirrors the rig_init/rig_open/rig_set_freq/rig_close sequence used for
// CAT control elsewhere in this codebase's lineage: one VFO is used for
// receive and, when a distinct transmit frequency is given, a second for
// transmit.
type HamlibTuner struct {
	rig *goHamlib.Rig
}

// NewHamlibTuner opens a rig of the given model at device path and returns
// a Tuner backed by it. The caller is responsible for closing the
// returned Tuner's underlying rig on shutdown via Close.
func NewHamlibTuner(model int, device string) (*HamlibTuner, error) {
	rig, err := goHamlib.RigOpen(model, device)
	if err != nil {
		return nil, tuneError("open rig", err)
	}
	return &HamlibTuner{rig: rig}, nil
}

// Tune sets the rig's receive frequency, and its transmit frequency too
// when TxHz is non-zero and differs from RxHz. It does not check whether
// the rig supports split operation; a rig that rejects the transmit VFO
// makes Tune return that error.
func (h *HamlibTuner) Tune(ctx context.Context, target Target) error {
	if err := h.rig.SetFreq(goHamlib.VfoRx, float64(target.RxHz)); err != nil {
		return tuneError("set rx frequency", err)
	}
	if target.TxHz != 0 && target.TxHz != target.RxHz {
		if err := h.rig.SetFreq(goHamlib.VfoTx, float64(target.TxHz)); err != nil {
			return tuneError("set tx frequency", err)
		}
	}
	return nil
}

// Close releases the underlying rig handle.
func (h *HamlibTuner) Close() error {
	return h.rig.Close()
}

var _ Tuner = (*HamlibTuner)(nil)
