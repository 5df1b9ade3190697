package antenna

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/term"
)

// SerialSink drives a rotator controller over a serial port using the
// GS-232-style "W az el\n" pointing command, the most common wire format
// for amateur az/el rotator controllers. Calibration is applied before
// each send. When a limitSwitch is configured, a tripped switch makes
// Send fail with ErrLimitTripped without touching the serial port.
type SerialSink struct {
	port        *term.Term
	calibration Calibration
	limitSwitch *LimitSwitch

	mu sync.Mutex
}

// OpenSerialSink opens device at baud and returns a SerialSink. baud of 0
// leaves the port's existing speed alone, matching the teacher serial
// port's "leave it alone" convention.
func OpenSerialSink(device string, baud int, calibration Calibration, limitSwitch *LimitSwitch) (*SerialSink, error) {
	port, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("antenna: open serial port %s: %w", device, err)
	}
	if baud != 0 {
		if err := port.SetSpeed(baud); err != nil {
			port.Close()
			return nil, fmt.Errorf("antenna: set serial speed %d: %w", baud, err)
		}
	}
	return &SerialSink{port: port, calibration: calibration, limitSwitch: limitSwitch}, nil
}

// Send implements Sink.
func (s *SerialSink) Send(ctx context.Context, azimuthDeg, elevationDeg float64) error {
	if s.limitSwitch != nil && s.limitSwitch.Tripped() {
		return ErrLimitTripped
	}

	az, el := s.calibration.Apply(azimuthDeg, elevationDeg)
	cmd := fmt.Sprintf("W %03.0f %03.0f\n", az, el)

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.port.Write([]byte(cmd))
	if err != nil {
		return fmt.Errorf("antenna: serial write: %w", err)
	}
	if n != len(cmd) {
		return fmt.Errorf("antenna: serial write: wrote %d of %d bytes", n, len(cmd))
	}
	return nil
}

// Close releases the underlying serial port.
func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.port.Close()
	return nil
}

var _ Sink = (*SerialSink)(nil)

// LimitSwitch tracks a GPIO-backed mechanical limit switch's tripped
// state, updated by a background watcher (see limitswitch.go) and read
// without blocking from the send path.
type LimitSwitch struct {
	tripped atomic.Bool
}

// Tripped reports the limit switch's last-observed state.
func (l *LimitSwitch) Tripped() bool {
	return l.tripped.Load()
}

func (l *LimitSwitch) set(v bool) {
	l.tripped.Store(v)
}
