package antenna

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// NewLimitSwitch requests chip/offset as an input line with both-edge
// event detection and keeps a LimitSwitch's tripped flag in sync with the
// physical switch for the lifetime of the returned watcher. activeLow
// inverts the GPIO idle level, matching a normally-closed switch wired to
// ground.
func NewLimitSwitch(chip string, offset int, activeLow bool) (*LimitSwitch, *gpiocdev.Line, error) {
	sw := &LimitSwitch{}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			sw.set(evt.Type == gpiocdev.LineEventRisingEdge != activeLow)
		}),
	}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("antenna: request gpio line %s:%d: %w", chip, offset, err)
	}

	val, err := line.Value()
	if err != nil {
		line.Close()
		return nil, nil, fmt.Errorf("antenna: read initial gpio value %s:%d: %w", chip, offset, err)
	}
	sw.set(val != 0)

	return sw, line, nil
}
