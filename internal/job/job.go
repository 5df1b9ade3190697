// Package job defines the tracking job model and its lifecycle state
// machine: the data a pass is executed from, and the status variants
// published as each job moves from ingress through a completed pass.
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// tleLineLen is the fixed length a valid TLE line must have.
const tleLineLen = 69

// ErrInvalidTLE is returned when a TLE line is not exactly 69 characters.
var ErrInvalidTLE = errors.New("job: TLE line must be 69 characters")

// ErrEndBeforeStart is returned when a job's end instant does not strictly
// follow its start instant.
var ErrEndBeforeStart = errors.New("job: end must be strictly after start")

// ErrStartInPast is returned when a job's start instant has already passed
// at validation time.
var ErrStartInPast = errors.New("job: start must be strictly in the future")

// TLE is a two-line element set plus its common name.
type TLE struct {
	Name  string `json:"tle0"`
	Line1 string `json:"tle1"`
	Line2 string `json:"tle2"`
}

// Validate checks that both element lines have the fixed TLE line length.
func (t TLE) Validate() error {
	if len(t.Line1) != tleLineLen {
		return fmt.Errorf("%w: tle1 has length %d", ErrInvalidTLE, len(t.Line1))
	}
	if len(t.Line2) != tleLineLen {
		return fmt.Errorf("%w: tle2 has length %d", ErrInvalidTLE, len(t.Line2))
	}
	return nil
}

// Job is a single tracking request: a time window, a target satellite, its
// orbital elements, and the frequencies to receive and transmit on.
type Job struct {
	ID          uuid.UUID `json:"id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	SatelliteID string    `json:"satellite_id"`
	TLE         TLE       `json:"tle"`
	RxFrequency uint64    `json:"rx_frequency"`
	TxFrequency uint64    `json:"tx_frequency"`
}

// Validate enforces the job's ingress-time invariants: a well-formed TLE, a
// start strictly before end, and a start strictly in the future.
func (j Job) Validate(now time.Time) error {
	if err := j.TLE.Validate(); err != nil {
		return err
	}
	if !j.Start.Before(j.End) {
		return ErrEndBeforeStart
	}
	if !j.Start.After(now) {
		return ErrStartInPast
	}
	return nil
}

// Status is the job lifecycle sum type. The zero value is not a valid
// status; use the exported constants.
type Status int

const (
	// Received marks successful ingress, before scheduling is attempted.
	Received Status = iota + 1
	// Scheduled marks acceptance into the scheduler's pending slot.
	Scheduled
	// Started marks the orchestrator beginning the pass at AOS.
	Started
	// Completed marks a pass that ran to LOS without a fatal failure.
	Completed
	// Error marks a terminal failure at any stage of the job's lifecycle.
	Error
)

// String renders the status the way it appears on the wire.
func (s Status) String() string {
	switch s {
	case Received:
		return "Received"
	case Scheduled:
		return "Scheduled"
	case Started:
		return "Started"
	case Completed:
		return "Completed"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the status as its wire string.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses a status from its wire string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, v := range []Status{Received, Scheduled, Started, Completed, Error} {
		if v.String() == name {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("job: unknown status %q", name)
}

// StatusMessage is the payload published to a job's retained status topic.
type StatusMessage struct {
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
}

// Marshal encodes m as the UTF-8 JSON a status topic message carries.
func (m StatusMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// IsTerminal reports whether s ends a job's lifecycle.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Error
}

// StatusTopic returns the retained status topic for a job id.
func StatusTopic(id uuid.UUID) string {
	return "job/" + id.String()
}

// IngressTopic returns the station's broker job-submission topic.
func IngressTopic(stationID string) string {
	return "gs/" + stationID + "/jobs"
}
