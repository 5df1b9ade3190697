// Package telemetry defines the wire message published for every
// recovered frame payload during a pass.
package telemetry

import (
	"encoding/json"
	"time"
)

// Message is published to satellite/{sat_id}/telemetry, non-retained, for
// each frame payload the bit→frame task recovers.
type Message struct {
	GroundStationID string    `json:"ground_station_id"`
	TimestampUTC    time.Time `json:"timestamp"`
	PayloadBytes    []byte    `json:"payload"`
}

// Topic returns the publish topic for satelliteID.
func Topic(satelliteID string) string {
	return "satellite/" + satelliteID + "/telemetry"
}

// Marshal encodes m as the UTF-8 JSON the broker topic carries.
func (m Message) Marshal() ([]byte, error) {
	return json.Marshal(m)
}
