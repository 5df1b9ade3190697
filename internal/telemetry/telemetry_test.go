package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicFormat(t *testing.T) {
	assert.Equal(t, "satellite/iss/telemetry", Topic("iss"))
}

func TestMarshalRoundTrip(t *testing.T) {
	ts := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	m := Message{GroundStationID: "gs-1", TimestampUTC: ts, PayloadBytes: []byte{0x01, 0x02, 0x03}}

	b, err := m.Marshal()
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, m.GroundStationID, got.GroundStationID)
	assert.True(t, m.TimestampUTC.Equal(got.TimestampUTC))
	assert.Equal(t, m.PayloadBytes, got.PayloadBytes)
}
