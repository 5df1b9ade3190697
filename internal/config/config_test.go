package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
mqtt:
  host: broker.example.org
  port: 1883
  transport: tcp
  timeout_seconds: 10
ground_station:
  id: gs-1
  location:
    latitude: 51.5
    longitude: -0.1
    altitude: 45
api:
  host: 0.0.0.0
  port: 8080
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "broker.example.org", cfg.MQTT.Host)
	assert.Equal(t, 1883, cfg.MQTT.Port)
	assert.Equal(t, "gs-1", cfg.GroundStation.ID)
	assert.Equal(t, "0.0.0.0:8080", cfg.API.ListenAddress())
	assert.Equal(t, "groundstation-gs-1", cfg.ClientID())
}

func TestLoadIsIdempotent(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  host: ""
  port: 1883
  transport: tcp
ground_station:
  id: gs-1
api:
  host: 0.0.0.0
  port: 8080
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidTransport(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  host: broker.example.org
  port: 1883
  transport: udp
ground_station:
  id: gs-1
api:
  host: 0.0.0.0
  port: 8080
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadParsesOptionalHardwareSections(t *testing.T) {
	path := writeConfig(t, sampleConfig+`
radio:
  hamlib_model: 1035
  device: /dev/ttyUSB0
rotator:
  device: /dev/ttyUSB1
  baud_rate: 9600
  calibration_path: /etc/groundstation/calibration.yaml
  limit_switch:
    chip: gpiochip0
    offset: 17
    active_low: true
audio:
  sample_rate: 48000
  frames_per_buffer: 1024
tracking:
  cadence_seconds: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1035, cfg.Radio.HamlibModel)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Radio.Device)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Rotator.Device)
	assert.Equal(t, 9600, cfg.Rotator.BaudRate)
	require.NotNil(t, cfg.Rotator.LimitSwitch)
	assert.Equal(t, "gpiochip0", cfg.Rotator.LimitSwitch.Chip)
	assert.True(t, cfg.Rotator.LimitSwitch.ActiveLow)
	assert.Equal(t, 48000.0, cfg.Audio.SampleRate)
	assert.Equal(t, 0.5, cfg.Tracking.CadenceSeconds)
}

func TestLoadLeavesOptionalHardwareSectionsZeroWhenOmitted(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.Radio.Device)
	assert.Empty(t, cfg.Rotator.Device)
	assert.Nil(t, cfg.Rotator.LimitSwitch)
	assert.Zero(t, cfg.Audio.SampleRate)
}

func TestEnvOverrideTakesPrecedence(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	t.Setenv("GSCTL_MQTT_HOST", "override.example.org")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override.example.org", cfg.MQTT.Host)
}
