// Package config loads the station's configuration from a YAML file
// merged with environment overrides under a single uppercase prefix,
// matching the contract every other component is built against:
// mqtt.*, ground_station.*, api.* sections, all required.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the single uppercase prefix environment overrides use;
// nested keys are joined with underscores, e.g. GSCTL_MQTT_HOST.
const envPrefix = "GSCTL"

// MQTT holds the broker connection section.
type MQTT struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Transport      string `mapstructure:"transport"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Auth           *struct {
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"auth"`
}

// Location is the ground station's geographic position.
type Location struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Altitude  float64 `mapstructure:"altitude"`
}

// GroundStation holds station identity and location.
type GroundStation struct {
	ID       string   `mapstructure:"id"`
	Location Location `mapstructure:"location"`
}

// API holds the HTTP control server's bind address.
type API struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Radio describes the Hamlib-controlled rig to tune at pass start. A zero
// value (empty Device) means the station has no controllable rig and
// runs with tuner.NoOp.
type Radio struct {
	HamlibModel int    `mapstructure:"hamlib_model"`
	Device      string `mapstructure:"device"`
}

// GPIOLimitSwitch describes the rotator's travel-limit safety input. A
// zero value (empty Chip) means no limit switch is wired.
type GPIOLimitSwitch struct {
	Chip      string `mapstructure:"chip"`
	Offset    int    `mapstructure:"offset"`
	ActiveLow bool   `mapstructure:"active_low"`
}

// Rotator describes the serial-controlled antenna rotator. A zero value
// (empty Device) means the station has no controllable rotator.
type Rotator struct {
	Device          string           `mapstructure:"device"`
	BaudRate        int              `mapstructure:"baud_rate"`
	CalibrationPath string           `mapstructure:"calibration_path"`
	LimitSwitch     *GPIOLimitSwitch `mapstructure:"limit_switch"`
}

// Audio describes the sound-card sample source feeding the demodulator.
// A zero value (SampleRate of 0) means the station has no audio input
// wired and runs without a bit→frame pipeline.
type Audio struct {
	SampleRate      float64 `mapstructure:"sample_rate"`
	FramesPerBuffer int     `mapstructure:"frames_per_buffer"`
}

// Tracking holds the pass orchestrator's tuning knobs.
type Tracking struct {
	CadenceSeconds float64 `mapstructure:"cadence_seconds"`
}

// StationConfig is the fully loaded and validated station configuration.
type StationConfig struct {
	MQTT          MQTT          `mapstructure:"mqtt"`
	GroundStation GroundStation `mapstructure:"ground_station"`
	API           API           `mapstructure:"api"`
	Radio         Radio         `mapstructure:"radio"`
	Rotator       Rotator       `mapstructure:"rotator"`
	Audio         Audio         `mapstructure:"audio"`
	Tracking      Tracking      `mapstructure:"tracking"`
}

// ClientID derives the MQTT client id from the station id, since one
// physical station should present a stable, unique identity to the
// broker across reconnects.
func (c StationConfig) ClientID() string {
	return "groundstation-" + c.GroundStation.ID
}

// ListenAddress is the address the HTTP control server binds.
func (c API) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads path (a YAML file) and overlays environment variables under
// the GSCTL_ prefix, then validates the result.
func Load(path string) (StationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return StationConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg StationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return StationConfig{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return StationConfig{}, err
	}
	return cfg, nil
}

// Validate enforces that mqtt.host, mqtt.port, ground_station.id,
// api.host and api.port are set and that mqtt.transport is tcp or tls.
// mqtt.timeout_seconds and ground_station.location are not checked: a
// zero timeout is accepted, and a missing location loads as 0, 0, 0.
func (c StationConfig) Validate() error {
	if c.MQTT.Host == "" {
		return fmt.Errorf("config: mqtt.host is required")
	}
	if c.MQTT.Port == 0 {
		return fmt.Errorf("config: mqtt.port is required")
	}
	switch c.MQTT.Transport {
	case "tcp", "tls":
	default:
		return fmt.Errorf("config: mqtt.transport must be tcp or tls, got %q", c.MQTT.Transport)
	}
	if c.GroundStation.ID == "" {
		return fmt.Errorf("config: ground_station.id is required")
	}
	if c.API.Host == "" {
		return fmt.Errorf("config: api.host is required")
	}
	if c.API.Port == 0 {
		return fmt.Errorf("config: api.port is required")
	}
	return nil
}
