package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrokerURLPlainTCP(t *testing.T) {
	got := brokerURL(Config{Host: "mqtt.example.org", Port: 1883, Transport: "tcp"})
	assert.Equal(t, "tcp://mqtt.example.org:1883", got)
}

func TestBrokerURLTLS(t *testing.T) {
	got := brokerURL(Config{Host: "mqtt.example.org", Port: 8883, Transport: "tls"})
	assert.Equal(t, "ssl://mqtt.example.org:8883", got)
}

func TestBrokerURLDefaultsToTCPForUnknownTransport(t *testing.T) {
	got := brokerURL(Config{Host: "h", Port: 1, Transport: ""})
	assert.Equal(t, "tcp://h:1", got)
}
