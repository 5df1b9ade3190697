// Package broker wraps an MQTT client behind the narrow publish/subscribe
// contract the control plane and pass orchestrator need: connect once,
// publish at-least-once (optionally retained), and subscribe to the job
// ingress topic. The underlying client handle is a thin connection handle
// and is safe to share by value across goroutines, matching paho's own
// concurrency contract.
package broker

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config describes how to reach and authenticate against the broker.
type Config struct {
	Host           string
	Port           int
	Transport      string // "tcp" or "tls"
	ClientID       string
	Username       string
	Password       string
	TimeoutSeconds int
}

// Client is a connected MQTT handle.
type Client struct {
	mqttClient mqtt.Client
	timeout    time.Duration
}

// brokerURL renders cfg's host/port/transport into the URL scheme paho
// expects: "tcp://" for a plain connection, "ssl://" for TLS.
func brokerURL(cfg Config) string {
	scheme := "tcp"
	if cfg.Transport == "tls" {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)
}

// Connect dials the broker described by cfg and blocks until the
// connection completes or the configured timeout elapses.
func Connect(cfg Config) (*Client, error) {
	broker := brokerURL(cfg)

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("broker: connect to %s: timed out after %s", broker, timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("broker: connect to %s: %w", broker, err)
	}

	return &Client{mqttClient: client, timeout: timeout}, nil
}

// Publish sends payload to topic at QoS 1 (at-least-once).
func (c *Client) Publish(topic string, retained bool, payload []byte) error {
	token := c.mqttClient.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("broker: publish %s: timed out after %s", topic, c.timeout)
	}
	return token.Error()
}

// Handler processes one inbound message's raw payload.
type Handler func(payload []byte)

// Subscribe registers handler for topic at QoS 1.
func (c *Client) Subscribe(topic string, handler Handler) error {
	token := c.mqttClient.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("broker: subscribe %s: timed out after %s", topic, c.timeout)
	}
	return token.Error()
}

// Disconnect closes the connection, waiting up to quiesceMillis for
// in-flight work to drain.
func (c *Client) Disconnect(quiesceMillis uint) {
	c.mqttClient.Disconnect(quiesceMillis)
}
