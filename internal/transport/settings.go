// Package transport connects the two endpoints to the MQTT broker. Reconnects
// and re-subscription are delegated to paho's autopaho connection manager; the
// rest of the application only ever sees delivered messages.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"picow_telemetry/internal/config"
)

var (
	ErrNoBroker = errors.New("mqtt broker host is empty")
	ErrBadCA    = errors.New("no certificates found in CA file")
)

// Settings are the connection parameters shared by subscriber and publisher.
type Settings struct {
	Broker         string
	Port           int
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	TLS            TLSSettings
}

type TLSSettings struct {
	Enabled            bool
	CAFile             string
	InsecureSkipVerify bool
}

// FromConfig maps configuration onto Settings. An empty client ID is replaced
// by role plus a random suffix so two dashboards never kick each other off.
func FromConfig(c config.MQTTConfig, role string) Settings {
	id := c.ClientID
	if id == "" {
		id = role + "-" + uuid.NewString()[:8]
	}
	return Settings{
		Broker:         c.Broker,
		Port:           c.Port,
		ClientID:       id,
		Username:       c.Username,
		Password:       c.Password,
		QoS:            byte(c.QoS),
		KeepAlive:      c.KeepAlive,
		ConnectTimeout: c.ConnectTimeout,
		TLS: TLSSettings{
			Enabled:            c.TLS.Enabled,
			CAFile:             c.TLS.CAFile,
			InsecureSkipVerify: c.TLS.InsecureSkipVerify,
		},
	}
}

// ServerURL returns mqtts://host:port when TLS is enabled, mqtt://host:port otherwise.
func (s Settings) ServerURL() (*url.URL, error) {
	if s.Broker == "" {
		return nil, ErrNoBroker
	}
	scheme := "mqtt"
	if s.TLS.Enabled {
		scheme = "mqtts"
	}
	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(s.Broker, strconv.Itoa(s.Port)),
	}, nil
}

// keepAliveSeconds clamps the keep-alive to the uint16 range of the CONNECT packet.
func (s Settings) keepAliveSeconds() uint16 {
	secs := int64(s.KeepAlive / time.Second)
	switch {
	case secs <= 0:
		return 60
	case secs > 65535:
		return 65535
	default:
		return uint16(secs)
	}
}

// TLSConfig builds the client TLS configuration; nil when TLS is disabled.
// TLS 1.2 is the floor, matching what the Pico W and the hosted broker negotiate.
func (s Settings) TLSConfig() (*tls.Config, error) {
	if !s.TLS.Enabled {
		return nil, nil
	}
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: s.Broker,
		// #nosec G402 -- opt-in for brokers with self-signed certificates
		InsecureSkipVerify: s.TLS.InsecureSkipVerify,
	}
	if s.TLS.CAFile != "" {
		pem, err := os.ReadFile(s.TLS.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: %s", ErrBadCA, s.TLS.CAFile)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
