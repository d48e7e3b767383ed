// Package broker runs an in-process MQTT broker for local development, so the
// publisher and the dashboard can be tried without a hosted broker.
package broker

import (
	"crypto/tls"
	"errors"
	"fmt"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
)

var ErrNoAddress = errors.New("broker listen address is empty")

// Options configure the development broker. With an empty Username every
// client is accepted; otherwise only that username/password pair is.
type Options struct {
	Address  string
	Username string
	Password string
	CertFile string
	KeyFile  string
}

// New builds a broker with a single TCP listener (TLS when a certificate is
// given). Call Serve to start it and Close to stop it.
func New(o Options) (*mochi.Server, error) {
	if o.Address == "" {
		return nil, ErrNoAddress
	}
	server := mochi.New(nil)

	if err := addAuth(server, o); err != nil {
		return nil, err
	}

	lc := listeners.Config{Type: "tcp", ID: "tcp", Address: o.Address}
	if o.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(o.CertFile, o.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load broker certificate: %w", err)
		}
		lc.ID = "tls"
		lc.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
	}
	if err := server.AddListener(listeners.NewTCP(lc)); err != nil {
		return nil, fmt.Errorf("add listener: %w", err)
	}
	return server, nil
}

func addAuth(server *mochi.Server, o Options) error {
	if o.Username == "" {
		if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
			return fmt.Errorf("add allow hook: %w", err)
		}
		return nil
	}
	ledger := &auth.Ledger{
		Auth: auth.AuthRules{
			{
				Username: auth.RString(o.Username),
				Password: auth.RString(o.Password),
				Allow:    true,
			},
		},
	}
	if err := server.AddHook(new(auth.Hook), &auth.Options{Ledger: ledger}); err != nil {
		return fmt.Errorf("add auth hook: %w", err)
	}
	return nil
}
