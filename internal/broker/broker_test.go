package broker

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/transport"
)

func freeAddr(t *testing.T) (string, int) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), port
}

func TestNew_RequiresAddress(t *testing.T) {
	_, err := New(Options{})
	require.ErrorIs(t, err, ErrNoAddress)
}

func TestNew_MissingCertificate(t *testing.T) {
	addr, _ := freeAddr(t)
	_, err := New(Options{Address: addr, CertFile: "/nope/cert.pem", KeyFile: "/nope/key.pem"})
	require.Error(t, err)
}

func TestBroker_RoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		opts     func(addr string) Options
		username string
		password string
	}{
		{
			name:     "open",
			opts:     func(addr string) Options { return Options{Address: addr} },
			username: "",
		},
		{
			name:     "ledger",
			opts:     func(addr string) Options { return Options{Address: addr, Username: "picow", Password: "s3cret"} },
			username: "picow",
			password: "s3cret",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			addr, port := freeAddr(t)
			srv, err := New(tc.opts(addr))
			require.NoError(t, err)
			require.NoError(t, srv.Serve())
			t.Cleanup(func() { _ = srv.Close() })

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			settings := transport.Settings{
				Broker:         "127.0.0.1",
				Port:           port,
				Username:       tc.username,
				Password:       tc.password,
				QoS:            1,
				KeepAlive:      30 * time.Second,
				ConnectTimeout: 5 * time.Second,
			}

			got := make(chan string, 1)
			subSettings := settings
			subSettings.ClientID = "sub-" + tc.name
			sub := transport.NewSubscriber(subSettings, "picow/temperature", func(_ context.Context, m transport.Message) {
				got <- string(m.Payload)
			}, nil, logger.Nop())
			require.NoError(t, sub.Start(ctx))
			t.Cleanup(func() { _ = sub.Close() })

			select {
			case <-sub.Subscribed():
			case <-ctx.Done():
				t.Fatal("subscription not established")
			}

			pubSettings := settings
			pubSettings.ClientID = "pub-" + tc.name
			pub := transport.NewPublisher(pubSettings, "picow/temperature", nil, logger.Nop())
			require.NoError(t, pub.Start(ctx))
			t.Cleanup(func() { _ = pub.Close() })
			require.NoError(t, pub.Publish(ctx, []byte("22.25")))

			select {
			case v := <-got:
				require.Equal(t, "22.25", v)
			case <-ctx.Done():
				t.Fatal("message not delivered")
			}
		})
	}
}
