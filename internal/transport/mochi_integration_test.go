package transport

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/stretchr/testify/require"

	"picow_telemetry/internal/logger"
)

const (
	mochiUserName = "picow"
	mochiPassword = "pineapple"
	testTopic     = "picow/temperature"
)

type recordingObserver struct {
	mu         sync.Mutex
	connected  int
	errs       []error
	connErrSig chan struct{}
	once       sync.Once
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{connErrSig: make(chan struct{})}
}

func (o *recordingObserver) OnConnected(string) {
	o.mu.Lock()
	o.connected++
	o.mu.Unlock()
}

func (o *recordingObserver) OnConnectError(err error) {
	o.mu.Lock()
	o.errs = append(o.errs, err)
	o.mu.Unlock()
	o.once.Do(func() { close(o.connErrSig) })
}

func (o *recordingObserver) OnDisconnected(string) {}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func startMochi(t *testing.T) int {
	t.Helper()
	ledger := &auth.Ledger{
		Auth: auth.AuthRules{
			{
				Username: auth.RString(mochiUserName),
				Password: auth.RString(mochiPassword),
				Allow:    true,
			},
		},
	}
	server := mochi.New(nil)
	require.NoError(t, server.AddHook(new(auth.Hook), &auth.Options{Ledger: ledger}))

	port := freePort(t)
	tcp := listeners.NewTCP(listeners.Config{
		Type:    "tcp",
		ID:      "t1",
		Address: net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
	})
	require.NoError(t, server.AddListener(tcp))
	require.NoError(t, server.Serve())
	t.Cleanup(func() { _ = server.Close() })
	return port
}

func testSettings(port int, clientID string) Settings {
	return Settings{
		Broker:         "127.0.0.1",
		Port:           port,
		ClientID:       clientID,
		Username:       mochiUserName,
		Password:       mochiPassword,
		QoS:            1,
		KeepAlive:      30 * time.Second,
		ConnectTimeout: 5 * time.Second,
	}
}

func TestSubscribePublishWithMochi(t *testing.T) {
	port := startMochi(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	received := make(chan Message, 4)
	obs := newRecordingObserver()
	sub := NewSubscriber(testSettings(port, "dashboard-test"), testTopic, func(_ context.Context, m Message) {
		received <- m
	}, obs, logger.Nop())
	require.NoError(t, sub.Start(ctx))
	t.Cleanup(func() { _ = sub.Close() })

	select {
	case <-sub.Subscribed():
	case <-ctx.Done():
		t.Fatal("subscription not established")
	}

	pub := NewPublisher(testSettings(port, "publisher-test"), testTopic, nil, logger.Nop())
	require.NoError(t, pub.Start(ctx))
	t.Cleanup(func() { _ = pub.Close() })

	for _, p := range []string{"21.5", "21.7"} {
		require.NoError(t, pub.Publish(ctx, []byte(p)))
	}

	for _, want := range []string{"21.5", "21.7"} {
		select {
		case m := <-received:
			require.Equal(t, testTopic, m.Topic)
			require.Equal(t, want, string(m.Payload))
			require.False(t, m.ReceivedAt.IsZero())
		case <-ctx.Done():
			t.Fatalf("message %s not delivered", want)
		}
	}

	obs.mu.Lock()
	require.GreaterOrEqual(t, obs.connected, 1)
	obs.mu.Unlock()
}

func TestSubscriberReportsRejectedCredentials(t *testing.T) {
	port := startMochi(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	s := testSettings(port, "dashboard-bad")
	s.Password = "wrong"
	obs := newRecordingObserver()
	sub := NewSubscriber(s, testTopic, func(context.Context, Message) {}, obs, logger.Nop())
	require.NoError(t, sub.Start(ctx))
	t.Cleanup(func() { _ = sub.Close() })

	select {
	case <-obs.connErrSig:
	case <-ctx.Done():
		t.Fatal("connect error not reported")
	}
	obs.mu.Lock()
	require.NotEmpty(t, obs.errs)
	require.Zero(t, obs.connected)
	obs.mu.Unlock()
}

func TestPublishBeforeStart(t *testing.T) {
	pub := NewPublisher(testSettings(1, "x"), testTopic, nil, logger.Nop())
	require.ErrorIs(t, pub.Publish(context.Background(), []byte("1")), ErrNotStarted)
}
