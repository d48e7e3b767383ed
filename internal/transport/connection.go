package transport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"picow_telemetry/internal/logger"
)

// Message is a delivered telemetry message.
type Message struct {
	Topic      string
	Payload    []byte
	ReceivedAt time.Time
}

// Handler receives messages on the transport's delivery goroutine. It must
// not block for long.
type Handler func(ctx context.Context, msg Message)

// Observer is told about connection lifecycle changes.
type Observer interface {
	OnConnected(broker string)
	OnConnectError(err error)
	OnDisconnected(reason string)
}

type nopObserver struct{}

func (nopObserver) OnConnected(string) {}
func (nopObserver) OnConnectError(error) {}
func (nopObserver) OnDisconnected(string) {}

const disconnectTimeout = 5 * time.Second

// connectionConfig assembles the autopaho configuration common to both roles.
func connectionConfig(
	s Settings,
	obs Observer,
	log *logger.Logger,
	onUp func(*autopaho.ConnectionManager, *paho.Connack),
	onPublish []func(paho.PublishReceived) (bool, error),
) (autopaho.ClientConfig, error) {
	u, err := s.ServerURL()
	if err != nil {
		return autopaho.ClientConfig{}, err
	}
	tlsCfg, err := s.TLSConfig()
	if err != nil {
		return autopaho.ClientConfig{}, err
	}
	if obs == nil {
		obs = nopObserver{}
	}
	broker := u.String()

	cfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{u},
		TlsCfg:                        tlsCfg,
		KeepAlive:                     s.keepAliveSeconds(),
		ConnectTimeout:                s.ConnectTimeout,
		CleanStartOnInitialConnection: true,
		SessionExpiryInterval:         0,
		ConnectUsername:               s.Username,
		OnConnectionUp: func(cm *autopaho.ConnectionManager, ack *paho.Connack) {
			log.Infow("mqtt_connected", "broker", broker, "client_id", s.ClientID)
			obs.OnConnected(broker)
			if onUp != nil {
				onUp(cm, ack)
			}
		},
		OnConnectError: func(err error) {
			log.Warnw("mqtt_connect_failed", "broker", broker, "err", err)
			obs.OnConnectError(err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID:          s.ClientID,
			OnPublishReceived: onPublish,
			OnClientError: func(err error) {
				log.Warnw("mqtt_client_error", "err", err)
				obs.OnDisconnected(err.Error())
			},
			OnServerDisconnect: func(d *paho.Disconnect) {
				reason := fmt.Sprintf("server disconnect, reason code %d", d.ReasonCode)
				if d.Properties != nil && d.Properties.ReasonString != "" {
					reason += ": " + d.Properties.ReasonString
				}
				log.Warnw("mqtt_server_disconnect", "reason", reason)
				obs.OnDisconnected(reason)
			},
		},
	}
	if s.Password != "" {
		cfg.ConnectPassword = []byte(s.Password)
	}
	return cfg, nil
}

// closeConnection sends DISCONNECT and waits for the manager to stop.
func closeConnection(cm *autopaho.ConnectionManager) error {
	if cm == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	err := cm.Disconnect(ctx)
	select {
	case <-cm.Done():
	case <-ctx.Done():
	}
	return err
}
