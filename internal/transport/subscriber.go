package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"picow_telemetry/internal/logger"
)

// Subscriber keeps a subscription to a single topic alive across reconnects
// and hands every delivered message to its Handler.
type Subscriber struct {
	settings Settings
	topic    string
	handler  Handler
	observer Observer
	log      *logger.Logger
	now      func() time.Time

	mu         sync.Mutex
	cm         *autopaho.ConnectionManager
	subscribed chan struct{}
	subOnce    sync.Once
}

func NewSubscriber(s Settings, topic string, h Handler, obs Observer, log *logger.Logger) *Subscriber {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Subscriber{
		settings:   s,
		topic:      topic,
		handler:    h,
		observer:   obs,
		log:        log,
		now:        time.Now,
		subscribed: make(chan struct{}),
	}
}

// Start opens the connection in the background; it returns once the
// connection manager is running, not once the broker has accepted it.
func (s *Subscriber) Start(ctx context.Context) error {
	if s.topic == "" {
		return fmt.Errorf("subscribe: empty topic")
	}
	cfg, err := connectionConfig(s.settings, s.observer, s.log, s.onConnectionUp(ctx), []func(paho.PublishReceived) (bool, error){
		s.onPublish(ctx),
	})
	if err != nil {
		return err
	}
	cm, err := autopaho.NewConnection(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start mqtt connection: %w", err)
	}
	s.mu.Lock()
	s.cm = cm
	s.mu.Unlock()
	return nil
}

// Run starts the subscriber and blocks until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Close()
}

// Subscribed is closed after the first successful SUBSCRIBE.
func (s *Subscriber) Subscribed() <-chan struct{} { return s.subscribed }

func (s *Subscriber) Close() error {
	s.mu.Lock()
	cm := s.cm
	s.cm = nil
	s.mu.Unlock()
	return closeConnection(cm)
}

// onConnectionUp subscribes again on every connection; the session is clean,
// so the broker forgets subscriptions between connections.
func (s *Subscriber) onConnectionUp(ctx context.Context) func(*autopaho.ConnectionManager, *paho.Connack) {
	return func(cm *autopaho.ConnectionManager, _ *paho.Connack) {
		timeout := s.settings.ConnectTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		subCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		_, err := cm.Subscribe(subCtx, &paho.Subscribe{
			Subscriptions: []paho.SubscribeOptions{
				{Topic: s.topic, QoS: s.settings.QoS},
			},
		})
		if err != nil {
			s.log.Errorw("mqtt_subscribe_failed", "topic", s.topic, "err", err)
			return
		}
		s.log.Infow("mqtt_subscribed", "topic", s.topic, "qos", s.settings.QoS)
		s.subOnce.Do(func() { close(s.subscribed) })
	}
}

func (s *Subscriber) onPublish(ctx context.Context) func(paho.PublishReceived) (bool, error) {
	return func(pr paho.PublishReceived) (bool, error) {
		p := pr.Packet
		if p == nil || p.Topic != s.topic {
			return false, nil
		}
		s.handler(ctx, Message{
			Topic:      p.Topic,
			Payload:    p.Payload,
			ReceivedAt: s.now(),
		})
		return true, nil
	}
}
