package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"picow_telemetry/internal/logger"
)

var ErrNotStarted = errors.New("publisher not started")

// Publisher sends telemetry payloads to a fixed topic.
type Publisher struct {
	settings Settings
	topic    string
	observer Observer
	log      *logger.Logger

	mu sync.Mutex
	cm *autopaho.ConnectionManager
}

func NewPublisher(s Settings, topic string, obs Observer, log *logger.Logger) *Publisher {
	return &Publisher{settings: s, topic: topic, observer: obs, log: log}
}

func (p *Publisher) Start(ctx context.Context) error {
	if p.topic == "" {
		return fmt.Errorf("publish: empty topic")
	}
	cfg, err := connectionConfig(p.settings, p.observer, p.log, nil, nil)
	if err != nil {
		return err
	}
	cm, err := autopaho.NewConnection(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start mqtt connection: %w", err)
	}
	p.mu.Lock()
	p.cm = cm
	p.mu.Unlock()
	return nil
}

// Publish waits for a live connection, bounded by ctx, then sends payload.
func (p *Publisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	cm := p.cm
	p.mu.Unlock()
	if cm == nil {
		return ErrNotStarted
	}
	if err := cm.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("await mqtt connection: %w", err)
	}
	_, err := cm.Publish(ctx, &paho.Publish{
		Topic:   p.topic,
		QoS:     p.settings.QoS,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	cm := p.cm
	p.cm = nil
	p.mu.Unlock()
	return closeConnection(cm)
}
