package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"picow_telemetry/internal/config"
	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/sensor"
	"picow_telemetry/internal/transport"
)

func main() {
	cfg, err := config.Load("publisher", os.Args[1:])
	if err != nil {
		logger.New(logger.ErrorLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	src := newSource(cfg.Publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pub := transport.NewPublisher(
		transport.FromConfig(cfg.MQTT, "picow"),
		cfg.MQTT.Topic,
		nil,
		log.Named("mqtt"),
	)
	if err := pub.Start(ctx); err != nil {
		log.Fatalw("failed to start mqtt publisher", "err", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warnw("mqtt disconnect failed", "err", err)
		}
	}()

	// each publish may wait for a reconnect, but never past the next sample
	interval := cfg.Publisher.Interval
	publish := func(ctx context.Context, payload []byte) error {
		pctx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		return pub.Publish(pctx, payload)
	}

	log.Infow("publishing", "topic", cfg.MQTT.Topic, "source", cfg.Publisher.Source, "interval", interval)
	sensor.NewPoller(src, publish, log.Named("sensor")).Run(ctx, interval)
	log.Infow("publisher stopped")
}

func newSource(c config.PublisherConfig) sensor.Source {
	switch c.Source {
	case config.SourceThermal:
		return sensor.NewThermalZone(c.ThermalPath)
	case config.SourceADC:
		return sensor.NewADC(c.ADCPath, uint(c.ADCBits))
	default:
		return sensor.NewSimulated(c.SimBaseC, uint64(time.Now().UnixNano()))
	}
}
