package main

import (
	"os"
	"os/signal"
	"syscall"

	"picow_telemetry/internal/broker"
	"picow_telemetry/internal/config"
	"picow_telemetry/internal/logger"
)

func main() {
	cfg, err := config.Load("devbroker", os.Args[1:])
	if err != nil {
		logger.New(logger.ErrorLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	srv, err := broker.New(broker.Options{
		Address:  cfg.DevBroker.Address,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		CertFile: cfg.DevBroker.CertFile,
		KeyFile:  cfg.DevBroker.KeyFile,
	})
	if err != nil {
		log.Fatalw("failed to build broker", "err", err)
	}
	if err := srv.Serve(); err != nil {
		log.Fatalw("failed to start broker", "err", err)
	}
	log.Infow("broker listening",
		"addr", cfg.DevBroker.Address,
		"tls", cfg.DevBroker.CertFile != "",
		"auth", cfg.MQTT.Username != "",
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down broker")
	if err := srv.Close(); err != nil {
		log.Errorw("broker close failed", "err", err)
	}
}
