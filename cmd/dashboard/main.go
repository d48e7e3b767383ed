package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "picow_telemetry/docs"
	"picow_telemetry/internal/config"
	"picow_telemetry/internal/handlers"
	"picow_telemetry/internal/ingest"
	"picow_telemetry/internal/logger"
	"picow_telemetry/internal/metrics"
	"picow_telemetry/internal/repository"
	"picow_telemetry/internal/repository/db"
	"picow_telemetry/internal/series"
	"picow_telemetry/internal/server"
	"picow_telemetry/internal/service"
	"picow_telemetry/internal/transport"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml, env and flags
	cfg, err := config.Load("dashboard", os.Args[1:])
	if err != nil {
		logger.New(logger.ErrorLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// open DB
	conn, err := openDB(cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	policy, _ := ingest.ParsePolicy(cfg.Dashboard.OverflowPolicy) // validated by config.Load
	m := metrics.New()
	services := service.NewService(service.Deps{
		Repos:   repository.NewRepository(conn),
		Buffer:  ingest.NewBuffer(cfg.Dashboard.PendingCapacity, policy),
		Store:   series.NewStore(cfg.Dashboard.WindowCapacity),
		Metrics: m,
		Log:     log,
	})
	apiHandler := handlers.NewHandler(services, m, log.Named("http"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		services.Events.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		services.Refresher.Run(ctx, cfg.Dashboard.RefreshInterval)
	}()

	// subscribe; autopaho keeps retrying in the background
	sub := transport.NewSubscriber(
		transport.FromConfig(cfg.MQTT, "dashboard"),
		cfg.MQTT.Topic,
		services.Ingestion.HandleMessage,
		services.Connection,
		log.Named("mqtt"),
	)
	if err := sub.Start(ctx); err != nil {
		log.Fatalw("failed to start mqtt subscriber", "err", err)
	}

	// start HTTP server
	srv := server.New(cfg.HTTP.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(log)
	log.Infow("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	if err := sub.Close(); err != nil {
		log.Warnw("mqtt disconnect failed", "err", err)
	}
	cancel()
	wg.Wait()
}

// openDB initializes the SQLite database holding diagnostic events.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT or SIGTERM.
func waitForShutdown(log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("signal received", "signal", sig.String())
}
