package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "cup_controller/docs"
	"cup_controller/internal/config"
	"cup_controller/internal/device"
	"cup_controller/internal/handlers"
	"cup_controller/internal/logger"
	"cup_controller/internal/mqtt"
	"cup_controller/internal/repository"
	"cup_controller/internal/repository/db"
	"cup_controller/internal/server"
	"cup_controller/internal/service"
	"cup_controller/internal/store"
	"cup_controller/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	var initDevice bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and websocket status stream",
		Long: `Serve the control API.

Examples:
  cupd serve                       # configs/config.yml, real relay
  DEBUG_MODE=true cupd serve       # simulated relay
  cupd serve --init-device         # read the relay once and keep polling it`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, initDevice)
		},
	}
	cmd.Flags().BoolVar(&initDevice, "init-device", false, "poll the relay at startup and keep polling it")
	return cmd
}

// newTransport picks the simulated relay in debug mode.
func newTransport(cfg config.DeviceConfig) device.Transport {
	if cfg.DebugMode {
		return device.NewSimulatedTransport()
	}
	return device.NewHTTPTransport(cfg.URL, cfg.Channel, cfg.Timeout)
}

func runServe(parent context.Context, configPath string, initDevice bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.Get(cfg.LogLevel)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("sqlite_close_failed", "err", cerr)
		}
	}()

	st := store.New(cfg.History.Limit)
	transport := newTransport(cfg.Device)
	if transport.Simulated() {
		log.Warnw("debug_mode_enabled", "msg", "relay commands are simulated")
	}

	var metrics service.CommandMetrics
	sinks := map[string]handlers.HealthChecker{}
	influx, err := telemetry.Connect(cfg.Influx)
	switch {
	case err == nil:
		influx.SetOnError(func(err error) { log.Warnw("influx_write_failed", "err", err) })
		metrics = influx
		sinks["influxdb"] = influx
		defer influx.Close()
	case !errors.Is(err, telemetry.ErrDisabled):
		log.Warnw("influx_unavailable", "err", err)
	}

	broker, err := mqtt.Connect(cfg.MQTT)
	switch {
	case err == nil:
		pub := mqtt.NewStatePublisher(broker, broker.Topics(), broker.QoS(), log)
		st.Subscribe(pub.Notify)
		go pub.Run(ctx)
		sinks["mqtt"] = broker
		defer broker.Close()
	case !errors.Is(err, mqtt.ErrDisabled):
		log.Warnw("mqtt_unavailable", "err", err)
	}

	services := service.NewService(service.Deps{
		Repos:        repository.NewRepository(sqlDB),
		Store:        st,
		Transport:    transport,
		DeviceURL:    cfg.Device.URL,
		StepUnit:     cfg.Cycle.StepUnit,
		PollInterval: cfg.Device.PollInterval,
		Metrics:      metrics,
		Log:          log,
	})
	defer services.Close()

	if initDevice {
		if err := services.Poller.Init(ctx); err != nil {
			log.Warnw("device_init_failed", "err", err)
		}
	}

	apiHandler := handlers.NewHandler(services, log)
	for name, sink := range sinks {
		apiHandler.AddHealthCheck(name, sink)
	}
	srv := &server.Server{}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(cfg.Port, apiHandler.InitRoutes()) }()
	log.Infow("server_started",
		"port", cfg.Port,
		"device_url", cfg.Device.URL,
		"debug_mode", cfg.Device.DebugMode,
		"step_unit", cfg.Cycle.StepUnit,
	)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	log.Infow("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
