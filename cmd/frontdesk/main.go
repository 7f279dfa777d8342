// @title Front Desk Sync API
// @version 1.0
// @description Offline-first visitor log and incident desk for condominium front desks.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/condoguard/frontdesk/docs"
	"github.com/condoguard/frontdesk/internal/config"
	"github.com/condoguard/frontdesk/internal/gateway"
	"github.com/condoguard/frontdesk/internal/handlers"
	"github.com/condoguard/frontdesk/internal/health"
	custommw "github.com/condoguard/frontdesk/internal/middleware"
	"github.com/condoguard/frontdesk/internal/observability"
	"github.com/condoguard/frontdesk/internal/repository"
	"github.com/condoguard/frontdesk/internal/services"
)

const serviceName = "frontdesk"

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	logger := observability.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	location, err := cfg.Location()
	if err != nil {
		logger.WithError(err).Error("Invalid timezone")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telCfg := observability.NewConfig(serviceName, Version)
	telCfg.DeviceName = cfg.Device.Name
	telemetry, err := observability.Initialize(ctx, telCfg, logger)
	if err != nil {
		logger.WithError(err).Warn("Telemetry unavailable, continuing without it")
	}

	// Local store
	db, err := repository.OpenLocalStore(cfg.DatabasePath, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to open local store")
		os.Exit(1)
	}
	store := repository.NewStore(db)
	backup := repository.NewConfigBackup(cfg.BackupPath)

	gw, err := gateway.New(gateway.Config{
		BaseURL:   cfg.Backend.BaseURL,
		APIKey:    cfg.Backend.APIKey,
		Timeout:   cfg.Backend.Timeout(),
		UserAgent: serviceName + "/" + Version,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create backend gateway")
		os.Exit(1)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := services.NewWebSocketHub(logger)
	go hub.Run(hubCtx)

	// The monitor's callbacks reach services created below; it is started
	// only once everything is wired.
	var (
		devices   *services.DeviceService
		scheduler *services.ReplayScheduler
	)
	monitor := health.NewMonitor(health.Options{
		Probe:             gw.Ping,
		Heartbeat:         func(ctx context.Context) error { return devices.Heartbeat(ctx) },
		ProbeInterval:     cfg.Sync.ProbeInterval(),
		HeartbeatInterval: cfg.Sync.HeartbeatInterval(),
		CallTimeout:       cfg.Backend.Timeout(),
		OnChange: func(st health.Status) {
			hub.Publish(services.TopicHealth, services.WSTypeHealthChanged, st)
			scheduler.OnReconnect(st.Healthy)
		},
		Logger: logger,
	})

	syncMetrics, err := observability.NewSyncMetrics()
	if err != nil {
		logger.WithError(err).Warn("Sync metrics unavailable")
	}

	devices = services.NewDeviceService(services.DeviceOptions{
		Store:      store,
		Backup:     backup,
		Gateway:    gw,
		Health:     monitor,
		Events:     hub,
		Logger:     logger,
		Name:       cfg.Device.Name,
		AppVersion: Version,
	})

	photos := services.NewPhotoService(cfg.Photo.MaxDimension, cfg.Photo.Quality, logger)

	syncService := services.NewSyncService(services.SyncOptions{
		Gateway:  gw,
		Health:   monitor,
		Store:    store,
		Devices:  devices,
		Photos:   photos,
		Events:   hub,
		Metrics:  syncMetrics,
		Logger:   logger,
		Location: location,
	})
	scheduler = services.NewReplayScheduler(syncService, cfg.Sync.ReplayInterval(), logger)
	syncService.AddTimers(scheduler, monitor)

	authService := services.NewAuthService(gw, monitor, store.Staff, devices, syncMetrics, logger)

	if err := observability.RegisterHealthGauges(
		func() int64 { return int64(monitor.Score()) },
		func(ctx context.Context) (int64, error) {
			n, err := syncService.PendingCount(ctx)
			return int64(n), err
		},
	); err != nil {
		logger.WithError(err).Warn("Health gauges unavailable")
	}

	// Resolve the device binding before serving; a backend outage leaves
	// the device in its local-only state.
	if _, err := devices.IsConfigured(ctx); err != nil {
		logger.WithError(err).Warn("Device configuration check failed")
	}
	logger.WithField("state", string(devices.State())).Info("Device state resolved")

	monitor.Start(ctx)
	scheduler.Start()

	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		logger.WithError(err).Warn("HTTP metrics unavailable")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware(serviceName))
	if httpMetrics != nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	}
	r.Use(custommw.APIKeyAuth(cfg.Security.APIKey, cfg.Security.APIKeyHeader))
	r.Use(custommw.DeviceRequired(devices))

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	set := &handlers.Set{
		Health:    handlers.NewHealthHandler(Version),
		Status:    handlers.NewStatusHandler(monitor),
		Visits:    handlers.NewVisitHandler(syncService),
		Incidents: handlers.NewIncidentHandler(syncService),
		Sync:      handlers.NewSyncHandler(syncService, monitor, devices, scheduler),
		Auth:      handlers.NewAuthHandler(authService),
		Device:    handlers.NewDeviceHandler(devices),
		Reference: handlers.NewReferenceHandler(syncService),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}
	set.Mount(r)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(map[string]interface{}{
			"address": cfg.ServerAddress,
			"backend": cfg.Backend.BaseURL,
			"db":      cfg.DatabasePath,
		}).Info("Front desk sync engine starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server forced to shutdown")
	}
	if err := syncService.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Background sync tasks did not finish")
	}
	stopHub()
	if err := store.Close(); err != nil {
		logger.WithError(err).Error("Failed to close local store")
	}
	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Telemetry shutdown failed")
		}
	}

	logger.Info("Server stopped")
}
