package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"

	"github.com/airgauge/airgauge/server/internal/alerts"
	"github.com/airgauge/airgauge/server/internal/api"
	"github.com/airgauge/airgauge/server/internal/auth"
	"github.com/airgauge/airgauge/server/internal/config"
	"github.com/airgauge/airgauge/server/internal/forward"
	"github.com/airgauge/airgauge/server/internal/ingest"
	"github.com/airgauge/airgauge/server/internal/store"
	"github.com/airgauge/airgauge/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve the dashboard static files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("airgauge-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"snapshot_ttl", cfg.Server.Snapshot.TTL,
		"kafka_enabled", cfg.Server.Kafka.Enabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Latest-sample store with per-device history and background TTL eviction.
	st := store.New(cfg.Server.Snapshot.TTL, cfg.Server.History.MaxPerDevice)
	go st.Run(ctx)

	// Alerts engine — evaluates rules on every accepted sample.
	alertEngine := alerts.New(cfg.Server.Alerts)

	// WebSocket hub — broadcasts snapshots to UI clients every 5 seconds
	// and pushes individual samples as they arrive.
	hub := ws.New(st, 5*time.Second)
	go hub.Run(ctx)

	// Sinks run on every sample the ingest handler accepts.
	sinks := []ingest.Sink{
		ingest.SinkFunc(alertEngine.Evaluate),
		hub,
	}
	if cfg.Server.Kafka.Enabled {
		fwd := forward.New(cfg.Server.Kafka)
		go fwd.Run(ctx)
		defer fwd.Close() //nolint:errcheck
		sinks = append(sinks, fwd)
		slog.Info("kafka forwarding enabled",
			"brokers", cfg.Server.Kafka.Brokers, "topic", cfg.Server.Kafka.Topic)
	}

	// Ingest endpoint with optional API key authentication.
	authn := auth.APIKeyMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/v1/ingest", authn(ingest.New(st, sinks...)))
	httpMux.Handle("/api/", api.New(st, alertEngine))
	httpMux.Handle("/ws/stream", hub)

	// Optional: serve the pre-built dashboard from a local directory.
	// Usage:  ./bin/airgauge-server -config config/server.yaml -ui-dir ui/dist
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// SPA fallback: if the requested file doesn't exist, serve index.html.
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: handlers.LoggingHandler(os.Stdout, httpMux),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("airgauge-server shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
