package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airgauge/airgauge/agent/internal/compute"
	"github.com/airgauge/airgauge/agent/internal/config"
	"github.com/airgauge/airgauge/agent/internal/display"
	"github.com/airgauge/airgauge/agent/internal/sensor"
	"github.com/airgauge/airgauge/agent/internal/tlscheck"
	"github.com/airgauge/airgauge/agent/internal/uplink"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("airgauge-agent starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"server_endpoint", cfg.Agent.ServerEndpoint,
		"sensors", len(cfg.Agent.Sensors),
		"sample_interval", cfg.Agent.SampleInterval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// One-shot certificate inspection of HTTPS sensor endpoints.
	tlscheck.Report(ctx, cfg.Agent.Sensors)

	// Build sensor + engine instances from the initial config.
	// Hot-reload updates logging only; rebuilding pipelines on reload is a
	// possible followup once sensors carry runtime-mutable settings.
	type pipeline struct {
		sc     config.Sensor
		s      sensor.Sensor
		engine *compute.Engine
	}
	var pipelines []pipeline
	for _, sc := range cfg.Agent.Sensors {
		s, err := sensor.New(sc)
		if err != nil {
			slog.Error("skipping sensor, could not build reader", "sensor", sc.ID, "err", err)
			continue
		}
		pipelines = append(pipelines, pipeline{
			sc:     sc,
			s:      s,
			engine: compute.NewEngine(compute.Options{HumidityCompensation: sc.HumidityCompensation}),
		})
		slog.Info("registered sensor", "id", sc.ID, "type", sc.Type, "endpoint", sc.Endpoint)
	}

	if len(pipelines) == 0 {
		slog.Warn("no sensors configured, agent will idle")
	}

	// Watch config file for hot-reload (logs only in this phase).
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded", "sensors", len(updated.Agent.Sensors))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Start the uplink. Runs until ctx is cancelled.
	up, err := uplink.New(cfg.Agent)
	if err != nil {
		slog.Error("failed to build uplink", "err", err)
		os.Exit(1)
	}
	go up.Run(ctx)

	readout := display.New(cfg.Agent.Display, os.Stdout)

	// Sample loop: poll every SampleInterval, derive AQI, render and ship.
	go func() {
		ticker := time.NewTicker(cfg.Agent.SampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				frame := make([]*compute.Result, 0, len(pipelines))
				for _, p := range pipelines {
					r, err := p.s.Read(ctx)
					if err != nil {
						slog.Warn("read error", "sensor", p.sc.ID, "err", err)
						continue
					}
					result := p.engine.Process(r, t)
					frame = append(frame, result)
					up.Ship(result)
					slog.Debug("shipped sample",
						"sensor", p.sc.ID,
						"aqi", result.AQI,
						"category", result.Category,
					)
				}
				readout.Render(frame)
			}
		}
	}()

	<-ctx.Done()
	slog.Info("airgauge-agent shutting down")
}
