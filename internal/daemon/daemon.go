// Package daemon runs siteforge continuously: configured builds execute
// on a fixed cadence, the config file is watched for changes, and
// metrics are exposed over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/config"
	"git.home.luguber.info/inful/siteforge/internal/metrics"
	"git.home.luguber.info/inful/siteforge/internal/pipeline"
)

// Runner executes one pipeline run. Satisfied by *pipeline.Orchestrator.
type Runner interface {
	Execute(ctx context.Context, bc bundle.BuildContext) (*pipeline.State, error)
}

// Daemon owns the scheduler, the config watcher, and the metrics server.
type Daemon struct {
	mu         sync.RWMutex
	cfg        *config.Config
	configPath string
	runner     Runner
	scheduler  *Scheduler
	watcher    *ConfigWatcher
	httpServer *http.Server
}

// New creates a daemon. registry may be nil to disable the metrics
// endpoint regardless of config.
func New(cfg *config.Config, configPath string, runner Runner, registry *prom.Registry) (*Daemon, error) {
	d := &Daemon{cfg: cfg, configPath: configPath, runner: runner}

	sched, err := NewScheduler(d.runConfiguredBuilds)
	if err != nil {
		return nil, err
	}
	d.scheduler = sched

	if cfg.Daemon.MetricsListen != "" && registry != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
		d.httpServer = &http.Server{
			Addr:              cfg.Daemon.MetricsListen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return d, nil
}

// Start begins scheduled builds and config watching, then blocks until
// ctx is canceled.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.scheduler.SchedulePeriodic(d.cfg.Daemon.Interval); err != nil {
		return err
	}
	d.scheduler.Start()

	watcher, err := NewConfigWatcher(d.configPath, d.reloadConfig)
	if err != nil {
		slog.Warn("Config watching disabled", "error", err)
	} else {
		d.watcher = watcher
		watcher.Start(ctx)
	}

	if d.httpServer != nil {
		go func() {
			slog.Info("Metrics listening", "addr", d.httpServer.Addr)
			if err := d.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	slog.Info("Daemon started", "interval", d.cfg.Daemon.Interval, "builds", len(d.cfg.Builds))
	<-ctx.Done()
	return d.stop()
}

func (d *Daemon) stop() error {
	slog.Info("Daemon stopping")
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.httpServer.Shutdown(shutdownCtx)
	}
	return d.scheduler.Stop()
}

// runConfiguredBuilds executes every configured build sequentially.
// One failing build does not stop the rest.
func (d *Daemon) runConfiguredBuilds() {
	d.mu.RLock()
	builds := d.cfg.Builds
	d.mu.RUnlock()

	for _, spec := range builds {
		mode := spec.Mode
		if mode == "" {
			mode = bundle.ModeTemplate
		}
		bc := bundle.BuildContext{
			Prompt:      spec.Prompt,
			BusinessID:  spec.BusinessID,
			OwnerID:     spec.OwnerID,
			Mode:        mode,
			Industry:    spec.Industry,
			Constraints: spec.Constraints,
		}
		st, err := d.runner.Execute(context.Background(), bc)
		if err != nil {
			slog.Error("Scheduled build failed", "name", spec.Name, "stage", st.CurrentStage, "error", err)
			continue
		}
		slog.Info("Scheduled build completed", "name", spec.Name, "site", st.SiteID, "build", st.BuildID)
	}
}

func (d *Daemon) reloadConfig() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		slog.Error("Config reload failed, keeping previous config", "error", err)
		return
	}
	d.mu.Lock()
	d.cfg.Builds = cfg.Builds
	d.mu.Unlock()
	slog.Info(fmt.Sprintf("Config reloaded: %d configured builds", len(cfg.Builds)))
}
