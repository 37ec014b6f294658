package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/siteforge/internal/ai"
	"git.home.luguber.info/inful/siteforge/internal/bundle"
	"git.home.luguber.info/inful/siteforge/internal/config"
	"git.home.luguber.info/inful/siteforge/internal/daemon"
	"git.home.luguber.info/inful/siteforge/internal/events"
	"git.home.luguber.info/inful/siteforge/internal/metrics"
	"git.home.luguber.info/inful/siteforge/internal/pipeline"
	"git.home.luguber.info/inful/siteforge/internal/storage"
	"git.home.luguber.info/inful/siteforge/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"siteforge.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Build struct {
		Prompt   string `short:"p" help:"Business description prompt" required:""`
		Business string `help:"Business id" default:"biz-local"`
		Owner    string `help:"Owner id" default:"owner-local"`
		Mode     string `short:"m" help:"Build mode (template or systems_ai)" default:"template"`
		Industry string `help:"Industry hint"`
		PagesMax int    `help:"Override the pagesMax entitlement limit"`
	} `cmd:"" help:"Run one build pipeline from a prompt"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Inspect struct {
		Site string `short:"s" help:"Site id to inspect" required:""`
	} `cmd:"" help:"Print the latest persisted bundle for a site"`

	Daemon struct{} `cmd:"" help:"Run configured builds continuously"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Description("Turns a business description into a deployable site bundle"),
		kong.Vars{"version": fmt.Sprintf("siteforge %s (%s, built %s)", version.Version, version.GitCommit, version.BuildTime)},
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	config.LoadEnv()

	var err error
	switch kctx.Command() {
	case "build":
		err = runBuild()
	case "init":
		err = runInit()
	case "inspect":
		err = runInspect()
	case "daemon":
		err = runDaemon()
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("No config file, using defaults", "path", CLI.Config)
			return config.Default()
		}
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func newProvider(ctx context.Context, cfg *config.Config) (ai.Provider, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return ai.NewGeminiProvider(ctx, cfg.APIKey(), cfg.AI.Model)
	default:
		return ai.NewTemplateProvider(), nil
	}
}

func runBuild() error {
	cfg := loadConfig()
	ctx := context.Background()

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	bus := events.NewBus()
	orch := pipeline.New(store, provider).
		WithObserver(events.NewBusObserver(bus, store))

	bc := bundle.BuildContext{
		Prompt:     CLI.Build.Prompt,
		BusinessID: CLI.Build.Business,
		OwnerID:    CLI.Build.Owner,
		Mode:       CLI.Build.Mode,
		Industry:   CLI.Build.Industry,
	}
	if CLI.Build.PagesMax > 0 {
		bc.Constraints = map[string]any{"pagesMax": CLI.Build.PagesMax}
	}

	st, err := orch.Execute(ctx, bc)
	printStageSummary(st)
	if err != nil {
		return err
	}
	fmt.Printf("site=%s build=%s pages=%d bindings=%d\n",
		st.SiteID, st.BuildID, len(st.Bundle.Pages), len(st.Bundle.Intents.Bindings))
	return nil
}

func printStageSummary(st *pipeline.State) {
	for _, name := range pipeline.StageOrder() {
		sr := st.Stages[name]
		line := fmt.Sprintf("%-13s %s", name, sr.Status)
		if sr.Error != nil {
			line += " (" + sr.Error.Code + ")"
		}
		fmt.Println(line)
	}
}

func runInit() error {
	if _, err := os.Stat(CLI.Config); err == nil && !CLI.Init.Force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", CLI.Config)
	}
	cfg := config.Default()
	cfg.Builds = []config.BuildSpec{{
		Name:       "example",
		Prompt:     "A family-run Italian restaurant in Portland with weekend live music",
		BusinessID: "biz-example",
		OwnerID:    "owner-example",
		Mode:       bundle.ModeTemplate,
		Industry:   "restaurant",
	}}
	if err := cfg.Write(CLI.Config); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", CLI.Config)
	return nil
}

func runInspect() error {
	cfg := loadConfig()
	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	row, err := store.GetLatestBundle(context.Background(), CLI.Inspect.Site)
	if err != nil {
		return fmt.Errorf("load latest bundle for site %s: %w", CLI.Inspect.Site, err)
	}
	fmt.Printf("# site=%s build=%s version=%s created=%s\n", row.SiteID, row.BuildID, row.Version, row.CreatedAt.Format("2006-01-02 15:04:05"))
	_, err = os.Stdout.Write(append(row.BundleJSON, '\n'))
	return err
}

func runDaemon() error {
	cfg := loadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	bus := events.NewBus()
	if cfg.Events.NATSURL != "" {
		publisher, pubErr := events.NewNATSPublisher(ctx, cfg.Events.NATSURL, cfg.Events.Stream, cfg.Events.Subject)
		if pubErr != nil {
			slog.Warn("NATS publishing disabled", "error", pubErr)
		} else {
			defer publisher.Close()
			bus.Subscribe(publisher.Handler())
		}
	}

	orch := pipeline.New(store, provider).
		WithRecorder(recorder).
		WithObserver(events.NewBusObserver(bus, store))

	d, err := daemon.New(cfg, CLI.Config, orch, registry)
	if err != nil {
		return err
	}
	return d.Start(ctx)
}
