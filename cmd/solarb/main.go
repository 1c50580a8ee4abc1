// Package main is the entry point for the Solana arbitrage engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage"
	arbitrageApp "github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
	arbitrageDI "github.com/solarb-labs/arbitrage-engine/business/arbitrage/di"
	"github.com/solarb-labs/arbitrage-engine/business/pricing"
	pricingDI "github.com/solarb-labs/arbitrage-engine/business/pricing/di"
	"github.com/solarb-labs/arbitrage-engine/internal/apm"
	"github.com/solarb-labs/arbitrage-engine/internal/config"
	"github.com/solarb-labs/arbitrage-engine/internal/health"
	"github.com/solarb-labs/arbitrage-engine/internal/logger"
	"github.com/solarb-labs/arbitrage-engine/internal/metrics"
	"github.com/solarb-labs/arbitrage-engine/internal/monolith"
	"github.com/solarb-labs/arbitrage-engine/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("solarb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules pick the right reporter
	cfg.Arbitrage.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs so they don't corrupt the screen
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting Solana arbitrage engine",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	modules := []monolith.Module{
		&pricing.Module{},   // Must be first - provides price snapshots
		&arbitrage.Module{}, // Depends on pricing
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// Resolving the engine here wires the full graph without starting it.
	engine := arbitrageDI.GetEngine(mono.Services())

	// Health server on port 8081
	healthServer := health.NewServer(8081, version)
	healthServer.RegisterCheck("pricing", func(ctx context.Context) (bool, string) {
		return pricingDI.GetPricingService(mono.Services()).Healthy(ctx)
	})
	healthServer.RegisterCheck("engine", func(ctx context.Context) (bool, string) {
		if engine.Running() {
			return true, ""
		}
		return false, "engine not running"
	})
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	if tuiMode {
		startFunc := func() error {
			return mono.StartModules(ctx, modules...)
		}
		return runTUI(ctx, startFunc, engine)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	return runCLI(ctx, engine, log)
}

func runCLI(ctx context.Context, engine *arbitrageApp.Engine, log *logger.Logger) error {
	log.Info(ctx, "all modules started, scanning for opportunities")

	// Wait for shutdown
	<-ctx.Done()

	log.Info(ctx, "shutting down")

	if err := engine.Stop(); err != nil {
		log.Error(ctx, "error stopping engine", "error", err)
	}
	return nil
}

func runTUI(ctx context.Context, startFunc func() error, engine *arbitrageApp.Engine) error {
	// Create the TUI program first so the dashboard shows immediately;
	// module startup happens behind it.
	p := tea.NewProgram(ui.New(engine), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		<-ctx.Done()
		errCh <- engine.Stop()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// TUI quit: stop everything and surface any startup error
	if engine.Running() {
		_ = engine.Stop()
	}
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
