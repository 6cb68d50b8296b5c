// Package main implements the entry point for the WebKit demo host.
// WebKit is an extensible web application framework: a type-extension
// manager with event subscribers, an HTTP middleware pipeline, and a
// JSON action dispatch layer.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/webkit/config"
	"github.com/c360/webkit/dispatch"
	"github.com/c360/webkit/extender"
	"github.com/c360/webkit/metric"
	"github.com/c360/webkit/pipeline"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "webkit"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Run application with proper error handling
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	// Parse and validate CLI flags
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	// Load and validate configuration
	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	// Setup metrics, optional NATS mirror and the extension manager
	metricsRegistry, metricsServer, nc, err := setupInfrastructure(cfg)
	if err != nil {
		return err
	}
	if nc != nil {
		defer nc.Close()
	}
	if metricsServer != nil {
		defer func() {
			if err := metricsServer.Stop(5 * time.Second); err != nil {
				slog.Error("metrics server stop failed", "error", err)
			}
		}()
	}

	manager := extender.NewManager(
		extender.WithLogger(logger),
		extender.WithMetrics(metricsRegistry.CoreMetrics()),
	)
	publisher := extender.NewPublisher(manager, logger, nc)

	if err := registerDemoExtensions(manager); err != nil {
		return fmt.Errorf("register demo extensions: %w", err)
	}

	// Build the dispatch surface and wrap it in the pipeline
	handler, err := buildHandler(cfg, manager, publisher, logger, metricsRegistry.CoreMetrics())
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr()
	if cliCfg.Addr != "" {
		addr = cliCfg.Addr
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	// Run application with signal handling
	return runWithSignalHandling(server, cfg.Server.ShutdownTimeout.Std())
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg)
	slog.SetDefault(logger)

	slog.Info("Starting WebKit (extensible web application host)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// initializeConfiguration loads and validates configuration
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	if cliCfg.ConfigPath == "" {
		slog.Info("No config file given, using built-in defaults")
		return config.Default(), nil
	}

	cfg, err := config.NewLoader().LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// setupInfrastructure creates the metrics registry and server and the
// optional NATS mirror connection.
func setupInfrastructure(cfg *config.Config) (*metric.MetricsRegistry, *metric.Server, *nats.Conn, error) {
	metricsRegistry := metric.NewMetricsRegistry()

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, metricsRegistry)
		if err := metricsServer.Start(); err != nil {
			return nil, nil, nil, fmt.Errorf("start metrics server: %w", err)
		}
		slog.Info("Metrics server started", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
	}

	var nc *nats.Conn
	if cfg.NATS.Enabled {
		conn, err := nats.Connect(strings.Join(cfg.NATS.URLs, ","),
			nats.Name(appName),
			nats.MaxReconnects(-1))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to NATS: %w", err)
		}
		slog.Info("NATS event mirror connected", "urls", cfg.NATS.URLs)
		nc = conn
	}

	return metricsRegistry, metricsServer, nc, nil
}

// buildHandler assembles the dispatch registry and the middleware chain.
func buildHandler(
	cfg *config.Config,
	manager *extender.Manager,
	publisher *extender.Publisher,
	logger *slog.Logger,
	metrics *metric.Metrics,
) (http.Handler, error) {
	registry := dispatch.NewRegistry()
	if err := registerDemoActions(registry, manager, publisher); err != nil {
		return nil, fmt.Errorf("register actions: %w", err)
	}
	slog.Info("Actions registered", "count", registry.Len())

	var authorizer dispatch.Authorizer = dispatch.AllowAll{}
	if cfg.Auth.Enabled {
		authorizer = dispatch.TokenAuthorizer{
			Header: cfg.Auth.Header,
			Token:  cfg.Auth.Token,
		}
	}

	var middleware []pipeline.Middleware
	middleware = append(middleware, pipeline.RequestID())
	middleware = append(middleware, pipeline.AccessLog(logger, metrics))
	if cfg.Pipeline.GzipEnabled {
		middleware = append(middleware, pipeline.Gzip(cfg.Pipeline.GzipLevel))
	}

	dispatcher := dispatch.NewHandler(registry, authorizer, logger, metrics)
	return pipeline.Chain(dispatcher, middleware...), nil
}

// runWithSignalHandling starts the HTTP server and handles shutdown signals
func runWithSignalHandling(server *http.Server, shutdownTimeout time.Duration) error {
	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-signalCtx.Done():
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("WebKit shutdown complete")
	return nil
}

// printHelp prints help information
func printHelp() {
	printDetailedHelp()
}
