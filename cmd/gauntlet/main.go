package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	gauntlet "github.com/probeworks/gauntlet"
	"github.com/probeworks/gauntlet/exitcodes"
	"github.com/probeworks/gauntlet/flags"
	"github.com/probeworks/gauntlet/registry"
	"github.com/probeworks/gauntlet/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "gauntlet"
	app.Usage = "Crash-surviving test suite runner"
	app.Description = "gauntlet runs registered test functions one at a time in isolation, " +
		"survives fatal memory faults raised by a test body, and reports aggregate results"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if gauntlet.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Test failures and unspecified errors both map to exit code 1
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	// Start telemetry
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger := newLogger(ctx.String(flags.LogLevel.Name))
	log.SetDefault(logger)

	cfg, err := gauntlet.NewConfig(ctx, logger)
	if err != nil {
		return gauntlet.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}
	cfg.Log.Debug("Config", "config", cfg)

	reg, err := registry.NewRegistry(registry.Config{
		Log:          logger,
		ManifestFile: cfg.ManifestFile,
	})
	if err != nil {
		return gauntlet.NewRuntimeError(fmt.Errorf("failed to create registry: %w", err))
	}
	if err := registerDemoTests(reg); err != nil {
		return gauntlet.NewRuntimeError(fmt.Errorf("failed to register tests: %w", err))
	}

	if ctx.Bool(flags.MetricsEnabled.Name) {
		svc := service.New()
		svc.Start(ctx.Context)
		defer svc.Shutdown()
	}

	g, err := gauntlet.New(ctx.Context, cfg, Version, reg, func(error) {})
	if err != nil {
		return gauntlet.NewRuntimeError(fmt.Errorf("failed to create gauntlet: %w", err))
	}

	if err := g.Start(ctx.Context); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}

	// Continuous mode: keep rerunning until interrupted.
	<-ctx.Context.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := g.Stop(stopCtx); err != nil {
		return gauntlet.NewRuntimeError(err)
	}
	return g.WaitForShutdown(stopCtx)
}

func newLogger(level string) log.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true))
}
