// Package gauntlet wires the suite engine into a runnable service: it
// materializes registered tests, runs them once or on an interval, prints
// the results, and maps run outcomes onto process exit semantics.
package gauntlet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/probeworks/gauntlet/exitcodes"
	"github.com/probeworks/gauntlet/registry"
	"github.com/probeworks/gauntlet/reporting"
	"github.com/probeworks/gauntlet/suite"
)

// Gauntlet runs a test suite as a service.
type Gauntlet struct {
	ctx      context.Context
	config   *Config
	version  string
	registry *registry.Registry
	suite    *suite.Suite

	executor  SuiteExecutor
	formatter ResultFormatter
	reporter  MetricsReporter
	scheduler SuiteScheduler

	result  *RunResult
	running atomic.Bool

	shutdownCallback func(error) // Callback to signal application shutdown
}

// New assembles the service from its config and an already-populated
// registry of test bodies.
func New(ctx context.Context, config *Config, version string, reg *registry.Registry, shutdownCallback func(error)) (*Gauntlet, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if reg == nil {
		return nil, errors.New("registry is required")
	}

	config.Log.Debug("Creating gauntlet with config",
		"manifestFile", config.ManifestFile,
		"fatalFailures", config.FatalFailures,
		"quiet", config.Quiet,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	runners, err := reg.Runners()
	if err != nil {
		return nil, fmt.Errorf("failed to materialize runners: %w", err)
	}

	fatalFailures := config.FatalFailures
	quiet := config.Quiet
	if m := reg.Manifest(); m != nil {
		fatalFailures = fatalFailures || m.FatalFailures
		quiet = quiet || m.Quiet
	}

	s := suite.New(suite.Config{
		Log:   config.Log,
		Sink:  reporting.NewConsoleSink(os.Stdout),
		Quiet: quiet,
	})
	s.Add(runners...)
	config.Log.Info("gauntlet.New: created suite", "tests", s.Len())

	g := &Gauntlet{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		suite:            s,
		executor:         NewDefaultSuiteExecutor(s, fatalFailures, config.Log),
		formatter:        nil,
		reporter:         NewDefaultMetricsReporter(),
		scheduler:        NewIntervalScheduler(config.RunInterval, config.RunOnce, config.Log),
		shutdownCallback: shutdownCallback,
	}
	g.formatter = NewConsoleResultFormatter(s, config.Log)
	return g, nil
}

// Suite exposes the underlying suite, mainly for tests and embedding hosts.
func (g *Gauntlet) Suite() *suite.Suite {
	return g.suite
}

// Start runs the suite immediately and, unless configured for run-once,
// keeps rerunning it at the configured interval.
func (g *Gauntlet) Start(ctx context.Context) error {
	// A fault that escapes the engine (or any wiring bug here) is a runtime
	// error of the harness, not a test failure.
	defer func() {
		if r := recover(); r != nil {
			g.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	g.ctx = ctx
	g.running.Store(true)

	if g.config.RunOnce {
		g.config.Log.Info("Starting gauntlet in run-once mode")
	} else {
		g.config.Log.Info("Starting gauntlet in continuous mode", "interval", g.config.RunInterval)
	}

	g.scheduler.RegisterCallback(g.runSuite)
	if err := g.scheduler.Start(ctx); err != nil {
		return NewRuntimeError(err)
	}

	if g.config.RunOnce {
		g.config.Log.Info("Suite completed, exiting (run-once mode)")

		if g.result != nil && g.result.Stats.Failed > 0 {
			g.config.Log.Warn("Run-once suite completed with failures, returning exit code 1")
			return NewTestFailureError(g.result.Stats.String())
		}

		// Only needed in run-once mode when every test passed.
		go func() {
			g.shutdownCallback(nil)
		}()
		return nil
	}

	g.config.Log.Debug("gauntlet started successfully")
	return nil
}

// runSuite runs the whole suite once and processes the results.
func (g *Gauntlet) runSuite() error {
	result, err := g.executor.RunSuite(g.ctx)
	if err != nil {
		// This is a runtime error (not a test failure).
		g.config.Log.Error("Runtime error running suite", "error", err)
		return NewRuntimeError(err)
	}
	g.result = result

	if err := g.formatter.FormatResults(result); err != nil {
		g.config.Log.Error("Error printing results", "error", err)
	}
	g.reporter.ReportResults(result)

	g.config.Log.Info("Suite run completed",
		"run_id", result.RunID,
		"failed", result.Stats.Failed,
		"crashes", result.Stats.Crashes)
	return nil
}

// Result returns the most recent run's result, nil before the first run.
func (g *Gauntlet) Result() *RunResult {
	return g.result
}

// Stop stops the gauntlet service.
func (g *Gauntlet) Stop(ctx context.Context) error {
	g.config.Log.Info("Stopping gauntlet")

	if !g.running.Load() {
		g.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	g.running.Store(false)
	if err := g.scheduler.Stop(); err != nil {
		return err
	}

	g.config.Log.Info("gauntlet stopped successfully")
	return nil
}

// Stopped returns true if the gauntlet service is stopped.
func (g *Gauntlet) Stopped() bool {
	return !g.running.Load()
}

// WaitForShutdown blocks until all goroutines have terminated.
func (g *Gauntlet) WaitForShutdown(ctx context.Context) error {
	return g.scheduler.WaitForShutdown(ctx)
}
