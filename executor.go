package gauntlet

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/probeworks/gauntlet/stats"
	"github.com/probeworks/gauntlet/suite"
)

// RunResult bundles one suite run's derived stats with its identity and
// wall time, for the formatter and metrics reporter downstream.
type RunResult struct {
	RunID    string
	Stats    *stats.Stats
	Aborted  bool
	Duration time.Duration
}

// SuiteExecutor is responsible for running the suite.
type SuiteExecutor interface {
	RunSuite(ctx context.Context) (*RunResult, error)
}

// DefaultSuiteExecutor implements the SuiteExecutor interface.
type DefaultSuiteExecutor struct {
	suite         *suite.Suite
	fatalFailures bool
	logger        log.Logger
}

// NewDefaultSuiteExecutor creates a new DefaultSuiteExecutor.
func NewDefaultSuiteExecutor(s *suite.Suite, fatalFailures bool, logger log.Logger) *DefaultSuiteExecutor {
	return &DefaultSuiteExecutor{
		suite:         s,
		fatalFailures: fatalFailures,
		logger:        logger,
	}
}

// RunSuite resets the suite if it has run before, runs every test and
// derives the stats snapshot. A failure-triggered abort is part of the
// result, not an error; errors mean the engine itself could not run.
func (e *DefaultSuiteExecutor) RunSuite(ctx context.Context) (*RunResult, error) {
	if e.suite.Ran() > 0 {
		e.suite.Reset()
	}

	e.logger.Info("Running suite...", "tests", e.suite.Len(), "fatalFailures", e.fatalFailures)
	start := time.Now()
	err := e.suite.Run(ctx, e.fatalFailures)
	aborted := errors.Is(err, suite.ErrAborted)
	if err != nil && !aborted {
		e.logger.Error("Error running suite", "error", err)
		return nil, err
	}

	result := &RunResult{
		RunID:    e.suite.RunID(),
		Stats:    stats.Derive(e.suite),
		Aborted:  aborted,
		Duration: time.Since(start),
	}
	e.logger.Info("Suite run completed",
		"run_id", result.RunID,
		"ran", result.Stats.Ran,
		"failed", result.Stats.Failed,
		"aborted", aborted)
	return result, nil
}
