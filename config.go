package gauntlet

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/probeworks/gauntlet/flags"
)

// Config holds the application configuration
type Config struct {
	ManifestFile  string        // Optional yaml manifest selecting registered tests
	FatalFailures bool          // Abort the suite on the first failing test
	Quiet         bool          // Suppress per-test sink output
	RunInterval   time.Duration // Interval between suite runs
	RunOnce       bool          // Indicates if the service should exit after one run
	Log           log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	manifest := ctx.String(flags.Manifest.Name)
	if manifest != "" {
		abs, err := filepath.Abs(manifest)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for manifest '%s': %w", manifest, err)
		}
		manifest = abs
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	return &Config{
		ManifestFile:  manifest,
		FatalFailures: ctx.Bool(flags.FatalFailures.Name),
		Quiet:         ctx.Bool(flags.Quiet.Name),
		RunInterval:   runInterval,
		RunOnce:       runOnce,
		Log:           log,
	}, nil
}
