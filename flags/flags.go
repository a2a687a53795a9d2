package flags

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "GAUNTLET"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + strings.ToUpper(name)}
}

var (
	Manifest = &cli.StringFlag{
		Name:    "manifest",
		Value:   "",
		EnvVars: prefixEnvVars("MANIFEST"),
		Usage:   "Path to a yaml suite manifest selecting registered tests (eg. 'suite.yaml')",
	}
	FatalFailures = &cli.BoolFlag{
		Name:    "fatal-failures",
		Value:   false,
		EnvVars: prefixEnvVars("FATAL_FAILURES"),
		Usage:   "Abort the suite on the first failing test",
	}
	Quiet = &cli.BoolFlag{
		Name:    "quiet",
		Value:   false,
		EnvVars: prefixEnvVars("QUIET"),
		Usage:   "Suppress per-test output; stats and exit code are unaffected",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between suite runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn, error",
	}
	MetricsEnabled = &cli.BoolFlag{
		Name:    "metrics-enabled",
		Value:   false,
		EnvVars: prefixEnvVars("METRICS_ENABLED"),
		Usage:   "Serve prometheus metrics and a health endpoint",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	Manifest,
	FatalFailures,
	Quiet,
	RunInterval,
	LogLevel,
	MetricsEnabled,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
