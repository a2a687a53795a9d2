package gauntlet

import (
	"github.com/probeworks/gauntlet/metrics"
	"github.com/probeworks/gauntlet/types"
)

// MetricsReporter is responsible for reporting metrics from run results.
type MetricsReporter interface {
	ReportResults(result *RunResult)
}

// DefaultMetricsReporter implements the MetricsReporter interface.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults reports the run results to metrics systems.
func (r *DefaultMetricsReporter) ReportResults(result *RunResult) {
	status := types.StatusPass
	if result.Stats.Failed > 0 {
		status = types.StatusFail
	} else if result.Stats.Errored > 0 {
		status = types.StatusError
	}
	metrics.RecordRun(
		result.RunID,
		string(status),
		result.Stats.Ran,
		result.Stats.Failed,
		result.Duration,
	)
}
