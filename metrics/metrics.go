package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/probeworks/gauntlet/types"
)

const (
	MetricsNamespace = "gauntlet"
)

var (
	Debug                bool = true
	validResults              = []types.Status{types.StatusPass, types.StatusFail, types.StatusError}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of executed tests by result",
	}, []string{
		"run_id",
		"test",
		"result",
	})

	crashesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "crashes_total",
		Help:      "Count of fatal memory faults intercepted during tests",
	}, []string{
		"run_id",
	})

	suiteResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_results",
		Help:      "Result of suite runs",
	}, []string{
		"run_id",
		"result",
	})

	suiteTestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_tests_total",
		Help:      "Total number of tests executed per suite run",
	}, []string{
		"run_id",
	})

	suiteTestsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_tests_failed",
		Help:      "Number of failed tests per suite run",
	}, []string{
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration_seconds",
		Help:      "Duration of suite runs",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordTest counts one executed test by its classification.
func RecordTest(runID string, name string, result types.Status) {
	if !isValidResult(result) {
		log.Error("RecordTest - invalid result", "result", result)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "tests_total",
			"run_id", runID,
			"test", name,
			"result", result)
	}
	testsTotal.WithLabelValues(runID, name, string(result)).Inc()
}

// RecordCrash counts one intercepted fatal memory fault.
func RecordCrash(runID string) {
	if Debug {
		log.Debug("metric inc", "m", "crashes_total", "run_id", runID)
	}
	crashesTotal.WithLabelValues(runID).Inc()
}

// RecordRun records the aggregate outcome of one suite run.
func RecordRun(
	runID string,
	result string,
	total int,
	failed int,
	duration time.Duration,
) {
	suiteResults.WithLabelValues(runID, result).Set(1)
	suiteTestsTotal.WithLabelValues(runID).Add(float64(total))
	suiteTestsFailed.WithLabelValues(runID).Add(float64(failed))
	suiteDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidResult(result types.Status) bool {
	return slices.Contains(validResults, result)
}
