package gauntlet

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"

	"github.com/probeworks/gauntlet/reporting"
	"github.com/probeworks/gauntlet/suite"
	"github.com/probeworks/gauntlet/types"
)

// ResultFormatter is responsible for formatting and displaying run results.
type ResultFormatter interface {
	FormatResults(result *RunResult) error
}

// ConsoleResultFormatter implements the ResultFormatter interface. It prints
// the results table followed by the stats summary block.
type ConsoleResultFormatter struct {
	suite  *suite.Suite
	logger log.Logger
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(s *suite.Suite, logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		suite:  s,
		logger: logger,
	}
}

// FormatResults formats and displays the results of one run.
func (f *ConsoleResultFormatter) FormatResults(result *RunResult) error {
	f.logger.Info("Printing results...")

	title := fmt.Sprintf("Suite Results (%s)", result.RunID)
	tr := reporting.NewTableReporter(title)
	content := tr.Render(f.records(), reporting.Summary{
		Registered:    result.Stats.Registered,
		Ran:           result.Stats.Ran,
		Failed:        result.Stats.Failed,
		Errored:       result.Stats.Errored,
		Crashes:       result.Stats.Crashes,
		SuccessRate:   result.Stats.SuccessRate,
		FatalFailures: result.Stats.FatalFailures,
	})

	if _, err := fmt.Fprint(os.Stdout, content); err != nil {
		return err
	}
	_, err := fmt.Fprintln(os.Stdout, result.Stats.String())
	return err
}

// records rebuilds display records from the suite's accumulated results.
func (f *ConsoleResultFormatter) records() []*types.TestRecord {
	records := make([]*types.TestRecord, 0, f.suite.Ran())
	for i := 0; i < f.suite.Ran(); i++ {
		runner := f.suite.Runner(i)
		t := f.suite.Result(i)
		records = append(records, &types.TestRecord{
			Ordinal:        i + 1,
			Total:          f.suite.Len(),
			Name:           runner.Name(),
			Description:    runner.Description(),
			Status:         types.Classify(t.Failed(), t.ErrorCount()),
			FailureMessage: t.FailureMessage(),
			ErrorMessages:  t.ErrorMessages(),
			Benchmark:      runner.Benchmark(),
			Elapsed:        t.Elapsed(),
		})
	}
	return records
}
