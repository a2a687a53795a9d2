package gauntlet

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauntlet/stats"
	"github.com/probeworks/gauntlet/suite"
)

// TestConsoleResultFormatter_FormatResults is mostly a visual path; we check
// that a run with mixed outcomes formats without error.
func TestConsoleResultFormatter_FormatResults(t *testing.T) {
	s := suite.New(suite.Config{Log: log.New(), Quiet: true})
	require.NoError(t, s.Register(func(*suite.T) {}, "test_ok", "passes"))
	require.NoError(t, s.Register(func(tc *suite.T) {
		tc.RecordFailure("broken")
	}, "test_bad", "fails"))
	require.NoError(t, s.Run(context.Background(), false))

	formatter := NewConsoleResultFormatter(s, log.New())
	err := formatter.FormatResults(&RunResult{
		RunID: s.RunID(),
		Stats: stats.Derive(s),
	})

	assert.NoError(t, err)
}

// TestConsoleResultFormatter_EmptySuite checks that a run of zero tests still
// renders a table with only the footer.
func TestConsoleResultFormatter_EmptySuite(t *testing.T) {
	s := suite.New(suite.Config{Log: log.New(), Quiet: true})

	formatter := NewConsoleResultFormatter(s, log.New())
	err := formatter.FormatResults(&RunResult{
		RunID: "empty-run",
		Stats: stats.Derive(s),
	})

	assert.NoError(t, err)
}

func TestFormatterRecordsMirrorSuiteResults(t *testing.T) {
	s := suite.New(suite.Config{Log: log.New(), Quiet: true})
	require.NoError(t, s.Register(func(tc *suite.T) {
		tc.RecordError("meh")
	}, "test_meh", "records one error"))
	require.NoError(t, s.Register(func(*suite.T) {}, "bench_fast", ""))
	require.NoError(t, s.Run(context.Background(), false))

	formatter := NewConsoleResultFormatter(s, log.New())
	records := formatter.records()

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Ordinal)
	assert.Equal(t, "test_meh", records[0].Name)
	assert.Len(t, records[0].ErrorMessages, 1)
	assert.True(t, records[1].Benchmark)
}
