package gauntlet

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauntlet/suite"
)

func newExecutorSuite(t *testing.T) *suite.Suite {
	t.Helper()
	s := suite.New(suite.Config{Log: log.New(), Quiet: true})
	require.NoError(t, s.Register(func(*suite.T) {}, "test_ok", ""))
	require.NoError(t, s.Register(func(tc *suite.T) {
		tc.RecordFailure("always broken")
	}, "test_bad", ""))
	return s
}

func TestRunSuiteProducesResult(t *testing.T) {
	s := newExecutorSuite(t)
	e := NewDefaultSuiteExecutor(s, false, log.New())

	result, err := e.RunSuite(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.Aborted)
	assert.Equal(t, 2, result.Stats.Ran)
	assert.Equal(t, 1, result.Stats.Failed)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestRunSuiteResetsBetweenRuns(t *testing.T) {
	s := newExecutorSuite(t)
	e := NewDefaultSuiteExecutor(s, false, log.New())

	first, err := e.RunSuite(context.Background())
	require.NoError(t, err)
	second, err := e.RunSuite(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Stats.Ran, second.Stats.Ran, "results must not accumulate across runs")
	assert.Equal(t, first.Stats.Failed, second.Stats.Failed)
}

func TestRunSuiteAbortIsAResultNotAnError(t *testing.T) {
	s := suite.New(suite.Config{Log: log.New(), Quiet: true})
	require.NoError(t, s.Register(func(tc *suite.T) {
		tc.RecordFailure("broken")
	}, "test_bad", ""))
	require.NoError(t, s.Register(func(*suite.T) {}, "test_skipped", ""))

	e := NewDefaultSuiteExecutor(s, true, log.New())
	result, err := e.RunSuite(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Aborted)
	assert.Equal(t, 1, result.Stats.Ran)
	assert.True(t, result.Stats.FatalFailures)
}
