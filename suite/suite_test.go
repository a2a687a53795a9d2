package suite

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauntlet/reporting"
	"github.com/probeworks/gauntlet/types"
)

// crashRef stays nil so crashing test bodies can raise a real memory fault.
var crashRef *int

// captureSink records every report it receives, for asserting on the
// reporting boundary without parsing console output.
type captureSink struct {
	records []*types.TestRecord
}

func (s *captureSink) Report(rec *types.TestRecord) error {
	s.records = append(s.records, rec)
	return nil
}

// stubGuard lets tests drive the engine with a controllable guard.
type stubGuard struct {
	installed bool
	count     uint64
}

func (g *stubGuard) Snapshot() uint64   { return g.count }
func (g *stubGuard) Installed() bool    { return g.installed }
func (g *stubGuard) Trap(fn func()) any { fn(); return nil }

func newTestSuite(sink reporting.Sink) *Suite {
	return New(Config{
		Log:  log.New(),
		Sink: sink,
	})
}

func registerPassing(t *testing.T, s *Suite, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, s.Register(func(*T) {}, name, ""))
	}
}

func TestRunExecutesAllInOrder(t *testing.T) {
	sink := &captureSink{}
	s := newTestSuite(sink)

	var order []string
	for _, name := range []string{"test_a", "test_b", "test_c"} {
		name := name
		require.NoError(t, s.Register(func(*T) {
			order = append(order, name)
		}, name, ""))
	}

	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{"test_a", "test_b", "test_c"}, order)
	assert.Equal(t, 3, s.Ran())
	assert.True(t, s.Finished())
	assert.NotEmpty(t, s.RunID())

	require.Len(t, sink.records, 3)
	for i, rec := range sink.records {
		assert.Equal(t, i+1, rec.Ordinal)
		assert.Equal(t, 3, rec.Total)
		assert.Equal(t, types.StatusPass, rec.Status)
	}
}

func TestRunAbortsOnFatalFailure(t *testing.T) {
	s := newTestSuite(reporting.NopSink{})

	thirdRan := false
	require.NoError(t, s.Register(func(*T) {}, "test_ok", ""))
	require.NoError(t, s.Register(func(tc *T) {
		tc.RecordFailure("broken")
	}, "test_broken", ""))
	require.NoError(t, s.Register(func(*T) {
		thirdRan = true
	}, "test_never", ""))

	err := s.Run(context.Background(), true)

	require.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, 2, s.Ran(), "the failing test itself is counted as ran")
	assert.False(t, s.Finished())
	assert.False(t, thirdRan, "runners past the failure must not execute")
	assert.True(t, s.FatalFailures())
}

func TestRunContinuesPastFailureByDefault(t *testing.T) {
	s := newTestSuite(reporting.NopSink{})

	require.NoError(t, s.Register(func(tc *T) {
		tc.RecordFailure("broken")
	}, "test_broken", ""))
	registerPassing(t, s, "test_after")

	require.NoError(t, s.Run(context.Background(), false))
	assert.Equal(t, 2, s.Ran())
	assert.True(t, s.Finished())
}

func TestStepPastEndIsNoop(t *testing.T) {
	s := newTestSuite(reporting.NopSink{})
	registerPassing(t, s, "test_only")

	require.NoError(t, s.Run(context.Background(), false))
	require.NoError(t, s.Step(context.Background(), false))

	assert.Equal(t, 1, s.Ran())
}

func TestStepRequiresInstalledGuard(t *testing.T) {
	s := New(Config{
		Log:   log.New(),
		Sink:  reporting.NopSink{},
		Guard: &stubGuard{installed: false},
	})
	registerPassing(t, s, "test_stuck")

	err := s.Step(context.Background(), false)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAborted, "a missing guard is an engine error, not a test failure")
	assert.Equal(t, 0, s.Ran(), "the cursor must not advance")
}

func TestFailurePrecedesErrors(t *testing.T) {
	sink := &captureSink{}
	s := newTestSuite(sink)

	require.NoError(t, s.Register(func(tc *T) {
		tc.RecordError("warn one")
		tc.RecordFailure("fatal")
		tc.RecordError("warn two")
	}, "test_mixed", ""))

	require.NoError(t, s.Run(context.Background(), false))

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.Equal(t, types.StatusFail, rec.Status, "failure outranks errors in classification")
	assert.Equal(t, "fatal", rec.FailureMessage)
	assert.Equal(t, []string{"warn one", "warn two"}, rec.ErrorMessages)
}

func TestErrorsClassifyWithoutFailing(t *testing.T) {
	sink := &captureSink{}
	s := newTestSuite(sink)

	require.NoError(t, s.Register(func(tc *T) {
		tc.RecordError("one")
		tc.RecordError("two")
		tc.RecordError("three")
	}, "test_errs", ""))

	require.NoError(t, s.Run(context.Background(), true))

	assert.True(t, s.Finished(), "errors alone never abort, even with fatal failures on")
	require.Len(t, sink.records, 1)
	assert.Equal(t, types.StatusError, sink.records[0].Status)
	assert.Len(t, sink.records[0].ErrorMessages, 3)
}

func TestBenchmarkTimesAutomatically(t *testing.T) {
	sink := &captureSink{}
	s := newTestSuite(sink)

	require.NoError(t, s.Register(func(*T) {
		time.Sleep(10 * time.Millisecond)
	}, "bench_sleep", ""))

	require.NoError(t, s.Run(context.Background(), false))

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.True(t, rec.Benchmark)
	assert.GreaterOrEqual(t, rec.Elapsed, 10*time.Millisecond)

	res := s.Result(0)
	assert.False(t, res.StartedAt().IsZero())
	assert.False(t, res.EndedAt().IsZero())
	assert.False(t, res.EndedAt().Before(res.StartedAt()))
}

func TestBenchmarkRespectsExplicitStop(t *testing.T) {
	sink := &captureSink{}
	s := newTestSuite(sink)

	// The body stops the timer itself and then keeps working; the engine's
	// fallback stamp must not overwrite the body's.
	require.NoError(t, s.Register(func(tc *T) {
		time.Sleep(5 * time.Millisecond)
		tc.StopTimer()
		time.Sleep(30 * time.Millisecond)
	}, "bench_early_stop", ""))

	require.NoError(t, s.Run(context.Background(), false))

	require.Len(t, sink.records, 1)
	assert.Less(t, sink.records[0].Elapsed, 30*time.Millisecond)
}

func TestCrashBecomesRecordedFailure(t *testing.T) {
	sink := &captureSink{}
	s := newTestSuite(sink)

	registerPassing(t, s, "test_before")
	require.NoError(t, s.Register(func(*T) {
		*crashRef = 1
	}, "test_crash", ""))
	registerPassing(t, s, "test_after")

	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, 3, s.Ran(), "the suite must survive the fault and keep going")
	assert.Equal(t, 1, s.CrashCount())

	require.Len(t, sink.records, 3)
	assert.Equal(t, types.StatusPass, sink.records[0].Status)
	assert.Equal(t, types.StatusFail, sink.records[1].Status)
	assert.Equal(t, CrashFailureMessage, sink.records[1].FailureMessage)
	assert.Equal(t, types.StatusPass, sink.records[2].Status)
}

func TestCrashAbortsUnderFatalFailures(t *testing.T) {
	s := newTestSuite(reporting.NopSink{})

	require.NoError(t, s.Register(func(*T) {
		*crashRef = 1
	}, "test_crash", ""))
	registerPassing(t, s, "test_never")

	err := s.Run(context.Background(), true)

	require.ErrorIs(t, err, ErrAborted, "a crash is a failure, so it triggers the abort policy")
	assert.Equal(t, 1, s.Ran())
	assert.Equal(t, 1, s.CrashCount())
}

func TestOrdinaryPanicIsRecordedNotCounted(t *testing.T) {
	sink := &captureSink{}
	s := newTestSuite(sink)

	require.NoError(t, s.Register(func(*T) {
		panic("boom")
	}, "test_panic", ""))

	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, 0, s.CrashCount(), "an explicit panic is not a memory fault")
	require.Len(t, sink.records, 1)
	assert.Equal(t, types.StatusFail, sink.records[0].Status)
	assert.Contains(t, sink.records[0].FailureMessage, "boom")
}

func TestResetAllowsDeterministicRerun(t *testing.T) {
	s := newTestSuite(reporting.NopSink{})

	registerPassing(t, s, "test_ok")
	require.NoError(t, s.Register(func(tc *T) {
		tc.RecordFailure("always")
	}, "test_bad", ""))

	require.NoError(t, s.Run(context.Background(), false))
	firstID := s.RunID()
	require.True(t, s.Finished())

	s.Reset()
	assert.Equal(t, 0, s.Ran())
	assert.False(t, s.Finished())
	assert.Equal(t, 0, s.CrashCount())
	assert.Empty(t, s.RunID())
	assert.Equal(t, 2, s.Len(), "registered runners survive a reset")

	require.NoError(t, s.Run(context.Background(), false))
	assert.NotEqual(t, firstID, s.RunID(), "each run gets a fresh identifier")
	assert.False(t, s.Result(0).Failed())
	assert.True(t, s.Result(1).Failed())
}

func TestQuietSinkDoesNotChangeOutcomes(t *testing.T) {
	register := func(s *Suite) {
		require.NoError(t, s.Register(func(tc *T) { tc.RecordFailure("bad") }, "test_bad", ""))
		require.NoError(t, s.Register(func(tc *T) { tc.RecordError("meh") }, "test_meh", ""))
		require.NoError(t, s.Register(func(*T) {}, "test_ok", ""))
	}

	loud := newTestSuite(&captureSink{})
	register(loud)
	require.NoError(t, loud.Run(context.Background(), false))

	quiet := New(Config{Log: log.New(), Quiet: true})
	register(quiet)
	require.NoError(t, quiet.Run(context.Background(), false))

	require.Equal(t, loud.Ran(), quiet.Ran())
	for i := 0; i < loud.Ran(); i++ {
		assert.Equal(t, loud.Result(i).Failed(), quiet.Result(i).Failed())
		assert.Equal(t, loud.Result(i).ErrorCount(), quiet.Result(i).ErrorCount())
	}
}

func TestResultsReturnsCopy(t *testing.T) {
	s := newTestSuite(reporting.NopSink{})
	registerPassing(t, s, "test_one", "test_two")
	require.NoError(t, s.Run(context.Background(), false))

	results := s.Results()
	require.Len(t, results, 2)
	results[0] = nil

	assert.NotNil(t, s.Result(0), "mutating the returned slice must not touch suite state")
}

func TestSetSinkNilFallsBackToNop(t *testing.T) {
	s := newTestSuite(reporting.NopSink{})
	s.SetSink(nil)
	registerPassing(t, s, "test_ok")

	require.NoError(t, s.Run(context.Background(), false))
	assert.Equal(t, 1, s.Ran())
}
