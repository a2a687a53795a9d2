package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gauntlet/types"
)

func renderRecord(t *testing.T, rec *types.TestRecord) string {
	t.Helper()
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)
	require.NoError(t, sink.Report(rec))
	return stripansi.Strip(buf.String())
}

func TestConsoleSinkPassingTest(t *testing.T) {
	out := renderRecord(t, &types.TestRecord{
		Ordinal:     1,
		Total:       4,
		Name:        "test_alloc",
		Description: "allocates a buffer",
		Status:      types.StatusPass,
	})

	assert.Equal(t, "okay: test 1/4 (test_alloc): allocates a buffer\n", out)
}

func TestConsoleSinkFailingTest(t *testing.T) {
	out := renderRecord(t, &types.TestRecord{
		Ordinal:        2,
		Total:          4,
		Name:           "test_bounds",
		Description:    "checks slice bounds",
		Status:         types.StatusFail,
		FailureMessage: "index out of range",
	})

	assert.Contains(t, out, "fail: test 2/4 (test_bounds): checks slice bounds\n")
	assert.Contains(t, out, "      index out of range\n", "failure detail is indented under the head line")
}

func TestConsoleSinkErroringTest(t *testing.T) {
	out := renderRecord(t, &types.TestRecord{
		Ordinal:       3,
		Total:         4,
		Name:          "test_flaky",
		Status:        types.StatusError,
		ErrorMessages: []string{"first", "second"},
	})

	assert.Contains(t, out, "err:  test 3/4 (test_flaky): \n")
	assert.Contains(t, out, "encountered 2 errors.")
	assert.Contains(t, out, "      1. first\n")
	assert.Contains(t, out, "      2. second\n")
}

func TestConsoleSinkBenchmarkLine(t *testing.T) {
	out := renderRecord(t, &types.TestRecord{
		Ordinal:   4,
		Total:     4,
		Name:      "bench_alloc",
		Status:    types.StatusPass,
		Benchmark: true,
		Elapsed:   1500 * time.Millisecond,
	})

	assert.Contains(t, out, "bench: test (bench_alloc) took 1s 500000000ns")
}

func TestConsoleSinkNilWriterDefaultsToStdout(t *testing.T) {
	sink := NewConsoleSink(nil)
	require.NotNil(t, sink.out)
}

func TestNopSinkDiscards(t *testing.T) {
	assert.NoError(t, NopSink{}.Report(&types.TestRecord{Name: "test_ignored"}))
}
