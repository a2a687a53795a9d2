package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		failed     bool
		errorCount int
		want       Status
	}{
		{name: "clean test passes", want: StatusPass},
		{name: "failure classifies as fail", failed: true, want: StatusFail},
		{name: "errors classify as error", errorCount: 2, want: StatusError},
		{name: "failure outranks errors", failed: true, errorCount: 5, want: StatusFail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.failed, tc.errorCount))
		})
	}
}

func TestElapsedParts(t *testing.T) {
	rec := &TestRecord{Elapsed: 2*time.Second + 250*time.Millisecond}
	secs, nanos := rec.ElapsedParts()
	assert.Equal(t, int64(2), secs)
	assert.Equal(t, int64(250_000_000), nanos)

	rec = &TestRecord{}
	secs, nanos = rec.ElapsedParts()
	assert.Zero(t, secs)
	assert.Zero(t, nanos)

	rec = &TestRecord{Elapsed: -time.Second}
	secs, nanos = rec.ElapsedParts()
	assert.Zero(t, secs, "negative durations clamp to zero")
	assert.Zero(t, nanos)
}
