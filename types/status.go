package types

import "time"

// Status represents the possible classifications of a completed test
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
)

func (s Status) String() string {
	return string(s)
}

// Classify maps a test outcome onto a Status. A test that both failed and
// recorded errors classifies as a failure; errors only count when the test
// did not fail.
func Classify(failed bool, errorCount int) Status {
	if failed {
		return StatusFail
	}
	if errorCount > 0 {
		return StatusError
	}
	return StatusPass
}

// TestRecord is the unit handed to a reporting sink after each test
// completes. It is a plain snapshot; sinks never feed anything back into the
// engine.
type TestRecord struct {
	Ordinal        int // 1-based position of the test in the run
	Total          int // number of registered tests in the suite
	Name           string
	Description    string
	Status         Status
	FailureMessage string        // set when Status == StatusFail
	ErrorMessages  []string      // set when the test recorded errors
	Benchmark      bool
	Elapsed        time.Duration // measured duration for benchmark tests
}

// ElapsedParts splits the measured duration into whole seconds and the
// remaining sub-second nanoseconds, the way benchmark durations are
// displayed.
func (r *TestRecord) ElapsedParts() (secs int64, nanos int64) {
	d := r.Elapsed
	if d < 0 {
		d = 0
	}
	return int64(d / time.Second), int64(d % time.Second)
}
