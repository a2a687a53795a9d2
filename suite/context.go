package suite

import "time"

// T is the mutable record of one test execution. The engine owns it while
// the test body runs, then moves it into the suite's results; test bodies
// interact with it only through the four mutators below.
//
// Timestamps are time.Time values taken from time.Now, whose embedded
// monotonic clock reading makes duration math immune to wall-clock
// adjustment. A zero timestamp means the corresponding event never happened.
//
// T carries no lock: only one test body runs at a time and the engine does
// not touch a context while its body is in flight.
type T struct {
	name string

	failed  bool
	failMsg string
	errMsgs []string

	startedAt time.Time
	endedAt   time.Time
	failedAt  time.Time
	erroredAt time.Time
}

func newT(name string) *T {
	return &T{name: name}
}

// Name returns the name of the test this context belongs to.
func (t *T) Name() string {
	return t.name
}

// RecordFailure marks the test as failed and stores msg as the failure
// message, replacing any earlier one. The failed flag is sticky: once set it
// never reverts within the same execution. Recording a failure does not stop
// the test body; by convention the body returns immediately afterwards, but
// the engine tolerates bodies that keep running.
func (t *T) RecordFailure(msg string) {
	t.failed = true
	t.failMsg = msg
	t.failedAt = time.Now()
}

// RecordError appends a non-fatal error message. Errors accumulate without
// affecting control flow; the error count only ever grows.
func (t *T) RecordError(msg string) {
	t.errMsgs = append(t.errMsgs, msg)
	t.erroredAt = time.Now()
}

// StartTimer stamps the start of the measured interval. The engine calls
// this automatically for benchmark tests; other tests may call it to time an
// inner region.
func (t *T) StartTimer() {
	t.startedAt = time.Now()
}

// StopTimer stamps the end of the measured interval. Calling it without a
// prior StartTimer is legal and simply measures as zero.
func (t *T) StopTimer() {
	t.endedAt = time.Now()
}

// Failed reports whether a failure was recorded.
func (t *T) Failed() bool {
	return t.failed
}

// FailureMessage returns the most recently recorded failure message, or ""
// when the test did not fail.
func (t *T) FailureMessage() string {
	return t.failMsg
}

// ErrorCount returns the number of errors recorded so far.
func (t *T) ErrorCount() int {
	return len(t.errMsgs)
}

// ErrorMessages returns a copy of the recorded error messages in order.
func (t *T) ErrorMessages() []string {
	if len(t.errMsgs) == 0 {
		return nil
	}
	out := make([]string, len(t.errMsgs))
	copy(out, t.errMsgs)
	return out
}

// StartedAt returns the start timestamp, zero if the timer never started.
func (t *T) StartedAt() time.Time { return t.startedAt }

// EndedAt returns the end timestamp, zero if the timer never stopped.
func (t *T) EndedAt() time.Time { return t.endedAt }

// FailedAt returns the timestamp of the last recorded failure.
func (t *T) FailedAt() time.Time { return t.failedAt }

// ErroredAt returns the timestamp of the last recorded error.
func (t *T) ErroredAt() time.Time { return t.erroredAt }

// Elapsed returns the measured duration between StartTimer and StopTimer.
// It is zero when either stamp is missing and saturates at zero should the
// end stamp precede the start stamp.
func (t *T) Elapsed() time.Duration {
	if t.startedAt.IsZero() || t.endedAt.IsZero() {
		return 0
	}
	d := t.endedAt.Sub(t.startedAt)
	if d < 0 {
		return 0
	}
	return d
}
