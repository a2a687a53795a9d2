// Package stats derives aggregate numbers from a suite's accumulated
// results. A Stats value is a point-in-time snapshot; it does not observe
// suite mutation after derivation.
package stats

import (
	"fmt"
	"strings"

	"github.com/probeworks/gauntlet/suite"
)

// Outcome is the at-a-glance pass/fail record of one executed test.
type Outcome struct {
	Name string
	OK   bool
}

// Stats aggregates the outcomes of the tests a suite has run so far.
type Stats struct {
	Outcomes      []Outcome
	Registered    int     // number of registered tests
	Ran           int     // number of tests actually executed
	Errored       int     // tests that recorded at least one error
	Failed        int     // tests that failed
	Crashes       int     // fatal memory faults intercepted
	SuccessRate   float64 // fraction of run tests with neither failure nor error
	FatalFailures bool    // whether the run used the abort-on-failure policy
}

// Derive builds a snapshot over the results the suite holds at this moment.
// Deriving is idempotent and legal at any point of the suite lifecycle,
// including over a partial run.
func Derive(s *suite.Suite) *Stats {
	st := &Stats{
		Registered:    s.Len(),
		Ran:           s.Ran(),
		Crashes:       s.CrashCount(),
		FatalFailures: s.FatalFailures(),
	}

	clean := 0
	for i := 0; i < s.Ran(); i++ {
		result := s.Result(i)
		st.Outcomes = append(st.Outcomes, Outcome{
			Name: s.Runner(i).Name(),
			OK:   !result.Failed(),
		})
		if result.ErrorCount() > 0 {
			st.Errored++
		}
		if result.Failed() {
			st.Failed++
		}
		if !result.Failed() && result.ErrorCount() == 0 {
			clean++
		}
	}

	// A run of zero tests has a defined rate of 0 rather than being an error.
	if st.Ran > 0 {
		st.SuccessRate = float64(clean) / float64(st.Ran)
	}
	return st
}

// String renders the summary block followed by the per-test outcomes.
func (st *Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ran %d of %d tests.\n", st.Ran, st.Registered)
	fmt.Fprintf(&b, "Failed %d of %d tests. (Fatal failures: %t)\n", st.Failed, st.Registered, st.FatalFailures)
	fmt.Fprintf(&b, "Errors during testing: %d\n", st.Errored)
	fmt.Fprintf(&b, "Success rate: %0.2f\n\n", st.SuccessRate)

	for _, outcome := range st.Outcomes {
		if outcome.OK {
			fmt.Fprintf(&b, "%s: okay\n", outcome.Name)
		} else {
			fmt.Fprintf(&b, "%s: not okay\n", outcome.Name)
		}
	}
	return b.String()
}
