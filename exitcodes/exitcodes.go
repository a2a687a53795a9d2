// Package exitcodes defines the standard exit codes used by gauntlet.
package exitcodes

// Exit code constants used by gauntlet hosts:
//
// * Success (0): every executed test passed
// * TestFailure (1): one or more tests failed
// * RuntimeErr (2): the harness itself failed (bad config, engine fault)
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
