package suite

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is wrapped by constructors when a required argument is
// missing or malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// BenchPrefix marks a runner as a benchmark: the engine times the body and
// reports the elapsed duration alongside the result.
const BenchPrefix = "bench_"

// Body is a test function. Its only effect is through the context it is
// handed; the return is meaningless.
type Body func(t *T)

// Runner pairs a named, described test with its body. Runners are immutable
// after construction and safe to share read-only for the suite's lifetime.
type Runner struct {
	name        string
	description string
	body        Body
}

// NewRunner builds a runner. The name and body are required; a missing
// description is normalized to the empty string so downstream formatting
// never special-cases it.
func NewRunner(body Body, name, description string) (*Runner, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: runner name is required", ErrInvalidArgument)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: runner body is required", ErrInvalidArgument)
	}
	return &Runner{
		name:        name,
		description: description,
		body:        body,
	}, nil
}

// Name returns the runner's display identity.
func (r *Runner) Name() string {
	return r.name
}

// Description returns the runner's description, possibly empty.
func (r *Runner) Description() string {
	return r.description
}

// Benchmark reports whether the runner's name opts it into timing.
func (r *Runner) Benchmark() bool {
	return strings.HasPrefix(r.name, BenchPrefix)
}
