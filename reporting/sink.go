// Package reporting renders test records for humans. Sinks sit strictly on
// the far side of a write-only boundary: the engine hands each completed
// test over and nothing here feeds back into engine state.
package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/probeworks/gauntlet/types"
)

// Sink consumes one record per completed test, in execution order.
type Sink interface {
	Report(rec *types.TestRecord) error
}

// NopSink discards every record. It backs quiet mode: the engine runs
// identically, nothing is printed.
type NopSink struct{}

func (NopSink) Report(*types.TestRecord) error { return nil }

const indent = 6

// ConsoleSink writes the classic one-result-per-test console format:
//
//	okay: test 1/4 (test_alloc): allocates a buffer
//	fail: test 2/4 (test_bounds): checks slice bounds
//	      index out of range
//
// with pass/fail/error coloring and, for benchmark tests, an extra line
// carrying the measured duration.
type ConsoleSink struct {
	out io.Writer
}

// NewConsoleSink builds a console sink. A nil writer defaults to stdout.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSink{out: out}
}

func (s *ConsoleSink) Report(rec *types.TestRecord) error {
	var b strings.Builder

	head := fmt.Sprintf("%s test %d/%d (%s): ", statusTag(rec.Status), rec.Ordinal, rec.Total, rec.Name)
	b.WriteString(statusColor(rec.Status).Sprint(head))
	b.WriteString(rec.Description)
	b.WriteString("\n")

	switch rec.Status {
	case types.StatusFail:
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(rec.FailureMessage)
		b.WriteString("\n")
	case types.StatusError:
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(statusColor(rec.Status).Sprintf("encountered %d errors.", len(rec.ErrorMessages)))
		b.WriteString("\n")
		for i, msg := range rec.ErrorMessages {
			b.WriteString(strings.Repeat(" ", indent))
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, msg))
		}
	}

	if rec.Benchmark {
		secs, nanos := rec.ElapsedParts()
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(fmt.Sprintf("bench: test (%s) took ", rec.Name))
		b.WriteString(text.FgHiCyan.Sprintf("%ds %dns", secs, nanos))
		b.WriteString("\n")
	}

	_, err := io.WriteString(s.out, b.String())
	return err
}

func statusTag(st types.Status) string {
	switch st {
	case types.StatusFail:
		return "fail:"
	case types.StatusError:
		return "err: " // padded so test ordinals line up across tags
	default:
		return "okay:"
	}
}

func statusColor(st types.Status) text.Color {
	switch st {
	case types.StatusFail:
		return text.FgRed
	case types.StatusError:
		return text.FgYellow
	default:
		return text.FgGreen
	}
}
