package reporting

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/probeworks/gauntlet/types"
)

// Summary carries the aggregate numbers a results table is footed with.
// It is a plain value so this package stays on the consuming side of the
// engine boundary.
type Summary struct {
	Registered    int
	Ran           int
	Failed        int
	Errored       int
	Crashes       int
	SuccessRate   float64
	FatalFailures bool
}

// TableReporter renders a run's records as a colored summary table.
type TableReporter struct {
	title string
}

// NewTableReporter creates a table reporter with the given title.
func NewTableReporter(title string) *TableReporter {
	return &TableReporter{title: title}
}

// Render formats the records and summary as a table and returns the content
// as a string.
func (tr *TableReporter) Render(records []*types.TestRecord, summary Summary) string {
	t := table.NewWriter()
	if tr.title != "" {
		t.SetTitle(tr.title)
	}

	t.AppendHeader(table.Row{"#", "Test", "Description", "Errors", "Duration", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Test", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	anyFailed := false
	for _, rec := range records {
		if rec.Status == types.StatusFail {
			anyFailed = true
		}
		duration := ""
		if rec.Benchmark {
			duration = formatDuration(rec.Elapsed)
		}
		t.AppendRow(table.Row{
			rec.Ordinal,
			rec.Name,
			rec.Description,
			len(rec.ErrorMessages),
			duration,
			resultString(rec.Status),
		})
	}

	if anyFailed {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d/%d ran", summary.Ran, summary.Registered),
		fmt.Sprintf("%d failed, %d erred, %d crashed", summary.Failed, summary.Errored, summary.Crashes),
		"",
		"",
		fmt.Sprintf("%.2f", summary.SuccessRate),
	})

	return t.Render() + "\n"
}

func resultString(st types.Status) string {
	switch st {
	case types.StatusPass:
		return "✓ pass"
	case types.StatusError:
		return "! error"
	default:
		return "✗ fail"
	}
}

// formatDuration formats the duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
