package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
)

// RunSummary describes one completed annotation.
type RunSummary struct {
	Input    string
	Output   string
	Stats    dts.Stats
	Bytes    int64
	Duration time.Duration
}

// WriteSummary renders the run counters as a two-column table.
func WriteSummary(w io.Writer, sum RunSummary) error {
	tbl := newTable()
	tbl.SetTitle(fmt.Sprintf("%s -> %s", sum.Input, sum.Output))
	tbl.AppendHeader(table.Row{"Metric", "Value"})

	stats := sum.Stats

	tbl.AppendRows([]table.Row{
		{"lines in", humanize.Comma(int64(stats.LinesIn))},
		{"lines out", humanize.Comma(int64(stats.LinesOut))},
		{"handle lines dropped", humanize.Comma(int64(stats.DroppedHandles))},
		{"symbol lines dropped", humanize.Comma(int64(stats.DroppedSymbols))},
		{"nodes labeled", humanize.Comma(int64(stats.LabeledNodes))},
		{"handles resolved", humanize.Comma(int64(stats.Resolved))},
		{"handles unresolved", humanize.Comma(int64(stats.Unresolved))},
	})

	for _, rule := range dts.Rules() {
		if n := stats.Rewritten[rule]; n > 0 {
			tbl.AppendRow(table.Row{"rewritten " + rule.String(), humanize.Comma(int64(n))})
		}
	}

	tbl.AppendFooter(table.Row{humanize.Bytes(uint64(max(sum.Bytes, 0))), sum.Duration.Round(time.Microsecond).String()})

	_, err := fmt.Fprintln(w, tbl.Render())

	return err
}

// RewrittenByName flattens the per-rule counters for metrics export.
func RewrittenByName(stats dts.Stats) map[string]int {
	out := make(map[string]int, len(stats.Rewritten))

	for rule, n := range stats.Rewritten {
		out[rule.String()] = n
	}

	return out
}
