package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStats counts changed lines.
type DiffStats struct {
	Added   int
	Removed int
	Same    int
}

// LineDiff computes a line-level diff between two texts.
func LineDiff(before, after string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(src, dst, false)

	return dmp.DiffCharsToLines(diffs, lines)
}

// WriteDiff prints removed lines with "-" and added lines with "+".
// Unchanged lines are printed only when full is set. Colors follow
// the global [color.NoColor] switch.
func WriteDiff(w io.Writer, diffs []diffmatchpatch.Diff, full bool) (DiffStats, error) {
	var stats DiffStats

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for _, d := range diffs {
		for _, line := range splitDiffText(d.Text) {
			var err error

			switch d.Type {
			case diffmatchpatch.DiffInsert:
				stats.Added++
				_, err = added.Fprintf(w, "+ %s\n", line)
			case diffmatchpatch.DiffDelete:
				stats.Removed++
				_, err = removed.Fprintf(w, "- %s\n", line)
			case diffmatchpatch.DiffEqual:
				stats.Same++

				if full {
					_, err = fmt.Fprintf(w, "  %s\n", line)
				}
			}

			if err != nil {
				return stats, fmt.Errorf("write diff: %w", err)
			}
		}
	}

	return stats, nil
}

// String renders the counters as "+N -M".
func (s DiffStats) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

func splitDiffText(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}
