package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dtscheck"
)

// WriteCheck prints a syntax check result for label.
func WriteCheck(w io.Writer, label string, rep dtscheck.Report) error {
	if rep.Valid() {
		_, err := color.New(color.FgGreen).Fprintf(w, "%s: syntax OK\n", label)

		return err
	}

	_, err := color.New(color.FgRed).Fprintf(w, "%s: %d syntax issue(s)\n", label, len(rep.Issues))
	if err != nil {
		return err
	}

	for _, issue := range rep.Issues {
		_, err = fmt.Fprintf(w, "  - %s\n", issue)
		if err != nil {
			return err
		}
	}

	return nil
}
