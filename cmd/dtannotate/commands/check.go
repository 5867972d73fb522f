package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dtscheck"
	"github.com/Sumatoshi-tech/dtannotate/pkg/dtsio"
	"github.com/Sumatoshi-tech/dtannotate/pkg/observability"
	"github.com/Sumatoshi-tech/dtannotate/pkg/report"
)

// ErrSyntax is returned when a checked file has syntax issues.
var ErrSyntax = errors.New("syntax check failed")

func newCheckCommand(globals *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Syntax-check device tree sources",
		Long: `Parse each file with the tree-sitter devicetree grammar and report
syntax errors and missing tokens with their positions.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, globals, observability.ModeCLI)
			if err != nil {
				return err
			}

			defer a.close(cmd.Context())

			checker := dtscheck.NewChecker()
			failed := 0

			for _, path := range args {
				src, readErr := dtsio.ReadSource(path)
				if readErr != nil {
					return readErr
				}

				rep, checkErr := checker.Check(cmd.Context(), src)
				if checkErr != nil {
					return fmt.Errorf("check %s: %w", path, checkErr)
				}

				if !rep.Valid() {
					failed++
				}

				writeErr := report.WriteCheck(cmd.OutOrStdout(), path, rep)
				if writeErr != nil {
					return writeErr
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d file(s)", ErrSyntax, failed, len(args))
			}

			return nil
		},
	}
}
