package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dtsio"
	"github.com/Sumatoshi-tech/dtannotate/pkg/observability"
	"github.com/Sumatoshi-tech/dtannotate/pkg/report"
)

func newDiffCommand(globals *GlobalFlags) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "diff <input>",
		Short: "Show what annotation would change",
		Long: `Annotate the input in memory and print a line diff against it.
Nothing is written to disk.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, globals, observability.ModeCLI)
			if err != nil {
				return err
			}

			defer a.close(cmd.Context())

			src, err := dtsio.ReadSource(args[0])
			if err != nil {
				return err
			}

			before := string(src)
			after := a.annotator().Annotate(cmd.Context(), before).Text("")

			stats, err := report.WriteDiff(cmd.OutOrStdout(), report.LineDiff(before, after), full)
			if err != nil {
				return err
			}

			a.logger.InfoContext(cmd.Context(), "diff finished", "path", args[0], "changes", stats.String())

			if !globals.Quiet {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], stats)
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "also print unchanged lines")

	return cmd
}
