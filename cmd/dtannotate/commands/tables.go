package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
	"github.com/Sumatoshi-tech/dtannotate/pkg/dtsio"
	"github.com/Sumatoshi-tech/dtannotate/pkg/observability"
	"github.com/Sumatoshi-tech/dtannotate/pkg/report"
)

func newTablesCommand(globals *GlobalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables <input>",
		Short: "Print the symbol and handle tables of a source",
		Long: `Print the symbol table (node path to label, from __symbols__) and the
handle table (phandle value to node path) that annotation resolves against.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, globals, observability.ModeCLI)
			if err != nil {
				return err
			}

			defer a.close(cmd.Context())

			src, err := dtsio.ReadSource(args[0])
			if err != nil {
				return err
			}

			tables := a.annotator().BuildTables(cmd.Context(), dts.SplitLines(string(src)))

			return report.WriteTables(cmd.OutOrStdout(), tables, outFormat)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatTable), "output format: table, yaml, json")

	return cmd
}
