package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/dtannotate/pkg/mcp"
	"github.com/Sumatoshi-tech/dtannotate/pkg/observability"
)

func newMCPCommand(globals *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes the annotator as tools that AI agents can discover and invoke:
  - dts_annotate: annotate a decompiled device tree source
  - dts_tables: extract the symbol and handle tables
  - dts_check: syntax-check a device tree source`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, globals, observability.ModeMCP)
			if err != nil {
				return err
			}

			defer a.close(cmd.Context())

			red, err := observability.NewREDMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  a.logger,
				Metrics: red,
				Tracer:  a.providers.Tracer,
				Rules:   a.cfg.RuleSet(),
			})

			return srv.Run(cmd.Context())
		},
	}
}
