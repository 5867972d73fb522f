// Package commands implements the dtannotate CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
	"github.com/Sumatoshi-tech/dtannotate/pkg/dtscheck"
	"github.com/Sumatoshi-tech/dtannotate/pkg/dtsio"
	"github.com/Sumatoshi-tech/dtannotate/pkg/observability"
	"github.com/Sumatoshi-tech/dtannotate/pkg/report"
	"github.com/Sumatoshi-tech/dtannotate/pkg/version"
)

const toolName = "dtannotate"

// ErrVerifyFailed is returned when the annotated output does not parse.
var ErrVerifyFailed = errors.New("annotated output failed syntax verification")

// annotateFlags are the root command's own flags.
type annotateFlags struct {
	noHeader bool
	verify   bool
	stats    bool
}

// NewRootCommand builds the dtannotate command tree.
func NewRootCommand() *cobra.Command {
	globals := &GlobalFlags{}
	flags := &annotateFlags{}

	rootCmd := &cobra.Command{
		Use:   "dtannotate <input> [output]",
		Short: "Annotate decompiled device tree sources",
		Long: `dtannotate rewrites a decompiled device tree source (dtc -I dtb -O dts -@)
into a readable form: numeric phandles become &label references, GPIO, pinctrl
and interrupt cells become symbolic constants, nodes regain their labels, and
phandle declarations and the __symbols__ listing are dropped.

The output defaults to <input> plus the configured suffix (.annotated).
Inputs and outputs ending in .lz4 are transparently (de)compressed.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, globals, flags, args)
		},
	}

	globals.register(rootCmd)

	rootCmd.Flags().BoolVar(&flags.noHeader, "no-header", false, "do not prepend the banner comment")
	rootCmd.Flags().BoolVar(&flags.verify, "verify", false, "syntax-check the annotated output")
	rootCmd.Flags().BoolVar(&flags.stats, "stats", false, "print a statistics table after writing")

	rootCmd.AddCommand(
		newTablesCommand(globals),
		newDiffCommand(globals),
		newCheckCommand(globals),
		newMCPCommand(globals),
		newVersionCommand(),
	)

	return rootCmd
}

func runAnnotate(cmd *cobra.Command, globals *GlobalFlags, flags *annotateFlags, args []string) error {
	a, err := newApp(cmd, globals, observability.ModeCLI)
	if err != nil {
		return err
	}

	defer a.close(cmd.Context())

	input := args[0]

	output := dtsio.DefaultOutputPath(input, a.cfg.Output.Suffix)
	if len(args) > 1 {
		output = args[1]
	}

	job := annotateJob{
		input:  input,
		output: output,
		header: a.cfg.Output.Header && !flags.noHeader,
		verify: a.cfg.Output.Verify || flags.verify,
	}

	summary, err := job.run(cmd.Context(), a)
	if err != nil {
		return err
	}

	if flags.stats {
		return report.WriteSummary(cmd.OutOrStdout(), summary)
	}

	return nil
}

type annotateJob struct {
	input  string
	output string
	header bool
	verify bool
}

// run reads, annotates, writes and optionally verifies one file.
// Input errors surface before any table is built; the output file is
// created only once the annotated text is complete.
func (job annotateJob) run(ctx context.Context, a *app) (report.RunSummary, error) {
	start := time.Now()

	ctx, span := a.providers.Tracer.Start(ctx, "dtannotate.annotate",
		trace.WithAttributes(attribute.String("dts.input", job.input)))
	defer span.End()

	src, err := dtsio.ReadSource(job.input)
	if err != nil {
		return report.RunSummary{}, err
	}

	a.logger.InfoContext(ctx, "read input",
		"path", job.input, "size", humanize.Bytes(uint64(len(src))))

	result := a.annotator().Annotate(ctx, string(src))

	header := ""
	if job.header {
		header = Banner(job.input, time.Now())
	}

	var written int64

	err = dtsio.WriteOutput(job.output, func(w io.Writer) error {
		n, writeErr := dts.Assemble(w, header, result.Lines)
		written = n

		return writeErr
	})
	if err != nil {
		return report.RunSummary{}, err
	}

	a.logger.InfoContext(ctx, "wrote output",
		"path", job.output, "size", humanize.Bytes(uint64(written)))

	summary := report.RunSummary{
		Input:    job.input,
		Output:   job.output,
		Stats:    result.Stats,
		Bytes:    written,
		Duration: time.Since(start),
	}

	a.metrics.RecordRun(ctx, observability.AnnotationStats{
		Rewritten:  report.RewrittenByName(result.Stats),
		Duration:   summary.Duration,
		Lines:      result.Stats.LinesIn,
		Dropped:    result.Stats.Dropped(),
		Resolved:   result.Stats.Resolved,
		Unresolved: result.Stats.Unresolved,
	})

	if job.verify {
		err = verifyOutput(ctx, a, job.output, result.Text(header))
		if err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func verifyOutput(ctx context.Context, a *app, label, text string) error {
	rep, err := dtscheck.NewChecker().Check(ctx, []byte(text))
	if err != nil {
		return fmt.Errorf("verify %s: %w", label, err)
	}

	if rep.Valid() {
		a.logger.DebugContext(ctx, "verified output", "path", label)

		return nil
	}

	for _, issue := range rep.Issues {
		a.logger.WarnContext(ctx, "syntax issue", "path", label, "issue", issue.String())
	}

	return fmt.Errorf("%w: %s has %d issue(s)", ErrVerifyFailed, label, len(rep.Issues))
}

// Banner renders the header comment prepended to annotated output.
func Banner(input string, at time.Time) string {
	return fmt.Sprintf("// %s %s annotated %s at %s", toolName, version.Version, input, at.Format(time.RFC3339))
}
