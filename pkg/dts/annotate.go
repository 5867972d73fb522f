package dts

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "dtannotate/dts"

// Options configures an [Annotator]. Zero values select defaults.
type Options struct {
	// Rules classifies property names. Nil uses [DefaultRuleSet].
	Rules *RuleSet

	// Logger receives progress messages. Nil disables them.
	Logger *slog.Logger

	// Tracer records one span per pass. Nil disables tracing.
	Tracer trace.Tracer
}

// Result is the outcome of annotating one source.
type Result struct {
	Tables Tables
	Lines  []string
	Stats  Stats
}

// Text renders the annotated lines behind header.
func (r Result) Text(header string) string {
	return AssembleString(header, r.Lines)
}

// Annotator runs the table scans and the rewrite pass.
// It holds no per-run state and may be shared.
type Annotator struct {
	rules  *RuleSet
	logger *slog.Logger
	tracer trace.Tracer
}

// NewAnnotator creates an annotator.
func NewAnnotator(opts Options) *Annotator {
	an := &Annotator{
		rules:  opts.Rules,
		logger: opts.Logger,
		tracer: opts.Tracer,
	}

	if an.rules == nil {
		an.rules = DefaultRuleSet()
	}

	if an.logger == nil {
		an.logger = slog.New(slog.DiscardHandler)
	}

	if an.tracer == nil {
		an.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	return an
}

// Annotate annotates source text.
func (an *Annotator) Annotate(ctx context.Context, text string) Result {
	return an.AnnotateLines(ctx, SplitLines(text))
}

// AnnotateLines annotates a source that is already split into lines.
func (an *Annotator) AnnotateLines(ctx context.Context, lines []string) Result {
	ctx, span := an.tracer.Start(ctx, "dts.annotate",
		trace.WithAttributes(attribute.Int("dts.lines", len(lines))))
	defer span.End()

	tables := an.BuildTables(ctx, lines)

	_, rewriteSpan := an.tracer.Start(ctx, "dts.rewrite")

	rw := NewRewriter(an.rules, tables)
	out := rw.Rewrite(lines)

	stats := rw.Stats()
	stats.Symbols = len(tables.Symbols)
	stats.Handles = len(tables.Handles)

	rewriteSpan.SetAttributes(
		attribute.Int("dts.lines.out", stats.LinesOut),
		attribute.Int("dts.handles.unresolved", stats.Unresolved),
	)
	rewriteSpan.End()

	an.logger.DebugContext(ctx, "rewrite finished",
		"lines_in", stats.LinesIn,
		"lines_out", stats.LinesOut,
		"rewritten", stats.RewrittenTotal(),
		"resolved", stats.Resolved,
		"unresolved", stats.Unresolved,
	)

	return Result{Tables: tables, Lines: out, Stats: stats}
}

// BuildTables runs the symbol and handle scans with tracing and logging.
func (an *Annotator) BuildTables(ctx context.Context, lines []string) Tables {
	_, symSpan := an.tracer.Start(ctx, "dts.symbols")
	symbols := BuildSymbolTable(lines)
	symSpan.SetAttributes(attribute.Int("dts.symbols", len(symbols)))
	symSpan.End()

	_, handleSpan := an.tracer.Start(ctx, "dts.handles")
	handles := BuildHandleTable(lines)
	handleSpan.SetAttributes(attribute.Int("dts.handles", len(handles)))
	handleSpan.End()

	if len(symbols) == 0 {
		an.logger.WarnContext(ctx, "no __symbols__ node found, handles stay numeric")
	}

	an.logger.DebugContext(ctx, "tables built", "symbols", len(symbols), "handles", len(handles))

	return Tables{Symbols: symbols, Handles: handles}
}
