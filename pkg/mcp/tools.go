package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
	"github.com/Sumatoshi-tech/dtannotate/pkg/report"
)

// Tool name constants.
const (
	ToolNameAnnotate = "dts_annotate"
	ToolNameTables   = "dts_tables"
	ToolNameCheck    = "dts_check"
)

// MaxSourceInputBytes is the maximum allowed size for inline source input (8 MB).
const MaxSourceInputBytes = 8 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptySource indicates the source parameter is empty.
	ErrEmptySource = errors.New("source parameter is required and must not be empty")
	// ErrSourceTooLarge indicates the source input exceeds the size limit.
	ErrSourceTooLarge = errors.New("source input exceeds maximum size")
)

// Input types (auto-generate JSON schemas via struct tags).

// AnnotateInput is the input schema for the dts_annotate tool.
type AnnotateInput struct {
	Source string `json:"source"          jsonschema:"decompiled device tree source text"`
	Check  bool   `json:"check,omitempty" jsonschema:"also syntax-check the annotated output"`
}

// SourceInput is the input schema for the dts_tables and dts_check tools.
type SourceInput struct {
	Source string `json:"source" jsonschema:"device tree source text"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// AnnotateOutput is the structured result of dts_annotate.
type AnnotateOutput struct {
	Issues     []string       `json:"issues,omitempty"`
	Rewritten  map[string]int `json:"rewritten"`
	Annotated  string         `json:"annotated"`
	LinesIn    int            `json:"lines_in"`
	LinesOut   int            `json:"lines_out"`
	Resolved   int            `json:"resolved"`
	Unresolved int            `json:"unresolved"`
}

func (s *Server) handleAnnotate(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AnnotateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateSource(input.Source)
	if err != nil {
		return errorResult(err)
	}

	res := s.annotator.Annotate(ctx, input.Source)

	out := AnnotateOutput{
		Rewritten:  report.RewrittenByName(res.Stats),
		Annotated:  dts.AssembleString("", res.Lines),
		LinesIn:    res.Stats.LinesIn,
		LinesOut:   res.Stats.LinesOut,
		Resolved:   res.Stats.Resolved,
		Unresolved: res.Stats.Unresolved,
	}

	if input.Check {
		rep, checkErr := s.checker.Check(ctx, []byte(out.Annotated))
		if checkErr != nil {
			return errorResult(fmt.Errorf("check annotated output: %w", checkErr))
		}

		for _, issue := range rep.Issues {
			out.Issues = append(out.Issues, issue.String())
		}
	}

	return jsonResult(out)
}

func (s *Server) handleTables(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input SourceInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateSource(input.Source)
	if err != nil {
		return errorResult(err)
	}

	tables := s.annotator.BuildTables(ctx, dts.SplitLines(input.Source))

	return jsonResult(report.NewTablesDoc(tables))
}

func (s *Server) handleCheck(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input SourceInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateSource(input.Source)
	if err != nil {
		return errorResult(err)
	}

	rep, err := s.checker.Check(ctx, []byte(input.Source))
	if err != nil {
		return errorResult(fmt.Errorf("check source: %w", err))
	}

	return jsonResult(rep)
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func validateSource(source string) error {
	if source == "" {
		return ErrEmptySource
	}

	if len(source) > MaxSourceInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrSourceTooLarge, len(source), MaxSourceInputBytes)
	}

	return nil
}
