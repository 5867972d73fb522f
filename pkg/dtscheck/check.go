// Package dtscheck verifies device tree source syntax with the tree-sitter
// devicetree grammar.
package dtscheck

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/devicetree"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Issue kinds.
const (
	KindError   = "error"
	KindMissing = "missing"
)

const maxIssueText = 60

var (
	errNoRootNode = errors.New("no root node")
	errPoolType   = errors.New("unexpected parser type in pool")
)

// Issue is one syntax problem. Line and Column are 1-based.
type Issue struct {
	Kind   string `json:"kind"   yaml:"kind"`
	Text   string `json:"text"   yaml:"text"`
	Line   int    `json:"line"   yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// String formats the issue as "line:column: kind near text".
func (i Issue) String() string {
	if i.Text == "" {
		return fmt.Sprintf("%d:%d: %s", i.Line, i.Column, i.Kind)
	}

	return fmt.Sprintf("%d:%d: %s near %q", i.Line, i.Column, i.Kind, i.Text)
}

// Report lists the syntax issues of one source.
type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Valid reports whether the source parsed without issues.
func (r Report) Valid() bool {
	return len(r.Issues) == 0
}

// Checker parses sources with a pool of tree-sitter parsers.
// It is safe for concurrent use.
type Checker struct {
	pool sync.Pool
}

// NewChecker creates a checker for the devicetree grammar.
func NewChecker() *Checker {
	lang := sitter.NewLanguage(devicetree.GetLanguage())

	return &Checker{
		pool: sync.Pool{
			New: func() any {
				parser := sitter.NewParser()
				parser.SetLanguage(lang)

				return parser
			},
		},
	}
}

// Check parses src and collects error and missing nodes.
func (c *Checker) Check(ctx context.Context, src []byte) (Report, error) {
	parser, ok := c.pool.Get().(*sitter.Parser)
	if !ok {
		return Report{}, errPoolType
	}

	defer c.pool.Put(parser)

	tree, err := parser.ParseString(ctx, nil, src)
	if err != nil {
		return Report{}, fmt.Errorf("parse devicetree: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return Report{}, errNoRootNode
	}

	var report Report

	if root.HasError() {
		collectIssues(root, src, &report.Issues)
	}

	return report, nil
}

// collectIssues walks the subtrees that contain errors. An error node is
// reported once; its children are not visited.
func collectIssues(n sitter.Node, src []byte, issues *[]Issue) {
	if n.IsNull() {
		return
	}

	switch {
	case n.IsMissing():
		*issues = append(*issues, newIssue(n, KindMissing, ""))

		return
	case n.IsError():
		*issues = append(*issues, newIssue(n, KindError, n.Content(src)))

		return
	}

	if !n.HasError() {
		return
	}

	for i := range n.ChildCount() {
		collectIssues(n.Child(i), src, issues)
	}
}

func newIssue(n sitter.Node, kind, text string) Issue {
	if len(text) > maxIssueText {
		text = text[:maxIssueText]
	}

	start := n.StartPoint()

	return Issue{
		Kind:   kind,
		Text:   text,
		Line:   int(start.Row) + 1,    //nolint:gosec // tree-sitter coordinates fit in int
		Column: int(start.Column) + 1, //nolint:gosec // tree-sitter coordinates fit in int
	}
}
