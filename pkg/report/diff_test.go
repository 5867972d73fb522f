package report_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/dtannotate/pkg/report"
)

func init() {
	color.NoColor = true //nolint:reassign // plain output for assertions
}

func TestLineDiff(t *testing.T) {
	t.Parallel()

	before := "a {\n\tclocks = <0x08 0x41>;\n};\n"
	after := "a {\n\tclocks = <&cru 65>;\n};\n"

	var buf bytes.Buffer

	stats, err := report.WriteDiff(&buf, report.LineDiff(before, after), false)
	require.NoError(t, err)

	assert.Equal(t, report.DiffStats{Added: 1, Removed: 1, Same: 2}, stats)
	assert.Equal(t, "- \tclocks = <0x08 0x41>;\n+ \tclocks = <&cru 65>;\n", buf.String())
	assert.Equal(t, "+1 -1", stats.String())
}

func TestLineDiff_Full(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	stats, err := report.WriteDiff(&buf, report.LineDiff("x\ny\n", "x\nz\n"), true)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Same)
	assert.Contains(t, buf.String(), "  x\n")
	assert.Contains(t, buf.String(), "- y\n")
	assert.Contains(t, buf.String(), "+ z\n")
}

func TestLineDiff_Identical(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	stats, err := report.WriteDiff(&buf, report.LineDiff("same\n", "same\n"), false)
	require.NoError(t, err)

	assert.Zero(t, stats.Added+stats.Removed)
	assert.Empty(t, buf.String())
}
