package dtscheck_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dtscheck"
)

func TestChecker_ValidSource(t *testing.T) {
	t.Parallel()

	src := []byte("/dts-v1/;\n\n/ {\n\tcompatible = \"rockchip,rk3399\";\n\tserial@0 {\n\t\treg = <0x00 0x100>;\n\t};\n};\n")

	report, err := dtscheck.NewChecker().Check(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, report.Valid(), "issues: %v", report.Issues)
}

func TestChecker_AnnotatedSource(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("../dts/testdata/rk3399.dts.golden")
	require.NoError(t, err)

	report, err := dtscheck.NewChecker().Check(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, report.Valid(), "issues: %v", report.Issues)
}

func TestChecker_BrokenSource(t *testing.T) {
	t.Parallel()

	src := []byte("/ {\n\tfoo = <1 2;\n};\n")

	report, err := dtscheck.NewChecker().Check(context.Background(), src)
	require.NoError(t, err)
	require.False(t, report.Valid())

	first := report.Issues[0]
	assert.GreaterOrEqual(t, first.Line, 1)
	assert.Contains(t, []string{dtscheck.KindError, dtscheck.KindMissing}, first.Kind)
}

func TestChecker_Reusable(t *testing.T) {
	t.Parallel()

	checker := dtscheck.NewChecker()

	for range 3 {
		report, err := checker.Check(context.Background(), []byte("/ {\n};\n"))
		require.NoError(t, err)
		assert.True(t, report.Valid())
	}
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3:5: missing", dtscheck.Issue{Kind: dtscheck.KindMissing, Line: 3, Column: 5}.String())
	assert.Equal(t, "1:2: error near \"x\"", dtscheck.Issue{Kind: dtscheck.KindError, Text: "x", Line: 1, Column: 2}.String())
}
