package dts_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
)

var errBrokenPipe = errors.New("broken pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errBrokenPipe }

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, dts.SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, dts.SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, dts.SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "", "b"}, dts.SplitLines("a\r\n\r\nb\r\n"))
	assert.Equal(t, []string{""}, dts.SplitLines("\n"))
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	n, err := dts.Assemble(&buf, "// banner", []string{"/ {", "};"})
	require.NoError(t, err)
	assert.Equal(t, "// banner\n/ {\n};\n", buf.String())
	assert.Equal(t, int64(buf.Len()), n)
}

func TestAssemble_HeaderWithNewlineKept(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "// a\n// b\nx\n", dts.AssembleString("// a\n// b\n", []string{"x"}))
	assert.Equal(t, "x\n", dts.AssembleString("", []string{"x"}))
}

func TestAssemble_WriteError(t *testing.T) {
	t.Parallel()

	_, err := dts.Assemble(failingWriter{}, "", []string{"x"})
	require.ErrorIs(t, err, errBrokenPipe)
}
