package commands_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/dtannotate/cmd/dtannotate/commands"
	"github.com/Sumatoshi-tech/dtannotate/pkg/dtsio"
)

const (
	sampleSource = "../../../pkg/dts/testdata/rk3399.dts"
	sampleGolden = "../../../pkg/dts/testdata/rk3399.dts.golden"
)

func init() {
	color.NoColor = true //nolint:reassign // plain output for assertions
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command against an empty config file so the
// developer's own ~/.dtannotate.yaml never leaks into tests.
func execute(t *testing.T, args ...string) cliResult {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o600))

	return executeWithConfig(t, cfgPath, args...)
}

func executeWithConfig(t *testing.T, cfgPath string, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer

	rootCmd := commands.NewRootCommand()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.Execute()

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// copySample copies the sample source into a temp dir.
func copySample(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(sampleSource)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rk3399.dts")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestCLI_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantOut string
		args    []string
	}{
		{"Annotate decompiled device tree sources", []string{"--help"}},
		{"symbol table", []string{"tables", "--help"}},
		{"line diff", []string{"diff", "--help"}},
		{"tree-sitter devicetree grammar", []string{"check", "--help"}},
		{"Model Context Protocol", []string{"mcp", "--help"}},
	}

	for _, tt := range tests {
		res := execute(t, tt.args...)

		require.NoError(t, res.err, tt.args)
		assert.Contains(t, res.stdout, tt.wantOut, tt.args)
	}
}

func TestCLI_UnknownCommandAndMissingArgs(t *testing.T) {
	t.Parallel()

	require.Error(t, execute(t).err)
	require.Error(t, execute(t, "a", "b", "c").err)
	require.Error(t, execute(t, "tables").err)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, commands.ExitCode(nil))
	assert.Equal(t, 1, commands.ExitCode(errors.New("unknown flag")))
	assert.Equal(t, 1, commands.ExitCode(commands.ErrVerifyFailed))
	assert.Equal(t, 3, commands.ExitCode(fmt.Errorf("annotate: %w", dtsio.ErrInputOpen)))
	assert.Equal(t, 6, commands.ExitCode(dtsio.ErrOutputWrite))
}

func TestCLI_Annotate_Golden(t *testing.T) {
	t.Parallel()

	input := copySample(t)
	output := filepath.Join(t.TempDir(), "out.dts")

	res := execute(t, "--no-header", "-q", input, output)
	require.NoError(t, res.err)

	assert.Equal(t, readFile(t, sampleGolden), readFile(t, output))
	assert.Empty(t, res.stderr)
}

func TestCLI_Annotate_DefaultOutputAndHeader(t *testing.T) {
	t.Parallel()

	input := copySample(t)

	res := execute(t, input)
	require.NoError(t, res.err)

	got := readFile(t, input+".annotated")

	firstLine, rest, found := strings.Cut(got, "\n")
	require.True(t, found)

	assert.True(t, strings.HasPrefix(firstLine, "// dtannotate "), firstLine)
	assert.Contains(t, firstLine, "annotated "+input+" at ")
	assert.Equal(t, readFile(t, sampleGolden), rest)

	assert.Contains(t, res.stderr, "read input")
	assert.Contains(t, res.stderr, "wrote output")
}

func TestCLI_Annotate_VerboseLogsDebug(t *testing.T) {
	t.Parallel()

	input := copySample(t)

	res := execute(t, "-v", "--no-header", input)
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, "rewrite finished")
}

func TestCLI_Annotate_MissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "out.dts")

	res := execute(t, filepath.Join(dir, "absent.dts"), output)

	require.ErrorIs(t, res.err, dtsio.ErrInputNotFound)
	assert.Equal(t, dtsio.InputFileNotFound, dtsio.Code(res.err))
	assert.Equal(t, 2, commands.ExitCode(res.err))
	assert.NoFileExists(t, output)
}

func TestCLI_Annotate_EmptyInput(t *testing.T) {
	t.Parallel()

	input := filepath.Join(t.TempDir(), "empty.dts")
	require.NoError(t, os.WriteFile(input, nil, 0o600))

	res := execute(t, input)

	require.ErrorIs(t, res.err, dtsio.ErrInputRead)
	assert.Equal(t, 4, commands.ExitCode(res.err))
	assert.NoFileExists(t, input+".annotated")
}

func TestCLI_Annotate_OutputCreateFailure(t *testing.T) {
	t.Parallel()

	input := copySample(t)
	output := filepath.Join(t.TempDir(), "missing-dir", "out.dts")

	res := execute(t, input, output)

	require.ErrorIs(t, res.err, dtsio.ErrOutputCreate)
	assert.Equal(t, 5, commands.ExitCode(res.err))
}

func TestCLI_Annotate_VerifyAndStats(t *testing.T) {
	t.Parallel()

	input := copySample(t)

	res := execute(t, "--verify", "--stats", "-q", input)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "lines in")
	assert.Contains(t, res.stdout, "handles resolved")
}

func TestCLI_Annotate_Compressed(t *testing.T) {
	t.Parallel()

	input := filepath.Join(t.TempDir(), "rk3399.dts.lz4")
	src := readFile(t, sampleSource)

	require.NoError(t, dtsio.WriteOutput(input, func(w io.Writer) error {
		_, err := io.WriteString(w, src)

		return err
	}))

	res := execute(t, "--no-header", "-q", input)
	require.NoError(t, res.err)

	out, err := dtsio.ReadSource(filepath.Join(filepath.Dir(input), "rk3399.dts.annotated.lz4"))
	require.NoError(t, err)
	assert.Equal(t, readFile(t, sampleGolden), string(out))
}

func TestCLI_Annotate_ConfigSuffixAndHeader(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".dtannotate.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  suffix: .pretty\n  header: false\nlogging:\n  level: error\n"), 0o600))

	input := copySample(t)

	res := executeWithConfig(t, cfgPath, input)
	require.NoError(t, res.err)

	assert.Equal(t, readFile(t, sampleGolden), readFile(t, input+".pretty"))
	assert.Empty(t, res.stderr)
}

func TestCLI_Annotate_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".dtannotate.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  header: maybe\n"), 0o600))

	res := executeWithConfig(t, cfgPath, copySample(t))

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "schema")
}

func TestCLI_Tables(t *testing.T) {
	t.Parallel()

	input := copySample(t)

	res := execute(t, "tables", "--format", "json", input)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, `"symbols"`)
	assert.Contains(t, res.stdout, `"handles"`)

	res = execute(t, "tables", input)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Symbols")

	res = execute(t, "tables", "--format", "xml", input)
	require.Error(t, res.err)
}

func TestCLI_Diff(t *testing.T) {
	t.Parallel()

	input := copySample(t)

	res := execute(t, "diff", input)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "- \t\tphandle = <0x01>;")
	assert.Contains(t, res.stdout, "+ \tinterrupt-parent = <&gic>;")
	assert.Contains(t, res.stdout, input+": +")
	assert.NoFileExists(t, input+".annotated")
}

func TestCLI_Check(t *testing.T) {
	t.Parallel()

	good := copySample(t)

	res := execute(t, "check", good, sampleGolden)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "syntax OK")

	bad := filepath.Join(t.TempDir(), "bad.dts")
	require.NoError(t, os.WriteFile(bad, []byte("/ {\n\tnode {\n\t\tprop = <1;\n};\n"), 0o600))

	res = execute(t, "check", good, bad)
	require.ErrorIs(t, res.err, commands.ErrSyntax)
	assert.Contains(t, res.stdout, "bad.dts: ")
}

func TestCLI_Version(t *testing.T) {
	t.Parallel()

	res := execute(t, "version")
	require.NoError(t, res.err)

	assert.True(t, strings.HasPrefix(res.stdout, "dtannotate "))
	assert.Contains(t, res.stdout, "commit:")
}

func TestBanner(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	got := commands.Banner("board.dts", at)

	assert.True(t, strings.HasPrefix(got, "// dtannotate "))
	assert.True(t, strings.HasSuffix(got, " annotated board.dts at 2024-05-01T12:00:00Z"))
}
