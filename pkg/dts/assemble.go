package dts

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const lineTerminator = "\n"

// SplitLines splits source text into lines. A trailing newline does not
// produce an empty last line, and CRLF line ends are accepted.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(text, lineTerminator), lineTerminator)
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// Assemble writes the header followed by every line, each terminated by a
// newline. A non-empty header without a trailing newline gets one.
func Assemble(w io.Writer, header string, lines []string) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	if header != "" {
		if !strings.HasSuffix(header, lineTerminator) {
			header += lineTerminator
		}

		_, err := io.WriteString(cw, header)
		if err != nil {
			return cw.n, fmt.Errorf("write header: %w", err)
		}
	}

	for _, line := range lines {
		_, err := io.WriteString(cw, line+lineTerminator)
		if err != nil {
			return cw.n, fmt.Errorf("write line: %w", err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return cw.n, fmt.Errorf("flush output: %w", err)
	}

	return cw.n, nil
}

// AssembleString is [Assemble] into a string.
func AssembleString(header string, lines []string) string {
	var sb strings.Builder

	// strings.Builder never fails.
	_, _ = Assemble(&sb, header, lines)

	return sb.String()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err //nolint:wrapcheck // passthrough writer
}
