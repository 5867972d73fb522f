// Package dtsio reads decompiled device tree sources and writes their
// annotation. Paths ending in ".lz4" are compressed transparently.
package dtsio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedSuffix marks lz4-compressed files.
const CompressedSuffix = ".lz4"

const outputFileMode = 0o644

// ErrCode is the discriminated result of a file operation.
type ErrCode int

// Error codes, in the order the operations can fail.
const (
	NoError ErrCode = iota
	InputFileNotFound
	InputFileOpenError
	InputFileReadError
	OutputFileCreationError
	OutputFileWriteError
	UnknownError
)

// Sentinel errors, one per code.
var (
	ErrInputNotFound = errors.New("input file not found")
	ErrInputOpen     = errors.New("cannot open input file for reading")
	ErrInputRead     = errors.New("error while reading input file")
	ErrOutputCreate  = errors.New("cannot create output file")
	ErrOutputWrite   = errors.New("error while writing to output file")
)

var codeMessages = map[ErrCode]string{
	NoError:                 "No Error",
	InputFileNotFound:       "Input file not found",
	InputFileOpenError:      "Cannot open input file for reading",
	InputFileReadError:      "Error while reading input file",
	OutputFileCreationError: "Cannot create output file",
	OutputFileWriteError:    "Error while writing to output file",
}

// String returns the human-readable message of a code.
func (c ErrCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}

	return fmt.Sprintf("Unknown error code <%d>", int(c))
}

// Code maps an error returned by this package to its code.
func Code(err error) ErrCode {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrInputNotFound):
		return InputFileNotFound
	case errors.Is(err, ErrInputOpen):
		return InputFileOpenError
	case errors.Is(err, ErrInputRead):
		return InputFileReadError
	case errors.Is(err, ErrOutputCreate):
		return OutputFileCreationError
	case errors.Is(err, ErrOutputWrite):
		return OutputFileWriteError
	default:
		return UnknownError
	}
}

// ReadSource reads a whole source file. An empty file is a read error.
func ReadSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}

		return nil, fmt.Errorf("%w: %w", ErrInputOpen, err)
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(path) {
		r = lz4.NewReader(f)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputRead, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInputRead, path)
	}

	return data, nil
}

// WriteOutput creates or truncates path and streams write into it.
func WriteOutput(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFileMode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputCreate, err)
	}

	var (
		w  io.Writer = f
		zw *lz4.Writer
	)

	if IsCompressed(path) {
		zw = lz4.NewWriter(f)
		w = zw
	}

	err = write(w)

	if zw != nil {
		err = errors.Join(err, zw.Close())
	}

	err = errors.Join(err, f.Close())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	return nil
}

// DefaultOutputPath derives the output path from the input path. A
// compressed input keeps its compression suffix last.
func DefaultOutputPath(input, suffix string) string {
	if base, ok := strings.CutSuffix(input, CompressedSuffix); ok {
		return base + suffix + CompressedSuffix
	}

	return input + suffix
}

// IsCompressed reports whether path names an lz4 file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}
