package dts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
)

const (
	sampleFile = "rk3399.dts"
	goldenFile = "rk3399.dts.golden"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return string(data)
}

// newTables builds tables from literal handle and symbol entries.
func newTables(handles, symbols map[string]string) dts.Tables {
	return dts.Tables{
		Handles: dts.HandleTable(handles),
		Symbols: dts.SymbolTable(symbols),
	}
}
