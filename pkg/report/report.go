// Package report renders annotation results for humans and tools:
// symbol and handle tables, run statistics, line diffs and syntax check
// results.
package report

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/dtannotate/pkg/dts"
)

// Format selects how tables are written.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, yaml or json)", ErrUnknownFormat, name)
	}
}

// Entry is one row of a lookup table.
type Entry struct {
	Key   string `json:"key"   yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// TablesDoc is the serializable form of [dts.Tables] with stable ordering.
type TablesDoc struct {
	Symbols []Entry `json:"symbols" yaml:"symbols"`
	Handles []Entry `json:"handles" yaml:"handles"`
}

// NewTablesDoc sorts symbols by path and handles by numeric value.
func NewTablesDoc(tables dts.Tables) TablesDoc {
	doc := TablesDoc{
		Symbols: make([]Entry, 0, len(tables.Symbols)),
		Handles: make([]Entry, 0, len(tables.Handles)),
	}

	for path, label := range tables.Symbols {
		doc.Symbols = append(doc.Symbols, Entry{Key: path, Value: label})
	}

	for handle, path := range tables.Handles {
		doc.Handles = append(doc.Handles, Entry{Key: handle, Value: path})
	}

	slices.SortFunc(doc.Symbols, func(a, b Entry) int { return cmp.Compare(a.Key, b.Key) })
	slices.SortFunc(doc.Handles, compareHandles)

	return doc
}

func compareHandles(a, b Entry) int {
	av, aErr := strconv.ParseUint(a.Key, 0, 64)
	bv, bErr := strconv.ParseUint(b.Key, 0, 64)

	if aErr == nil && bErr == nil && av != bv {
		return cmp.Compare(av, bv)
	}

	return cmp.Compare(a.Key, b.Key)
}

// WriteTables writes the symbol and handle tables in the given format.
func WriteTables(w io.Writer, tables dts.Tables, format Format) error {
	doc := NewTablesDoc(tables)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case FormatTable:
		_, err := fmt.Fprintf(w, "%s\n\n%s\n",
			renderEntries("Symbols", []any{"Path", "Label"}, doc.Symbols),
			renderEntries("Handles", []any{"Handle", "Path"}, doc.Handles),
		)

		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderEntries(title string, header table.Row, entries []Entry) string {
	tbl := newTable()
	tbl.SetTitle(title)
	tbl.AppendHeader(header)

	for _, e := range entries {
		tbl.AppendRow(table.Row{e.Key, e.Value})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(entries))})

	return tbl.Render()
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	return tbl
}
