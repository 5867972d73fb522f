package dts

import "strings"

const (
	symbolsMarker    = "__symbols__ {"
	symbolsEndMarker = "};"
	symbolsPath      = "/__symbols__"
)

// SymbolTable maps node paths to their labels.
type SymbolTable map[string]string

// HandleTable maps handle literals, as written in the source, to node paths.
type HandleTable map[string]string

// Tables holds the lookup tables built from one source.
type Tables struct {
	Symbols SymbolTable
	Handles HandleTable
}

// BuildTables runs both table-building scans over lines.
func BuildTables(lines []string) Tables {
	return Tables{
		Symbols: BuildSymbolTable(lines),
		Handles: BuildHandleTable(lines),
	}
}

// BuildSymbolTable collects the "label = path" entries of the __symbols__
// node. A source without that node yields an empty table. When two labels
// name the same path, the later one wins.
func BuildSymbolTable(lines []string) SymbolTable {
	symbols := make(SymbolTable)

	start := -1

	for i, line := range lines {
		if strings.Contains(line, symbolsMarker) {
			start = i

			break
		}
	}

	if start < 0 {
		return symbols
	}

	for _, raw := range lines[start+1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.Contains(line, symbolsEndMarker) {
			break
		}

		prop, ok := SplitProperty(line)
		if !ok {
			continue
		}

		if path := unquotePath(prop.Value); path != "" {
			symbols[path] = prop.Name
		}
	}

	return symbols
}

// unquotePath strips the ';' terminator, the quotes and a '&' reference
// marker from a symbol value.
func unquotePath(value string) string {
	value = strings.TrimSuffix(strings.TrimSpace(value), ";")
	value = strings.TrimPrefix(value, "&")
	value = strings.TrimPrefix(value, "\"")
	value = strings.TrimSuffix(value, "\"")

	return strings.TrimSpace(value)
}

// BuildHandleTable records the node path of every phandle declaration.
// A later declaration of the same handle overwrites the earlier one.
func BuildHandleTable(lines []string) HandleTable {
	handles := make(HandleTable)

	var tracker PathTracker

	for _, line := range lines {
		if tracker.Advance(line) {
			continue
		}

		if handle, ok := declaredHandle(line); ok {
			handles[handle] = tracker.Path()
		}
	}

	return handles
}

// declaredHandle returns the handle literal of a phandle declaration line.
func declaredHandle(line string) (string, bool) {
	prop, ok := SplitProperty(line)
	if !ok || !isHandleProperty(prop.Name) {
		return "", false
	}

	cells, ok := Cells(prop.Value)
	if !ok || len(cells) != 1 {
		return "", false
	}

	return cells[0], true
}

func isHandleProperty(name string) bool {
	return name == "phandle" || name == "linux,phandle"
}

// isHandleDeclaration reports whether a line declares a hex phandle and
// carries no information for a human reader.
func isHandleDeclaration(line string) bool {
	handle, ok := declaredHandle(line)

	return ok && strings.HasPrefix(strings.ToLower(handle), hexPrefix)
}

// Resolve maps a handle literal to "&label". Handles without a declaring
// node, and nodes without a label, come back unchanged.
func (t Tables) Resolve(token string) string {
	label, ok := t.Lookup(token)
	if !ok {
		return token
	}

	return "&" + label
}

// Lookup returns the label of the node declaring a handle.
func (t Tables) Lookup(token string) (string, bool) {
	path, ok := t.Handles[token]
	if !ok {
		return "", false
	}

	label, ok := t.Symbols[path]
	if !ok || label == "" {
		return "", false
	}

	return label, true
}

// inSymbols reports whether a node path lies inside the __symbols__ node.
func inSymbols(path string) bool {
	return path == symbolsPath || strings.HasPrefix(path, symbolsPath+pathSeparator)
}
