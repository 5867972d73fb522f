// Package dts annotates decompiled device tree sources: numeric handle
// references become symbolic labels and well-known property tuples are
// re-encoded into the named constants used by hand-written sources.
package dts

import "strings"

// RootPath is the path of the root node.
const RootPath = "/"

const pathSeparator = "/"

// PathTracker follows the current node path while a source is scanned
// line by line. The zero value starts before the root node.
type PathTracker struct {
	path string
}

// Path returns the current node path.
func (pt *PathTracker) Path() string {
	return pt.path
}

// Reset returns the tracker to its initial state.
func (pt *PathTracker) Reset() {
	pt.path = ""
}

// Advance feeds one line to the tracker and reports whether the line opened
// or closed a node. Non-structural lines leave the path unchanged.
func (pt *PathTracker) Advance(line string) bool {
	next, structural := AdvancePath(pt.path, line)
	pt.path = next

	return structural
}

// AdvancePath is the pure form of [PathTracker.Advance].
func AdvancePath(current, line string) (string, bool) {
	if name, ok := openedNode(line); ok {
		if name == RootPath {
			return RootPath, true
		}

		if !strings.HasSuffix(current, pathSeparator) {
			current += pathSeparator
		}

		return current + name, true
	}

	if indexUnquoted(line, '}') >= 0 {
		idx := strings.LastIndex(current, pathSeparator)
		if idx <= 0 {
			return RootPath, true
		}

		return current[:idx], true
	}

	return current, false
}

// Depth returns the nesting depth encoded in a node path.
// The root node has depth 1; the empty path has depth 0.
func Depth(path string) int {
	switch path {
	case "":
		return 0
	case RootPath:
		return 1
	}

	return strings.Count(path, pathSeparator) + 1
}

// openedNode returns the node name of a node-open line.
// An existing "label:" prefix is not part of the name.
func openedNode(line string) (string, bool) {
	idx := indexUnquoted(line, '{')
	if idx < 0 {
		return "", false
	}

	name := strings.TrimSpace(line[:idx])
	if colon := strings.LastIndex(name, ": "); colon >= 0 {
		name = strings.TrimSpace(name[colon+1:])
	}

	if name == "" {
		return "", false
	}

	return name, true
}

// indexUnquoted returns the index of the first ch outside double quotes, or -1.
func indexUnquoted(line string, ch byte) int {
	quoted := false

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case ch:
			if !quoted {
				return i
			}
		}
	}

	return -1
}
