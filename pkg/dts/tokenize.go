package dts

import "strings"

// Property is one "name = value;" assignment split at its first '='.
type Property struct {
	// Left is the raw text before '=', including indentation.
	Left string
	// Name is the trimmed property name.
	Name string
	// Value is the trimmed text after '=', including the terminating ';'.
	Value string
}

// SplitProperty splits a source line into a [Property].
// It reports false for lines without an assignment.
func SplitProperty(line string) (Property, bool) {
	left, value, ok := strings.Cut(line, "=")
	if !ok {
		return Property{}, false
	}

	name := strings.TrimSpace(left)
	if name == "" {
		return Property{}, false
	}

	return Property{
		Left:  left,
		Name:  name,
		Value: strings.TrimSpace(value),
	}, true
}

// Cells returns the whitespace-separated tokens of a value written as a
// single cell group "<a b c>;". It reports false for any other shape:
// strings, byte arrays, several groups or a missing terminator.
func Cells(value string) ([]string, bool) {
	inner, ok := strings.CutPrefix(value, "<")
	if !ok {
		return nil, false
	}

	inner, ok = strings.CutSuffix(inner, ">;")
	if !ok {
		return nil, false
	}

	if strings.ContainsAny(inner, "<>\"") {
		return nil, false
	}

	tokens := strings.Fields(inner)
	if len(tokens) == 0 {
		return nil, false
	}

	return tokens, true
}

// IsQuoted reports whether a value is a string literal list.
func IsQuoted(value string) bool {
	return strings.HasPrefix(value, "\"")
}

// prefix returns the text a rewritten value is appended to.
func (p Property) prefix() string {
	return p.Left + "= "
}
