package dts

import "strings"

const (
	labelSeparator = ": "
	groupSeparator = ", "
	terminator     = ";"

	clockTupleSize     = 2
	pinctrlTupleSize   = 4
	powerCtrlTupleSize = 3
	interruptSpecSize  = 4
	interruptMapSize   = 6
	gpioPairSize       = 2
)

// Rewriter performs the annotation pass over a source whose tables were
// built beforehand. A Rewriter is single-use: it accumulates [Stats].
type Rewriter struct {
	rules  *RuleSet
	tables Tables
	stats  Stats
}

// NewRewriter creates a rewriter. A nil rule set uses [DefaultRuleSet].
func NewRewriter(rules *RuleSet, tables Tables) *Rewriter {
	if rules == nil {
		rules = DefaultRuleSet()
	}

	return &Rewriter{
		rules:  rules,
		tables: tables,
		stats:  newStats(),
	}
}

// Stats returns the counters gathered so far.
func (rw *Rewriter) Stats() Stats {
	return rw.stats
}

// Rewrite annotates lines in order. phandle declarations and the entries
// of the __symbols__ node are dropped; every other line is kept.
func (rw *Rewriter) Rewrite(lines []string) []string {
	out := make([]string, 0, len(lines))

	var tracker PathTracker

	for _, line := range lines {
		rw.stats.LinesIn++

		if isHandleDeclaration(line) {
			rw.stats.DroppedHandles++

			continue
		}

		if tracker.Advance(line) {
			out = append(out, rw.labelNode(tracker.Path(), line))

			continue
		}

		if inSymbols(tracker.Path()) {
			rw.stats.DroppedSymbols++

			continue
		}

		out = append(out, rw.RewriteLine(line))
	}

	rw.stats.LinesOut = len(out)

	return out
}

// labelNode prefixes a node-open line with the label of its node.
func (rw *Rewriter) labelNode(path, line string) string {
	if _, opened := openedNode(line); !opened {
		return line
	}

	// Node names never contain ':', so one here means the line is labeled.
	if strings.Contains(line[:indexUnquoted(line, '{')], ":") {
		return line
	}

	label, ok := rw.tables.Symbols[path]
	if !ok || label == "" {
		return line
	}

	rw.stats.LabeledNodes++

	indent := len(line) - len(strings.TrimLeft(line, " \t"))

	return line[:indent] + label + labelSeparator + line[indent:]
}

// RewriteLine re-encodes one non-structural line. Lines that are not
// assignments, or whose value does not fit the property's rule, come back
// unchanged.
func (rw *Rewriter) RewriteLine(line string) string {
	prop, ok := SplitProperty(line)
	if !ok {
		return line
	}

	rule := rw.rules.Classify(prop.Name)

	value, ok := rw.encode(rule, prop)
	if !ok {
		return line
	}

	rw.stats.Rewritten[rule]++

	return prop.prefix() + value
}

func (rw *Rewriter) encode(rule Rule, prop Property) (string, bool) {
	if rule == RuleGeneric && (IsQuoted(prop.Value) || rw.rules.KeepsRawValue(prop.Name)) {
		return "", false
	}

	cells, ok := Cells(prop.Value)
	if !ok {
		return "", false
	}

	switch rule {
	case RuleSingleHandle:
		if len(cells) != 1 {
			return "", false
		}

		return joinGroups(rw.resolve(cells[0])), true
	case RuleFirstHandle:
		return joinGroups(rw.firstHandle(prop.Name, cells)), true
	case RuleListHandle:
		groups := make([]string, 0, len(cells))
		for _, cell := range cells {
			groups = append(groups, rw.resolve(cell))
		}

		return joinGroups(groups...), true
	case RuleClockTuple:
		if len(cells) == 1 {
			return joinGroups(rw.resolve(cells[0])), true
		}

		return joinGroups(decodeGroups(cells, clockTupleSize, rw.clockTuple, rw.partialTuple)...), true
	case RulePinctrlTriple:
		return joinGroups(decodeGroups(cells, pinctrlTupleSize, rw.pinctrlTuple, decimalTuple)...), true
	case RulePowerCtrlTriple:
		return joinGroups(decodeGroups(cells, powerCtrlTupleSize, rw.powerCtrlTuple, rw.partialTuple)...), true
	case RuleInterruptSpec:
		if len(cells)%interruptSpecSize == 0 {
			return joinGroups(decodeGroups(cells, interruptSpecSize, rw.interruptSpec, decimalTuple)...), true
		}

		return joinGroups(decodeGroups(cells, gpioPairSize, gpioPair, decimalTuple)...), true
	case RuleInterruptMap:
		if len(cells)%interruptMapSize == 0 {
			return joinGroups(decodeGroups(cells, interruptMapSize, rw.interruptMap, decimalTuple)...), true
		}

		return joinGroups(decodeGroups(cells, gpioPairSize, gpioPair, decimalTuple)...), true
	case RuleGeneric:
		return joinGroups(strings.Join(decimalTuple(cells), " ")), true
	}

	return "", false
}

// resolve is [Tables.Resolve] with hit counting.
func (rw *Rewriter) resolve(token string) string {
	resolved := rw.tables.Resolve(token)
	if resolved == token {
		rw.stats.Unresolved++
	} else {
		rw.stats.Resolved++
	}

	return resolved
}

// firstHandle resolves the first cell. GPIO properties carry a pin and an
// optional flag after the handle; a missing flag is not filled in.
func (rw *Rewriter) firstHandle(name string, cells []string) string {
	out := make([]string, 0, len(cells))
	out = append(out, rw.resolve(cells[0]))

	for i, cell := range cells[1:] {
		switch {
		case rw.rules.IsGPIO(name) && i == 0:
			out = append(out, GpioName(cell))
		case rw.rules.IsGPIO(name) && i == 1:
			out = append(out, GpioFlag(cell))
		default:
			out = append(out, ToDecimal(cell))
		}
	}

	return strings.Join(out, " ")
}

func (rw *Rewriter) clockTuple(cells []string) []string {
	return []string{rw.resolve(cells[0]), ToDecimal(cells[1])}
}

func (rw *Rewriter) pinctrlTuple(cells []string) []string {
	return []string{PinctrlBank(cells[0]), GpioName(cells[1]), PinctrlFunc(cells[2]), rw.resolve(cells[3])}
}

func (rw *Rewriter) powerCtrlTuple(cells []string) []string {
	return []string{rw.resolve(cells[0]), GpioName(cells[1]), GpioFlag(cells[2])}
}

func (rw *Rewriter) interruptSpec(cells []string) []string {
	return []string{GicType(cells[0]), ToDecimal(cells[1]), IrqType(cells[2]), ToDecimal(rw.resolve(cells[3]))}
}

func (rw *Rewriter) interruptMap(cells []string) []string {
	out := decimalTuple(cells[:4])

	return append(out, rw.resolve(cells[4]), ToDecimal(cells[5]))
}

// partialTuple encodes an incomplete trailing group that starts with a handle.
func (rw *Rewriter) partialTuple(cells []string) []string {
	return append([]string{rw.resolve(cells[0])}, decimalTuple(cells[1:])...)
}

func gpioPair(cells []string) []string {
	return []string{GpioName(cells[0]), ToDecimal(cells[1])}
}

func decimalTuple(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = ToDecimal(cell)
	}

	return out
}

// decodeGroups splits cells into groups of size, encodes full groups with
// full and a short trailing group with partial, and returns the text of
// each group.
func decodeGroups(cells []string, size int, full, partial func([]string) []string) []string {
	groups := make([]string, 0, (len(cells)+size-1)/size)

	for start := 0; start < len(cells); start += size {
		end := min(start+size, len(cells))

		encode := full
		if end-start < size {
			encode = partial
		}

		groups = append(groups, strings.Join(encode(cells[start:end]), " "))
	}

	return groups
}

// joinGroups renders "<g1>, <g2>;".
func joinGroups(groups ...string) string {
	var sb strings.Builder

	for i, group := range groups {
		if i > 0 {
			sb.WriteString(groupSeparator)
		}

		sb.WriteString("<")
		sb.WriteString(group)
		sb.WriteString(">")
	}

	sb.WriteString(terminator)

	return sb.String()
}
