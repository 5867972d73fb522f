package dts

// Stats counts what an annotation run did.
type Stats struct {
	// Rewritten counts re-encoded property lines per rule.
	Rewritten map[Rule]int

	LinesIn        int
	LinesOut       int
	DroppedHandles int
	DroppedSymbols int
	LabeledNodes   int
	Resolved       int
	Unresolved     int
	Symbols        int
	Handles        int
}

func newStats() Stats {
	return Stats{Rewritten: make(map[Rule]int)}
}

// RewrittenTotal sums the per-rule rewrite counts.
func (s Stats) RewrittenTotal() int {
	total := 0
	for _, n := range s.Rewritten {
		total += n
	}

	return total
}

// Dropped returns the number of input lines left out of the output.
func (s Stats) Dropped() int {
	return s.DroppedHandles + s.DroppedSymbols
}
