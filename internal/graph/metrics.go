package graph

// UnresolvedReasonCounts tallies unresolved sends by reason.
func (g *Graph) UnresolvedReasonCounts() map[UnresolvedReason]int {
	counts := make(map[UnresolvedReason]int)
	if g == nil {
		return counts
	}
	for _, u := range g.Unresolved {
		counts[u.Reason]++
	}
	return counts
}

// Degree returns the number of outgoing and incoming edges for name.
func (g *Graph) Degree(name string) (out, in int) {
	for _, e := range g.Edges {
		if e.From == name {
			out++
		}
		if e.To == name {
			in++
		}
	}
	return out, in
}
