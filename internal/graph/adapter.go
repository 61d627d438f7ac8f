package graph

import "gossipc/internal/extractor"

// FromActor converts extractor output into a graph Node.
func FromActor(a extractor.Actor) *Node {
	start, end := a.Span()
	n := &Node{
		Name:        a.Name(),
		Line:        a.Line(),
		StartLine:   start,
		EndLine:     end,
		Annotations: a.Annotations(),
	}
	for _, c := range a.Connections() {
		n.Targets = append(n.Targets, c.To)
	}
	return n
}

// Build creates a graph from extracted actors and links their sends.
func Build(actors []extractor.Actor) *Graph {
	g := NewGraph()
	for _, a := range actors {
		g.AddNode(FromActor(a))
	}
	g.LinkRelations()
	return g
}
