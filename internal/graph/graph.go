package graph

// Graph holds actors and the sends between them, in declaration order.
type Graph struct {
	Nodes      []*Node
	Edges      []Edge
	Unresolved []Unresolved

	// Name -> positions in Nodes. More than one entry means the name is
	// declared twice and cannot be a send target.
	nameIndex map[string][]int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nameIndex: make(map[string][]int),
	}
}

// AddNode appends a node and indexes it by name.
func (g *Graph) AddNode(n *Node) {
	if n == nil {
		return
	}
	g.nameIndex[n.Name] = append(g.nameIndex[n.Name], len(g.Nodes))
	g.Nodes = append(g.Nodes, n)
}

// LinkRelations resolves every node's targets to declared actors.
// Edges are deduplicated and keep first-seen order.
func (g *Graph) LinkRelations() {
	g.Edges = nil
	g.Unresolved = nil

	seen := make(map[Edge]bool)
	for _, n := range g.Nodes {
		for _, target := range n.Targets {
			switch len(g.nameIndex[target]) {
			case 0:
				g.Unresolved = append(g.Unresolved, Unresolved{From: n.Name, Target: target, Reason: ReasonNoCandidate})
				continue
			case 1:
			default:
				g.Unresolved = append(g.Unresolved, Unresolved{From: n.Name, Target: target, Reason: ReasonAmbiguous})
				continue
			}
			e := Edge{From: n.Name, To: target, Kind: RelationSends}
			if seen[e] {
				continue
			}
			seen[e] = true
			g.Edges = append(g.Edges, e)
		}
	}
}

// Lookup returns the node declared under name, if it is unique.
func (g *Graph) Lookup(name string) (*Node, bool) {
	idx := g.nameIndex[name]
	if len(idx) != 1 {
		return nil, false
	}
	return g.Nodes[idx[0]], true
}

// GetTargets returns the nodes the named actor sends to.
func (g *Graph) GetTargets(name string) []*Node {
	var out []*Node
	for _, e := range g.Edges {
		if e.From == name {
			if n, ok := g.Lookup(e.To); ok {
				out = append(out, n)
			}
		}
	}
	return out
}

// GetSenders returns the nodes that send to the named actor.
func (g *Graph) GetSenders(name string) []*Node {
	var out []*Node
	for _, e := range g.Edges {
		if e.To == name {
			if n, ok := g.Lookup(e.From); ok {
				out = append(out, n)
			}
		}
	}
	return out
}
