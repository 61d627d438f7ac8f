package graph

type RelationKind string

const (
	RelationSends RelationKind = "sends"
)

type UnresolvedReason string

const (
	ReasonNoCandidate UnresolvedReason = "no_candidate"
	ReasonAmbiguous   UnresolvedReason = "ambiguous"
)

// Node is the graph-domain payload for one actor.
// It holds the actor name by value, never the actor itself.
type Node struct {
	Name        string   `json:"name"`
	Line        int      `json:"line"`
	StartLine   int      `json:"start_line"`
	EndLine     int      `json:"end_line"`
	Annotations []string `json:"annotations,omitempty"`
	Targets     []string `json:"targets,omitempty"`
}

// Edge is a resolved message-passing relation between two actors.
type Edge struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Kind RelationKind `json:"kind"`
}

// Unresolved records a send whose target could not be matched to exactly
// one declared actor.
type Unresolved struct {
	From   string           `json:"from"`
	Target string           `json:"target"`
	Reason UnresolvedReason `json:"reason"`
}
