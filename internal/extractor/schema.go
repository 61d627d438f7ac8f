package extractor

import (
	"sort"
	"strings"
)

// Recognised annotation markers. Tags are stored without the leading '@'.
const (
	AnnotationSafetyCritical = "safety_critical"
	AnnotationIsolated       = "isolated"
)

// Actor is a unit declared in GOSSIP source, carried through the pipeline
// only as a name and annotation holder. Values are never modified after
// extraction; accessors hand out copies.
type Actor struct {
	name        string
	line        int
	start, end  int
	annotations map[string]struct{}
	fragment    string
	connections []Connection
	dimensions  map[string]float64
}

// Name returns the declared actor name.
func (a Actor) Name() string { return a.name }

// Line is the 1-based line of the `actor` keyword.
func (a Actor) Line() int { return a.line }

// Span returns the first and last 1-based lines of the declared region.
func (a Actor) Span() (start, end int) { return a.start, a.end }

// Fragment is the raw text of the declared region (annotations, declaration and body).
func (a Actor) Fragment() string { return a.fragment }

// HasAnnotation reports whether tag was found in the actor's region.
// The tag may be given with or without its '@' prefix.
func (a Actor) HasAnnotation(tag string) bool {
	_, ok := a.annotations[strings.TrimPrefix(tag, "@")]
	return ok
}

// Annotations returns the tags in lexical order.
func (a Actor) Annotations() []string {
	out := make([]string, 0, len(a.annotations))
	for tag := range a.annotations {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Connections returns the message-passing targets declared in the body.
func (a Actor) Connections() []Connection {
	out := make([]Connection, len(a.connections))
	copy(out, a.connections)
	return out
}

// Dimensions returns declared physical dimensions, in meters.
func (a Actor) Dimensions() map[string]float64 {
	out := make(map[string]float64, len(a.dimensions))
	for k, v := range a.dimensions {
		out[k] = v
	}
	return out
}

// NewActor builds an Actor outside the scanner, mostly for callers that
// already know the classification of a unit.
func NewActor(name string, annotations ...string) Actor {
	a := Actor{
		name:        name,
		annotations: make(map[string]struct{}, len(annotations)),
		dimensions:  map[string]float64{},
	}
	for _, tag := range annotations {
		a.annotations[strings.TrimPrefix(tag, "@")] = struct{}{}
	}
	return a
}

// Connection is an ordered (from, to) pair inferred from a message send.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Anomaly records a declaration that could not be parsed and was skipped.
type Anomaly struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Text   string `json:"text"`
}

// Result is the output of a single extraction pass.
type Result struct {
	Actors    []Actor
	Anomalies []Anomaly
}
