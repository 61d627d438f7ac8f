package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gossipc/internal/blueprint"
	"gossipc/internal/graph"
	"gossipc/internal/schema"
)

var nodeIDRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Words the supported grammars treat specially; a node called `end`
// closes a Mermaid subgraph, for instance.
// Mermaid flowchart statements (click, linkStyle, classDef...) switch the
// lexer mode when they start a line. Lookups are lowercase.
var reservedIDs = map[string]bool{
	"as": true, "end": true, "package": true, "rectangle": true, "title": true,
	"subgraph": true, "graph": true, "flowchart": true, "class": true, "style": true,
	"startuml": true, "enduml": true,
	"click": true, "linkstyle": true, "classdef": true, "call": true, "callback": true,
	"href": true, "direction": true, "default": true, "interpolate": true,
	"acctitle": true, "accdescr": true,
}

// blockID is the alias of a layer block. The reserved __ prefix keeps it
// apart from node ids in both grammars.
func blockID(name string) string {
	return sanitizeMermaidID("__layer_" + name)
}

// EncodingError reports a name that cannot be used as a diagram node.
type EncodingError struct {
	Name   string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %q in diagram: %s", e.Name, e.Reason)
}

// Diagram is the structured form every renderer serializes.
type Diagram struct {
	Title  string
	Theme  string
	Blocks []Block
	Edges  []Edge
}

// Block groups the nodes of one architectural layer.
type Block struct {
	Name  string
	Nodes []Node
}

type Node struct {
	ID         string
	Label      string
	Kind       string
	Attributes []Attribute
}

type Attribute struct {
	Key   string
	Value string
}

type Edge struct {
	From string
	To   string
}

// Builder accumulates blocks, nodes and edges. Names are checked as they
// are added; edges whose endpoints never become nodes are dropped at Build.
type Builder struct {
	title  string
	theme  string
	blocks []*Block
	byName map[string]*Block
	ids    map[string]bool
	edges  []Edge
	err    error
}

// NewBuilder starts a diagram with one empty block per architectural layer.
func NewBuilder(title, theme string) *Builder {
	b := &Builder{
		title:  title,
		theme:  theme,
		byName: make(map[string]*Block),
		ids:    make(map[string]bool),
	}
	for _, layer := range schema.Layers() {
		b.block(layer)
	}
	return b
}

func (b *Builder) block(name string) *Block {
	if blk, ok := b.byName[name]; ok {
		return blk
	}
	blk := &Block{Name: name}
	b.blocks = append(b.blocks, blk)
	b.byName[name] = blk
	return blk
}

// AddNode places n in the named block. The first error sticks.
func (b *Builder) AddNode(block string, n Node) *Builder {
	if b.err != nil {
		return b
	}
	if err := checkNodeID(n.ID); err != nil {
		b.err = err
		return b
	}
	if b.ids[n.ID] {
		b.err = &EncodingError{Name: n.ID, Reason: "duplicate node"}
		return b
	}
	b.ids[n.ID] = true
	blk := b.block(block)
	blk.Nodes = append(blk.Nodes, n)
	return b
}

// AddEdge records a directed edge.
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges = append(b.edges, Edge{From: from, To: to})
	return b
}

// Build returns the diagram or the first encoding error.
func (b *Builder) Build() (*Diagram, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := &Diagram{Title: b.title, Theme: b.theme}
	for _, blk := range b.blocks {
		d.Blocks = append(d.Blocks, *blk)
	}
	seen := make(map[Edge]bool)
	for _, e := range b.edges {
		if !b.ids[e.From] || !b.ids[e.To] || seen[e] {
			continue
		}
		seen[e] = true
		d.Edges = append(d.Edges, e)
	}
	return d, nil
}

func checkNodeID(id string) error {
	if !nodeIDRe.MatchString(id) {
		return &EncodingError{Name: id, Reason: "name must be an identifier ([A-Za-z_][A-Za-z0-9_]*)"}
	}
	if strings.HasPrefix(id, "__") {
		return &EncodingError{Name: id, Reason: "names starting with __ are reserved for layer blocks"}
	}
	if reservedIDs[strings.ToLower(id)] {
		return &EncodingError{Name: id, Reason: "name is a reserved diagram keyword"}
	}
	return nil
}

// FromBlueprint lays out the components of bp and the given sends.
func FromBlueprint(bp *blueprint.Blueprint, edges []graph.Edge, theme string) (*Diagram, error) {
	b := NewBuilder(bp.Metadata().Standard, theme)
	for _, c := range bp.Components() {
		b.AddNode(c.Layer(), componentNode(c))
	}
	for _, e := range edges {
		b.AddEdge(e.From, e.To)
	}
	return b.Build()
}

// FromSchematic lays out translated nodes and the given sends.
func FromSchematic(nodes []schema.SchematicNode, edges []graph.Edge, title, theme string) (*Diagram, error) {
	b := NewBuilder(title, theme)
	for _, n := range nodes {
		b.AddNode(n.Layer(), schematicNode(n))
	}
	for _, e := range edges {
		b.AddEdge(e.From, e.To)
	}
	return b.Build()
}

func componentNode(c schema.Component) Node {
	n := Node{ID: c.Name, Label: c.Name, Kind: string(c.Type)}
	switch {
	case c.Wall != nil:
		n.Attributes = []Attribute{
			{Key: "load_bearing", Value: strconv.FormatBool(c.LoadBearing)},
			{Key: "height", Value: meters(c.Height)},
			{Key: "thickness", Value: meters(c.Thickness)},
			{Key: "material", Value: c.Material},
			{Key: "fire_rating", Value: fmt.Sprintf("%d min", c.FireRating)},
		}
	case c.Foundation != nil:
		n.Attributes = []Attribute{
			{Key: "depth", Value: meters(c.Depth)},
			{Key: "width", Value: meters(c.Width)},
			{Key: "reinforcement", Value: c.Reinforcement},
			{Key: "soil_bearing_capacity", Value: formatFloat(c.SoilBearingCapacity) + " kPa"},
		}
	}
	return n
}

func schematicNode(sn schema.SchematicNode) Node {
	n := Node{ID: sn.GossipActor, Label: sn.GossipActor, Kind: sn.ComponentType}
	for _, k := range sortedDimensionKeys(sn.Dimensions) {
		n.Attributes = append(n.Attributes, Attribute{Key: k, Value: meters(sn.Dimensions[k])})
	}
	n.Attributes = append(n.Attributes, Attribute{Key: "safety", Value: strings.Join(sn.SafetyConstraints, ", ")})
	return n
}

func meters(v float64) string { return formatFloat(v) + " m" }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
