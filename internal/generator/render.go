package generator

import (
	"fmt"
	"sort"
	"strings"

	"gossipc/internal/blueprint"
	"gossipc/internal/graph"
	"gossipc/internal/schema"
)

type Format string

const (
	FormatPlantUML Format = "plantuml"
	FormatMermaid  Format = "mermaid"
)

// ParseFormat accepts "plantuml" (or "puml") and "mermaid".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plantuml", "puml":
		return FormatPlantUML, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	default:
		return "", fmt.Errorf("unsupported diagram format: %s", s)
	}
}

// Renderer serializes a diagram. Escaping of labels happens here, once,
// for every node.
type Renderer interface {
	Render(d *Diagram) string
}

// RendererFor returns the renderer for f.
func RendererFor(f Format) (Renderer, error) {
	switch f {
	case FormatPlantUML:
		return &PlantUMLRenderer{}, nil
	case FormatMermaid:
		return &MermaidGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported diagram format: %s", f)
	}
}

// Options controls diagram export.
type Options struct {
	Format Format
	Theme  string
}

// ExportDiagram renders a compiled blueprint. It performs no validation of
// its own.
func ExportDiagram(bp *blueprint.Blueprint, edges []graph.Edge, opts Options) (string, error) {
	r, err := RendererFor(opts.Format)
	if err != nil {
		return "", err
	}
	d, err := FromBlueprint(bp, edges, opts.Theme)
	if err != nil {
		return "", err
	}
	return r.Render(d), nil
}

// ExportSchematic renders translated nodes.
func ExportSchematic(nodes []schema.SchematicNode, edges []graph.Edge, title string, opts Options) (string, error) {
	r, err := RendererFor(opts.Format)
	if err != nil {
		return "", err
	}
	d, err := FromSchematic(nodes, edges, title, opts.Theme)
	if err != nil {
		return "", err
	}
	return r.Render(d), nil
}

// PlantUMLRenderer emits @startuml ... @enduml text.
type PlantUMLRenderer struct{}

func (p *PlantUMLRenderer) Render(d *Diagram) string {
	var sb strings.Builder
	sb.WriteString("@startuml\n")
	if d.Theme != "" {
		sb.WriteString(fmt.Sprintf("!theme %s\n", d.Theme))
	}
	if d.Title != "" {
		sb.WriteString(fmt.Sprintf("title %s\n", plantUMLText(d.Title)))
	}
	sb.WriteString("\n")

	for _, blk := range d.Blocks {
		sb.WriteString(fmt.Sprintf("package \"%s\" as %s {\n", plantUMLText(blk.Name), blockID(blk.Name)))
		for _, n := range blk.Nodes {
			lines := []string{plantUMLText(n.Label)}
			for _, a := range n.Attributes {
				lines = append(lines, plantUMLText(a.Key+": "+a.Value))
			}
			stereotype := ""
			if nodeIDRe.MatchString(n.Kind) {
				stereotype = " <<" + n.Kind + ">>"
			}
			sb.WriteString(fmt.Sprintf("  rectangle \"%s\" as %s%s\n", strings.Join(lines, "\\n"), n.ID, stereotype))
		}
		sb.WriteString("}\n")
	}

	if len(d.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, e := range d.Edges {
		sb.WriteString(fmt.Sprintf("%s --> %s\n", e.From, e.To))
	}
	sb.WriteString("@enduml\n")
	return sb.String()
}

// plantUMLText makes s safe inside a quoted PlantUML string.
func plantUMLText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `'`,
		"\r", "",
		"\n", `\n`,
	)
	return r.Replace(s)
}

func sortedDimensionKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
