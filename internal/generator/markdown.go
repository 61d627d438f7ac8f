package generator

import (
	"fmt"
	"strings"

	"gossipc/internal/blueprint"
	"gossipc/internal/graph"
	"gossipc/internal/schema"
)

// MarkdownGenerator produces the construction document for a compilation:
// metadata, component schedule, compliance report, connections and an
// embedded diagram.
type MarkdownGenerator struct {
	mermaid *MermaidGenerator
	theme   string
}

func NewMarkdownGenerator(theme string) *MarkdownGenerator {
	return &MarkdownGenerator{
		mermaid: &MermaidGenerator{Fenced: true},
		theme:   theme,
	}
}

// Generate renders the document. It fails only if the diagram cannot be
// encoded.
func (g *MarkdownGenerator) Generate(c *blueprint.Compilation) (string, error) {
	bp := c.Blueprint
	d, err := FromBlueprint(bp, c.Graph.Edges, g.theme)
	if err != nil {
		return "", err
	}

	meta := bp.Metadata()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s Blueprint\n\n", meta.Standard))
	sb.WriteString("| Standard | Compiler | Generated |\n|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n\n", cell(meta.Standard), cell(meta.Compiler), cell(meta.Timestamp)))

	sb.WriteString("## Component Schedule\n\n")
	sb.WriteString("| Name | Type | Layer | Sends | Receives | Parameters |\n|---|---|---|---|---|---|\n")
	for _, comp := range bp.Components() {
		out, in := c.Graph.Degree(comp.Name)
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %s |\n",
			cell(comp.Name), comp.Type, comp.Layer(), out, in, cell(parameterSummary(comp))))
	}
	sb.WriteString("\n")

	sb.WriteString("## Compliance\n\n")
	for _, res := range c.Report.Results {
		mark := "PASS"
		if !res.Passed {
			mark = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", res.ID, mark))
		for _, v := range res.Violations {
			sb.WriteString(fmt.Sprintf("  - %s\n", v))
		}
	}
	sb.WriteString("\n")

	if len(c.Graph.Edges) > 0 || len(c.Graph.Unresolved) > 0 {
		sb.WriteString("## Connections\n\n")
		for _, e := range c.Graph.Edges {
			sb.WriteString(fmt.Sprintf("- %s → %s\n", e.From, e.To))
		}
		for _, u := range c.Graph.Unresolved {
			sb.WriteString(fmt.Sprintf("- %s → %s (unresolved: %s)\n", u.From, u.Target, u.Reason))
		}
		if counts := c.Graph.UnresolvedReasonCounts(); len(counts) > 0 {
			sb.WriteString(fmt.Sprintf("\nUnresolved sends: %d no candidate, %d ambiguous. They are not drawn.\n",
				counts[graph.ReasonNoCandidate], counts[graph.ReasonAmbiguous]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Diagram\n\n")
	sb.WriteString(g.mermaid.Render(d))

	if len(c.Anomalies) > 0 {
		sb.WriteString("\n## Skipped Declarations\n\n")
		for _, a := range c.Anomalies {
			sb.WriteString(fmt.Sprintf("- line %d: %s\n", a.Line, a.Reason))
		}
	}
	return sb.String(), nil
}

func parameterSummary(c schema.Component) string {
	n := componentNode(c)
	parts := make([]string, 0, len(n.Attributes))
	for _, a := range n.Attributes {
		parts = append(parts, a.Key+"="+a.Value)
	}
	return strings.Join(parts, ", ")
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
