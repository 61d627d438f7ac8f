package generator

import (
	"fmt"
	"regexp"
	"strings"
)

var mermaidIDRe = regexp.MustCompile(`[^a-z0-9_]`)

// MermaidGenerator renders diagrams as Mermaid flowcharts, one subgraph per
// block. With Fenced set the output is wrapped for embedding in Markdown.
type MermaidGenerator struct {
	Fenced bool
}

func (m *MermaidGenerator) Render(d *Diagram) string {
	var sb strings.Builder
	if m.Fenced {
		sb.WriteString("```mermaid\n")
	}
	if d.Title != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", mermaidText(d.Title)))
		sb.WriteString("---\n")
	}
	sb.WriteString("flowchart TD\n")

	for _, blk := range d.Blocks {
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", blockID(blk.Name), mermaidText(blk.Name)))
		for _, n := range blk.Nodes {
			lines := []string{mermaidText(n.Label)}
			if n.Kind != "" {
				lines = append(lines, "&laquo;"+mermaidText(n.Kind)+"&raquo;")
			}
			for _, a := range n.Attributes {
				lines = append(lines, mermaidText(a.Key+": "+a.Value))
			}
			sb.WriteString(fmt.Sprintf("        %s[\"%s\"]\n", n.ID, strings.Join(lines, "<br/>")))
		}
		sb.WriteString("    end\n")
	}

	for _, e := range d.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", e.From, e.To))
	}
	if m.Fenced {
		sb.WriteString("```\n")
	}
	return sb.String()
}

// mermaidText escapes characters that would end a quoted Mermaid label.
func mermaidText(s string) string {
	r := strings.NewReplacer(
		`"`, "#quot;",
		"<", "#lt;",
		">", "#gt;",
		"\r", "",
		"\n", "<br/>",
	)
	return r.Replace(s)
}

func sanitizeMermaidID(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return "node"
	}
	v = mermaidIDRe.ReplaceAllString(strings.ReplaceAll(v, "-", "_"), "_")
	if v[0] >= '0' && v[0] <= '9' {
		v = "n_" + v
	}
	return v
}
