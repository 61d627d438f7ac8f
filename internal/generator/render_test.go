package generator

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gossipc/internal/blueprint"
	"gossipc/internal/graph"
	"gossipc/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const houseSource = `
@safety_critical
actor MainWall {
    send(Partition1, "brace")
    send(Nowhere)
}

actor Partition1
`

func compileHouse(t *testing.T, src string) *blueprint.Compilation {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
	res, err := blueprint.NewCompiler(blueprint.WithClock(clock)).Analyze(src)
	require.NoError(t, err)
	return res
}

func TestExportDiagram_PlantUMLScenario(t *testing.T) {
	res := compileHouse(t, houseSource)

	out, err := ExportDiagram(res.Blueprint, res.Graph.Edges, Options{Format: FormatPlantUML, Theme: "blueprint"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "@startuml", lines[0])
	assert.Equal(t, "@enduml", lines[len(lines)-1])
	assert.Contains(t, out, "!theme blueprint\n")
	assert.Contains(t, out, "title IWU_SAFE_HOUSING_v1\n")

	structural := blockBody(t, out, "Structural")
	assert.Contains(t, structural, `as MainWall <<wall>>`)
	assert.Contains(t, structural, `"MainWall\nload_bearing: true\nheight: 2.4 m\nthickness: 0.3 m\nmaterial: concrete\nfire_rating: 60 min"`)

	assert.Contains(t, blockBody(t, out, "Interior"), "as Partition1 <<wall>>")
	assert.Empty(t, strings.TrimSpace(blockBody(t, out, "Foundation")))

	assert.Contains(t, out, "\nMainWall --> Partition1\n")
	assert.NotContains(t, out, "Nowhere", "unresolved sends never reach the diagram")

	assert.Less(t, strings.Index(out, `package "Foundation"`), strings.Index(out, `package "Structural"`))
}

// blockBody returns the text between `package "name" as alias {` and its closing brace.
func blockBody(t *testing.T, out, name string) string {
	t.Helper()
	header := `package "` + name + `" as __layer_` + strings.ToLower(name) + " {\n"
	start := strings.Index(out, header)
	require.GreaterOrEqual(t, start, 0, "missing block %s", name)
	rest := out[start+len(header):]
	end := strings.Index(rest, "}\n")
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

func TestExportDiagram_Mermaid(t *testing.T) {
	res := compileHouse(t, houseSource+"\n@isolated\nactor Vault")

	out, err := ExportDiagram(res.Blueprint, res.Graph.Edges, Options{Format: FormatMermaid})
	require.NoError(t, err)

	assert.Contains(t, out, "flowchart TD\n")
	assert.Contains(t, out, "title: IWU_SAFE_HOUSING_v1\n")
	assert.Contains(t, out, "    subgraph __layer_foundation[\"Foundation\"]\n        Vault[\"Vault<br/>&laquo;foundation&raquo;")
	assert.Contains(t, out, "    subgraph __layer_structural[\"Structural\"]\n")
	assert.Contains(t, out, "    MainWall --> Partition1\n")
	assert.Equal(t, 3, strings.Count(out, "    end\n"))
	assert.False(t, strings.HasPrefix(out, "```"))
}

func TestExportDiagram_DistinctNamesDistinctNodes(t *testing.T) {
	var src strings.Builder
	names := []string{"A", "a", "A_1", "B2", "_x"}
	for _, n := range names {
		src.WriteString("actor " + n + "\n")
	}
	res := compileHouse(t, src.String())

	out, err := ExportDiagram(res.Blueprint, nil, Options{Format: FormatPlantUML})
	require.NoError(t, err)

	for _, n := range names {
		assert.Equal(t, 1, strings.Count(out, " as "+n+" "), "node %s", n)
	}
}

func TestExportDiagram_RejectsUnencodableNames(t *testing.T) {
	tests := []struct {
		name      string
		component string
	}{
		{name: "spaces", component: "Main Wall"},
		{name: "quote", component: `Main"Wall`},
		{name: "arrow", component: "A-->B"},
		{name: "reserved keyword", component: "end"},
		{name: "reserved prefix", component: "__layer_interior"},
		{name: "mermaid click", component: "click"},
		{name: "mermaid linkStyle", component: "linkStyle"},
		{name: "mermaid classDef", component: "classDef"},
		{name: "mermaid call", component: "call"},
		{name: "mermaid href", component: "href"},
		{name: "mermaid direction", component: "direction"},
		{name: "mermaid default", component: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]any{
				"metadata": map[string]any{"standard": "S", "timestamp": "T", "compiler": "C"},
				"components": []map[string]any{{
					"type": "wall", "name": tt.component, "load_bearing": false,
					"height": 2.4, "thickness": 0.15, "material": "concrete", "fire_rating": 60,
				}},
			})
			require.NoError(t, err)
			bp, err := blueprint.Decode(body)
			require.NoError(t, err)

			_, err = ExportDiagram(bp, nil, Options{Format: FormatPlantUML})
			var encErr *EncodingError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, tt.component, encErr.Name)
		})
	}
}

func TestExportDiagram_LayerNamesAsActors(t *testing.T) {
	res := compileHouse(t, "@safety_critical\nactor Foundation {\n    send(Interior)\n}\nactor Interior\n")

	out, err := ExportDiagram(res.Blueprint, res.Graph.Edges, Options{Format: FormatPlantUML})
	require.NoError(t, err)
	assert.Contains(t, out, `package "Foundation" as __layer_foundation {`)
	assert.Contains(t, out, `package "Interior" as __layer_interior {`)
	assert.Contains(t, blockBody(t, out, "Structural"), "as Foundation <<wall>>")
	assert.Contains(t, blockBody(t, out, "Interior"), "as Interior <<wall>>")
	assert.Contains(t, out, "\nFoundation --> Interior\n")

	out, err = ExportDiagram(res.Blueprint, res.Graph.Edges, Options{Format: FormatMermaid})
	require.NoError(t, err)
	assert.Contains(t, out, `subgraph __layer_foundation["Foundation"]`)
	assert.Contains(t, out, "\n    Foundation --> Interior\n")
}

func TestExportSchematic(t *testing.T) {
	s := schema.NewSynthesizer(schema.DefaultDefaults())
	tr, err := blueprint.NewCompiler(blueprint.WithSynthesizer(s)).Translate(houseSource + "\n@isolated\nactor Vault {\n depth: 2m\n}")
	require.NoError(t, err)

	out, err := ExportSchematic(tr.Nodes, tr.Graph.Edges, "IWU Safe Housing Blueprint", Options{Format: FormatPlantUML})
	require.NoError(t, err)

	assert.Contains(t, out, "title IWU Safe Housing Blueprint\n")
	assert.Contains(t, blockBody(t, out, "Foundation"), `"Vault\ndepth: 2 m\nwidth: 0.6 m\nsafety: FIRE_RATED" as Vault <<fire_wall>>`)
	assert.Contains(t, blockBody(t, out, "Structural"), "as MainWall <<load_bearing_wall>>")
	assert.Contains(t, blockBody(t, out, "Interior"), "as Partition1 <<partition_wall>>")
	assert.Contains(t, out, "MainWall --> Partition1\n")
}

func TestBuilder_DropsDanglingAndDuplicateEdges(t *testing.T) {
	d, err := NewBuilder("t", "").
		AddNode(schema.LayerStructural, Node{ID: "A", Label: "A"}).
		AddNode(schema.LayerInterior, Node{ID: "B", Label: "B"}).
		AddEdge("A", "B").
		AddEdge("A", "B").
		AddEdge("A", "C").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []Edge{{From: "A", To: "B"}}, d.Edges)
	require.Len(t, d.Blocks, 3)
	assert.Equal(t, []string{"Foundation", "Structural", "Interior"}, []string{d.Blocks[0].Name, d.Blocks[1].Name, d.Blocks[2].Name})

	_, err = NewBuilder("t", "").
		AddNode(schema.LayerStructural, Node{ID: "A"}).
		AddNode(schema.LayerInterior, Node{ID: "A"}).
		Build()
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "duplicate node", encErr.Reason)
}

func TestLabelEscaping(t *testing.T) {
	d, err := NewBuilder(`Title "quoted"`, "").
		AddNode(schema.LayerInterior, Node{ID: "A", Label: "A", Attributes: []Attribute{{Key: "material", Value: "brick \"red\"\nline<2>"}}}).
		Build()
	require.NoError(t, err)

	puml := (&PlantUMLRenderer{}).Render(d)
	assert.Contains(t, puml, `title Title 'quoted'`)
	assert.Contains(t, puml, `"A\nmaterial: brick 'red'\nline<2>" as A`)

	mmd := (&MermaidGenerator{}).Render(d)
	assert.Contains(t, mmd, `A["A<br/>material: brick #quot;red#quot;<br/>line#lt;2#gt;"]`)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPlantUML, "PlantUML": FormatPlantUML, "puml": FormatPlantUML, "mermaid": FormatMermaid, " mmd ": FormatMermaid} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}
	_, err := ParseFormat("svg")
	assert.Error(t, err)

	_, err = RendererFor("svg")
	assert.Error(t, err)
}

func TestFromBlueprint_EdgesFromGraph(t *testing.T) {
	res := compileHouse(t, "actor A {\n send(B)\n}\nactor B {\n send(A)\n}")
	d, err := FromBlueprint(res.Blueprint, res.Graph.Edges, "")
	require.NoError(t, err)
	assert.Equal(t, []Edge{{From: "A", To: "B"}, {From: "B", To: "A"}}, d.Edges)
	assert.Equal(t, []graph.Edge{{From: "A", To: "B", Kind: graph.RelationSends}, {From: "B", To: "A", Kind: graph.RelationSends}}, res.Graph.Edges)
}
