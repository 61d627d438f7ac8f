package blueprint

import (
	"errors"
	"testing"
	"time"

	"gossipc/internal/compliance"
	"gossipc/internal/graph"
	"gossipc/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedClock = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }

const houseSource = `
@safety_critical
actor MainWall {
    send(Partition1, "brace")
}

actor Partition1
`

func TestCompiler_Compile_Scenario(t *testing.T) {
	c := NewCompiler(WithClock(fixedClock))

	bp, err := c.Compile(houseSource)
	require.NoError(t, err)

	assert.Equal(t, Metadata{
		Standard:  DefaultStandard,
		Timestamp: "2026-10-19T09:30:00Z",
		Compiler:  DefaultCompiler,
	}, bp.Metadata())

	components := bp.Components()
	require.Len(t, components, 2)

	main := components[0]
	assert.Equal(t, schema.TypeWall, main.Type)
	assert.Equal(t, "MainWall", main.Name)
	assert.True(t, main.LoadBearing)
	assert.Equal(t, 0.30, main.Thickness)

	part := components[1]
	assert.Equal(t, schema.TypeWall, part.Type)
	assert.Equal(t, "Partition1", part.Name)
	assert.False(t, part.LoadBearing)
	assert.Equal(t, 0.15, part.Thickness)
}

func TestCompiler_Analyze_ReturnsGraph(t *testing.T) {
	res, err := NewCompiler(WithClock(fixedClock)).Analyze(houseSource + "\nactor 1Bad\n")
	require.NoError(t, err)

	assert.Equal(t, []graph.Edge{{From: "MainWall", To: "Partition1", Kind: graph.RelationSends}}, res.Graph.Edges)
	assert.Len(t, res.Anomalies, 1)
	assert.True(t, res.Report.Passed)
	assert.Equal(t, 2, res.Blueprint.Len())
}

func TestCompiler_NoActors(t *testing.T) {
	c := NewCompiler()
	for _, src := range []string{"", "   \n", "let x = 1", "actor\nactor 2x"} {
		bp, err := c.Compile(src)
		assert.Nil(t, bp)
		assert.ErrorIs(t, err, ErrNoActorsFound, "source %q", src)
	}

	_, err := c.Compile("actor\n")
	var nae *NoActorsFoundError
	require.ErrorAs(t, err, &nae)
	assert.Len(t, nae.Anomalies, 1)
	assert.Contains(t, err.Error(), "line 1")
}

func TestCompiler_FireSafetyFailure(t *testing.T) {
	d := schema.DefaultDefaults()
	d.Wall.FireRating = 30
	c := NewCompiler(WithSynthesizer(schema.NewSynthesizer(d)))

	bp, err := c.Compile(houseSource)
	assert.Nil(t, bp)
	require.ErrorIs(t, err, ErrNonCompliant)

	var nce *NonCompliantError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, []compliance.CheckID{compliance.FireSafety}, nce.Report.Failing())
	require.Len(t, nce.Components, 2)
	assert.Equal(t, "MainWall", nce.Components[0].Name)
	assert.Equal(t, "Partition1", nce.Components[1].Name)
	assert.Contains(t, err.Error(), "fire_safety")
	assert.Contains(t, err.Error(), DefaultStandard)
}

func TestCompiler_NameConflict(t *testing.T) {
	_, err := NewCompiler().Compile("actor A\n@isolated\nactor A\nactor B")
	require.ErrorIs(t, err, ErrNameConflict)

	var nce *NameConflictError
	require.True(t, errors.As(err, &nce))
	assert.Equal(t, map[string][]int{"A": {1, 3}}, nce.Names)
	assert.Equal(t, "duplicate actor name: A (lines 1, 3)", err.Error())
}

func TestCompiler_LogsAnomaliesAndRejections(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := schema.DefaultDefaults()
	d.Wall.Height = 2.0
	c := NewCompiler(WithLogger(zap.New(core)), WithSynthesizer(schema.NewSynthesizer(d)))

	_, err := c.Compile("actor 9x\nactor Low {\n send(Nobody)\n}")
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("skipped actor declaration").Len())
	rejected := logs.FilterMessage("blueprint rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
}

func TestCompiler_CustomMetadataAndValidator(t *testing.T) {
	strict := compliance.NewValidator(compliance.CheckFunc{
		CheckID: compliance.Accessibility,
		Fn: func(cs []schema.Component) []string {
			if len(cs) < 3 {
				return []string{"needs at least three rooms"}
			}
			return nil
		},
	})
	c := NewCompiler(WithMetadata("LOCAL_CODE_v2", "gossipc_test"), WithValidator(strict), WithClock(fixedClock))

	_, err := c.Compile(houseSource)
	var nce *NonCompliantError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, "LOCAL_CODE_v2", nce.Standard)

	bp, err := c.Compile(houseSource + "\nactor Kitchen")
	require.NoError(t, err)
	assert.Equal(t, "gossipc_test", bp.Metadata().Compiler)
}

func TestCompiler_Translate(t *testing.T) {
	tr, err := NewCompiler().Translate(houseSource + "\n@isolated\nactor Vault")
	require.NoError(t, err)

	require.Len(t, tr.Nodes, 3)
	assert.Equal(t, schema.LoadBearingWall, tr.Nodes[0].ComponentType)
	assert.Equal(t, schema.PartitionWall, tr.Nodes[1].ComponentType)
	assert.Equal(t, schema.FireWall, tr.Nodes[2].ComponentType)
	assert.Len(t, tr.Graph.Edges, 1)

	_, err = NewCompiler().Translate("")
	assert.ErrorIs(t, err, ErrNoActorsFound)
}

func TestCompiler_IndependentCalls(t *testing.T) {
	c := NewCompiler(WithClock(fixedClock))
	first, err := c.Compile("actor A")
	require.NoError(t, err)
	second, err := c.Compile("actor B\nactor C")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 2, second.Len())
}
