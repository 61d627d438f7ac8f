package blueprint

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const mixedSource = `
@safety_critical
actor MainWall
@isolated
actor Vault
actor Partition1
`

func compileMixed(t *testing.T) *Blueprint {
	t.Helper()
	bp, err := NewCompiler(WithClock(fixedClock)).Compile(mixedSource)
	require.NoError(t, err)
	return bp
}

func TestBlueprint_MapRoundTrip(t *testing.T) {
	bp := compileMixed(t)

	m, err := bp.ToMap()
	require.NoError(t, err)

	meta, ok := m["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, DefaultStandard, meta["standard"])
	assert.Equal(t, "2026-10-19T09:30:00Z", meta["timestamp"])
	assert.Equal(t, DefaultCompiler, meta["compiler"])

	list, ok := m["components"].([]any)
	require.True(t, ok)
	require.Len(t, list, 3)
	for _, item := range list {
		entry := item.(map[string]any)
		assert.Contains(t, entry, "type")
		assert.Contains(t, entry, "name")
	}

	back, err := FromMap(m)
	require.NoError(t, err)
	assert.Equal(t, bp.Metadata(), back.Metadata())
	if diff := cmp.Diff(bp.Components(), back.Components()); diff != "" {
		t.Errorf("components changed in round trip (-want +got):\n%s", diff)
	}
}

func TestBlueprint_JSONShape(t *testing.T) {
	data, err := json.Marshal(compileMixed(t))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"metadata": {"standard": "IWU_SAFE_HOUSING_v1", "timestamp": "2026-10-19T09:30:00Z", "compiler": "SSL_v1.0"},
		"components": [
			{"type": "wall", "name": "MainWall", "load_bearing": true, "height": 2.4, "thickness": 0.3, "material": "concrete", "fire_rating": 60},
			{"type": "foundation", "name": "Vault", "depth": 1.5, "width": 0.6, "reinforcement": "rebar_12mm", "soil_bearing_capacity": 150},
			{"type": "wall", "name": "Partition1", "load_bearing": false, "height": 2.4, "thickness": 0.15, "material": "concrete", "fire_rating": 60}
		]
	}`, string(data))
}

func TestBlueprint_YAML(t *testing.T) {
	out, err := yaml.Marshal(compileMixed(t))
	require.NoError(t, err)

	var decoded struct {
		Metadata   Metadata         `yaml:"metadata"`
		Components []map[string]any `yaml:"components"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, DefaultStandard, decoded.Metadata.Standard)
	require.Len(t, decoded.Components, 3)
	assert.Equal(t, "Vault", decoded.Components[1]["name"])
	assert.Equal(t, "foundation", decoded.Components[1]["type"])
}

func TestBlueprint_Immutable(t *testing.T) {
	bp := compileMixed(t)

	cs := bp.Components()
	cs[0].Name = "Changed"
	cs[0].Wall.Thickness = 9

	got, ok := bp.Component("MainWall")
	require.True(t, ok)
	assert.Equal(t, 0.30, got.Thickness)

	_, ok = bp.Component("Changed")
	assert.False(t, ok)
}

func TestBlueprint_UnmarshalRefusesPopulated(t *testing.T) {
	bp := compileMixed(t)
	before := bp.Components()
	meta := bp.Metadata()

	err := json.Unmarshal([]byte(`{"metadata":{"standard":"X"},"components":[]}`), bp)
	require.ErrorIs(t, err, ErrImmutable)
	assert.Equal(t, meta, bp.Metadata())
	assert.Equal(t, before, bp.Components())

	data, err := json.Marshal(bp)
	require.NoError(t, err)
	fresh := &Blueprint{}
	require.NoError(t, json.Unmarshal(data, fresh))
	assert.Equal(t, before, fresh.Components())
}

func TestDecode_RejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown type", body: `{"metadata":{},"components":[{"type":"roof","name":"R"}]}`},
		{name: "wall without fields", body: `{"metadata":{},"components":[{"type":"wall","name":"W"}]}`},
		{name: "mixed fields", body: `{"metadata":{},"components":[{"type":"wall","name":"W","height":2.4,"depth":1}]}`},
		{name: "not json", body: `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}
