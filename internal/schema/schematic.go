package schema

import "gossipc/internal/extractor"

// Refined component types of the translation path.
const (
	LoadBearingWall = "load_bearing_wall"
	FireWall        = "fire_wall"
	PartitionWall   = "partition_wall"
)

// Safety levels carried in SchematicNode.SafetyConstraints.
const (
	SafetyStructural = "STRUCTURAL"
	SafetyFireRated  = "FIRE_RATED"
	SafetyStandard   = "STANDARD"
)

// SchematicNode is the richer per-actor record produced by Translate.
// GossipActor is the originating actor's name, used for labeling only.
type SchematicNode struct {
	ComponentType     string             `json:"component_type"`
	Dimensions        map[string]float64 `json:"dimensions"`
	SafetyConstraints []string           `json:"safety_constraints"`
	GossipActor       string             `json:"gossip_actor"`
}

// Classification maps the refined component type back to the shared decision.
func (n SchematicNode) Classification() Classification {
	switch n.ComponentType {
	case LoadBearingWall:
		return StructuralCritical
	case FireWall:
		return Isolated
	default:
		return Standard
	}
}

// Layer is the architectural layer the node is drawn in.
func (n SchematicNode) Layer() string {
	return n.Classification().Layer()
}

// Translate projects an actor into a SchematicNode. Dimensions start from
// the classification's defaults and are overlaid by dimensions declared in
// the actor body.
func (s *Synthesizer) Translate(a extractor.Actor) SchematicNode {
	class := Classify(a)
	n := SchematicNode{
		Dimensions:  s.defaultDimensions(class),
		GossipActor: a.Name(),
	}
	switch class {
	case StructuralCritical:
		n.ComponentType = LoadBearingWall
		n.SafetyConstraints = []string{SafetyStructural}
	case Isolated:
		n.ComponentType = FireWall
		n.SafetyConstraints = []string{SafetyFireRated}
	default:
		n.ComponentType = PartitionWall
		n.SafetyConstraints = []string{SafetyStandard}
	}
	for k, v := range a.Dimensions() {
		n.Dimensions[k] = v
	}
	return n
}

// TranslateAll translates actors in order.
func (s *Synthesizer) TranslateAll(actors []extractor.Actor) []SchematicNode {
	out := make([]SchematicNode, 0, len(actors))
	for _, a := range actors {
		out = append(out, s.Translate(a))
	}
	return out
}

func (s *Synthesizer) defaultDimensions(c Classification) map[string]float64 {
	switch c {
	case StructuralCritical:
		return map[string]float64{
			"height":    s.defaults.Wall.Height,
			"thickness": s.defaults.Wall.LoadBearingThickness,
		}
	case Isolated:
		return map[string]float64{
			"depth": s.defaults.Foundation.IsolatedDepth,
			"width": s.defaults.Foundation.Width,
		}
	default:
		return map[string]float64{
			"height":    s.defaults.Wall.Height,
			"thickness": s.defaults.Wall.Thickness,
		}
	}
}
