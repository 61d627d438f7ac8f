package schema

import "gossipc/internal/extractor"

// Classification is the single decision shared by every projection of an
// actor into building terms.
type Classification int

const (
	Standard Classification = iota
	StructuralCritical
	Isolated
)

func (c Classification) String() string {
	switch c {
	case StructuralCritical:
		return "structural_critical"
	case Isolated:
		return "isolated"
	default:
		return "standard"
	}
}

// Layer is the architectural layer a classification is drawn in.
func (c Classification) Layer() string {
	switch c {
	case StructuralCritical:
		return LayerStructural
	case Isolated:
		return LayerFoundation
	default:
		return LayerInterior
	}
}

// Architectural layers, in drawing order.
const (
	LayerFoundation = "Foundation"
	LayerStructural = "Structural"
	LayerInterior   = "Interior"
)

// Layers lists every layer in drawing order.
func Layers() []string {
	return []string{LayerFoundation, LayerStructural, LayerInterior}
}

// Classify applies the annotation precedence: safety-critical first,
// then isolated, otherwise standard.
func Classify(a extractor.Actor) Classification {
	switch {
	case a.HasAnnotation(extractor.AnnotationSafetyCritical):
		return StructuralCritical
	case a.HasAnnotation(extractor.AnnotationIsolated):
		return Isolated
	default:
		return Standard
	}
}
