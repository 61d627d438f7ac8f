package schema

import "gossipc/internal/extractor"

// Synthesizer maps actors to building components using a fixed set of
// defaults. It holds no per-call state.
type Synthesizer struct {
	defaults Defaults
}

// NewSynthesizer creates a synthesizer with the given defaults.
func NewSynthesizer(d Defaults) *Synthesizer {
	return &Synthesizer{defaults: d}
}

// Defaults returns the defaults the synthesizer was built with.
func (s *Synthesizer) Defaults() Defaults {
	return s.defaults
}

// Synthesize maps one actor to exactly one component.
func (s *Synthesizer) Synthesize(a extractor.Actor) Component {
	switch Classify(a) {
	case StructuralCritical:
		return s.wall(a.Name(), true)
	case Isolated:
		return s.foundation(a.Name(), s.defaults.Foundation.IsolatedDepth)
	default:
		return s.wall(a.Name(), false)
	}
}

// SynthesizeAll maps actors in order.
func (s *Synthesizer) SynthesizeAll(actors []extractor.Actor) []Component {
	out := make([]Component, 0, len(actors))
	for _, a := range actors {
		out = append(out, s.Synthesize(a))
	}
	return out
}

func (s *Synthesizer) wall(name string, loadBearing bool) Component {
	d := s.defaults.Wall
	thickness := d.Thickness
	if loadBearing {
		thickness = d.LoadBearingThickness
	}
	return Component{
		Type: TypeWall,
		Name: name,
		Wall: &Wall{
			LoadBearing: loadBearing,
			Height:      d.Height,
			Thickness:   thickness,
			Material:    d.Material,
			FireRating:  d.FireRating,
		},
	}
}

func (s *Synthesizer) foundation(name string, depth float64) Component {
	d := s.defaults.Foundation
	return Component{
		Type: TypeFoundation,
		Name: name,
		Foundation: &Foundation{
			Depth:               depth,
			Width:               d.Width,
			Reinforcement:       d.Reinforcement,
			SoilBearingCapacity: d.SoilBearingCapacity,
		},
	}
}
