package compliance

import (
	"fmt"

	"gossipc/internal/schema"
)

type CheckID string

const (
	StructuralIntegrity    CheckID = "structural_integrity"
	FireSafety             CheckID = "fire_safety"
	Accessibility          CheckID = "accessibility"
	EnvironmentalStandards CheckID = "environmental_standards"
)

// Check is one policy evaluation over a component set. Evaluate must be
// deterministic and must not modify its input; it returns one message per
// violation.
type Check interface {
	ID() CheckID
	Evaluate(components []schema.Component) []string
}

// CheckFunc adapts a plain function to Check.
type CheckFunc struct {
	CheckID CheckID
	Fn      func([]schema.Component) []string
}

func (c CheckFunc) ID() CheckID { return c.CheckID }

func (c CheckFunc) Evaluate(components []schema.Component) []string { return c.Fn(components) }

// DefaultChecks returns the four standard checks bound to p.
func DefaultChecks(p Policy) []Check {
	return []Check{
		CheckFunc{CheckID: StructuralIntegrity, Fn: p.structuralIntegrity},
		CheckFunc{CheckID: FireSafety, Fn: p.fireSafety},
		CheckFunc{CheckID: Accessibility, Fn: p.accessibility},
		CheckFunc{CheckID: EnvironmentalStandards, Fn: p.environmentalStandards},
	}
}

func (p Policy) structuralIntegrity(components []schema.Component) []string {
	if len(components) == 0 {
		return []string{"blueprint has no components"}
	}
	var v []string
	for _, c := range components {
		switch {
		case c.Wall != nil:
			if c.Height <= 0 || c.Thickness <= 0 {
				v = append(v, fmt.Sprintf("%s: wall dimensions must be positive", c.Name))
			}
			if c.LoadBearing && c.Thickness < p.MinLoadBearingThickness {
				v = append(v, fmt.Sprintf("%s: load-bearing wall thickness %.3gm below %.3gm", c.Name, c.Thickness, p.MinLoadBearingThickness))
			}
		case c.Foundation != nil:
			if c.Depth <= 0 || c.Width <= 0 {
				v = append(v, fmt.Sprintf("%s: foundation dimensions must be positive", c.Name))
			}
			if c.Depth < p.MinFoundationDepth {
				v = append(v, fmt.Sprintf("%s: foundation depth %.3gm below %.3gm", c.Name, c.Depth, p.MinFoundationDepth))
			}
		default:
			v = append(v, fmt.Sprintf("%s: component of type %q has no physical record", c.Name, c.Type))
		}
	}
	return v
}

func (p Policy) fireSafety(components []schema.Component) []string {
	var v []string
	for _, c := range components {
		if c.Wall == nil {
			continue
		}
		if c.FireRating < p.MinFireRating {
			v = append(v, fmt.Sprintf("%s: fire rating %dmin below %dmin", c.Name, c.FireRating, p.MinFireRating))
		}
		if c.Material == "" {
			v = append(v, fmt.Sprintf("%s: wall material not specified", c.Name))
		}
	}
	return v
}

func (p Policy) accessibility(components []schema.Component) []string {
	var v []string
	for _, c := range components {
		if c.Wall != nil && c.Height < p.MinWallHeight {
			v = append(v, fmt.Sprintf("%s: wall height %.3gm below %.3gm clearance", c.Name, c.Height, p.MinWallHeight))
		}
	}
	return v
}

func (p Policy) environmentalStandards(components []schema.Component) []string {
	var v []string
	for _, c := range components {
		if c.Foundation == nil {
			continue
		}
		if c.SoilBearingCapacity < p.MinSoilBearingCapacity {
			v = append(v, fmt.Sprintf("%s: soil bearing capacity %.4gkPa below %.4gkPa", c.Name, c.SoilBearingCapacity, p.MinSoilBearingCapacity))
		}
		if c.Width < p.MinFoundationWidth {
			v = append(v, fmt.Sprintf("%s: foundation width %.3gm below %.3gm", c.Name, c.Width, p.MinFoundationWidth))
		}
		if c.Reinforcement == "" {
			v = append(v, fmt.Sprintf("%s: reinforcement not specified", c.Name))
		}
	}
	return v
}
