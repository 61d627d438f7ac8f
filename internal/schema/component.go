package schema

type ComponentType string

const (
	TypeWall       ComponentType = "wall"
	TypeFoundation ComponentType = "foundation"
)

// Component is one typed building element. Exactly one of Wall and
// Foundation is set, matching Type. Both are embedded so the JSON form is
// flat: {"type":"wall","name":"A","load_bearing":true,...}.
type Component struct {
	Type ComponentType `json:"type"`
	Name string        `json:"name"`
	*Wall
	*Foundation
}

type Wall struct {
	LoadBearing bool    `json:"load_bearing"`
	Height      float64 `json:"height"`    // m
	Thickness   float64 `json:"thickness"` // m
	Material    string  `json:"material"`
	FireRating  int     `json:"fire_rating"` // minutes
}

type Foundation struct {
	Depth               float64 `json:"depth"` // m
	Width               float64 `json:"width"` // m
	Reinforcement       string  `json:"reinforcement"`
	SoilBearingCapacity float64 `json:"soil_bearing_capacity"` // kPa
}

// Classification projects the component back onto the shared decision.
func (c Component) Classification() Classification {
	switch {
	case c.Type == TypeFoundation:
		return Isolated
	case c.Wall != nil && c.Wall.LoadBearing:
		return StructuralCritical
	default:
		return Standard
	}
}

// Layer is the architectural layer the component belongs to.
func (c Component) Layer() string {
	return c.Classification().Layer()
}

// Clone returns a deep copy, so callers can hand components out without
// sharing the embedded records.
func (c Component) Clone() Component {
	out := Component{Type: c.Type, Name: c.Name}
	if c.Wall != nil {
		w := *c.Wall
		out.Wall = &w
	}
	if c.Foundation != nil {
		f := *c.Foundation
		out.Foundation = &f
	}
	return out
}

// CloneAll deep-copies a component list.
func CloneAll(in []Component) []Component {
	if in == nil {
		return nil
	}
	out := make([]Component, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
