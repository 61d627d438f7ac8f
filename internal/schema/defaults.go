package schema

// Defaults holds the engineering defaults used when synthesizing
// components. Lengths are meters, fire ratings minutes and soil bearing
// capacity kPa.
type Defaults struct {
	Wall       WallDefaults       `yaml:"wall"`
	Foundation FoundationDefaults `yaml:"foundation"`
}

type WallDefaults struct {
	Height               float64 `yaml:"height"`
	Thickness            float64 `yaml:"thickness"`
	LoadBearingThickness float64 `yaml:"load_bearing_thickness"`
	Material             string  `yaml:"material"`
	FireRating           int     `yaml:"fire_rating"`
}

type FoundationDefaults struct {
	Depth               float64 `yaml:"depth"`
	IsolatedDepth       float64 `yaml:"isolated_depth"`
	Width               float64 `yaml:"width"`
	Reinforcement       string  `yaml:"reinforcement"`
	SoilBearingCapacity float64 `yaml:"soil_bearing_capacity"`
}

// DefaultDefaults returns the documented engineering defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Wall: WallDefaults{
			Height:               2.4,
			Thickness:            0.15,
			LoadBearingThickness: 0.30,
			Material:             "concrete",
			FireRating:           60,
		},
		Foundation: FoundationDefaults{
			Depth:               1.2,
			IsolatedDepth:       1.5,
			Width:               0.6,
			Reinforcement:       "rebar_12mm",
			SoilBearingCapacity: 150,
		},
	}
}
