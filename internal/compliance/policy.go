package compliance

import "gossipc/internal/schema"

// Policy holds the thresholds the built-in checks compare against. The
// defaults are the documented engineering defaults; nothing stricter is
// assumed.
type Policy struct {
	MinLoadBearingThickness float64 `yaml:"min_load_bearing_thickness"` // m
	MinFoundationDepth      float64 `yaml:"min_foundation_depth"`       // m
	MinFireRating           int     `yaml:"min_fire_rating"`            // minutes
	MinWallHeight           float64 `yaml:"min_wall_height"`            // m
	MinSoilBearingCapacity  float64 `yaml:"min_soil_bearing_capacity"`  // kPa
	MinFoundationWidth      float64 `yaml:"min_foundation_width"`       // m
}

// DefaultPolicy derives thresholds from the engineering defaults.
func DefaultPolicy() Policy {
	return PolicyFromDefaults(schema.DefaultDefaults())
}

// PolicyFromDefaults uses d's values as minimums.
func PolicyFromDefaults(d schema.Defaults) Policy {
	return Policy{
		MinLoadBearingThickness: d.Wall.LoadBearingThickness,
		MinFoundationDepth:      d.Foundation.Depth,
		MinFireRating:           d.Wall.FireRating,
		MinWallHeight:           d.Wall.Height,
		MinSoilBearingCapacity:  d.Foundation.SoilBearingCapacity,
		MinFoundationWidth:      d.Foundation.Width,
	}
}
