package models

import "strconv"

// Coordinates represents a geographical point defined by its latitude and longitude.
// Latitude comes first everywhere inside the service; only GeoJSON output flips the order.
type Coordinates struct {
	Latitude  float64 `json:"lat"` // Latitude of the geographical point.
	Longitude float64 `json:"lon"` // Longitude of the geographical point.
}

// IsZero reports whether both components are unset.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// PlannerID formats the point the way the planner accepts it as a from/to place: "lon;lat".
func (c Coordinates) PlannerID() string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64) + ";" + strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}
