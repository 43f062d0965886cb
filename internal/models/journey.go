package models

import "time"

// Place is a named location returned by the planner, either a stop, an address or a search hit.
type Place struct {
	ID          string      `json:"id,omitempty"` // ID is the planner identifier (uri) of the place, may be empty.
	Name        string      `json:"name"`         // Name is the human readable label.
	Coordinates Coordinates `json:"coordinates"`  // Coordinates of the place.
}

// Leg is one segment of a journey, e.g. one bus ride or one walking stretch.
type Leg struct {
	Mode            string        `json:"mode"`           // Mode is the transport mode (walking, bus, metro...).
	Line            string        `json:"line,omitempty"` // Line is the public line code when the leg is public transport.
	From            Place         `json:"from"`           // From is where the leg starts.
	To              Place         `json:"to"`             // To is where the leg ends.
	Departure       time.Time     `json:"departure"`      // Departure time of the leg.
	Arrival         time.Time     `json:"arrival"`        // Arrival time of the leg.
	DurationSeconds int           `json:"duration"`       // DurationSeconds of the leg.
	Path            []Coordinates `json:"path,omitempty"` // Path is the drawn geometry of the leg, in travel order.
}

// Journey is the normalised form of a planner result, whatever schema it was decoded from.
// Journeys are treated as immutable once received.
type Journey struct {
	Origin          Place     `json:"origin"`                // Origin of the journey.
	Destination     Place     `json:"destination"`           // Destination of the journey, the isochrone point.
	DurationSeconds int       `json:"duration"`              // DurationSeconds is the total travel time, never negative.
	DetailLink      string    `json:"detail_link,omitempty"` // DetailLink points to the full journey on the planner API.
	Departure       time.Time `json:"departure"`             // Departure time of the first leg.
	Arrival         time.Time `json:"arrival"`               // Arrival time of the last leg.
	Legs            []Leg     `json:"legs,omitempty"`        // Legs in travel order.
}

// ColoredPoint is an isochrone destination together with its computed color.
type ColoredPoint struct {
	Coordinates Coordinates // Coordinates of the destination.
	Color       string      // Color as "#RRGGBB".
	Journey     Journey     // Journey the point was derived from, used for popups.
}
