package itinerary

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// number accepts both 2.35 and "2.35"; the planner has used both for coordinates.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}

	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", data, err)
	}
	*n = number(value)

	return nil
}

// latLon is the {"lat", "lon"} coordinate object.
type latLon struct {
	Lat number `json:"lat"`
	Lon number `json:"lon"`
}

func (c latLon) coordinates() models.Coordinates {
	return models.Coordinates{Latitude: float64(c.Lat), Longitude: float64(c.Lon)}
}

// xy is the legacy {"x": lon, "y": lat} coordinate object.
type xy struct {
	X number `json:"x"`
	Y number `json:"y"`
}

func (c xy) coordinates() models.Coordinates {
	return models.Coordinates{Latitude: float64(c.Y), Longitude: float64(c.X)}
}

// planner date-time layouts, most specific first.
var dateTimeLayouts = []string{
	"20060102T150405",
	"20060102T1504",
	time.RFC3339,
}

func parseDateTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid date time %q", ErrMalformed, value)
}

var (
	legacyDateLayouts = []string{"2006-01-02", "20060102", "02/01/2006"}
	legacyHourLayouts = []string{"15:04", "15h04", "1504"}
)

// parseLegacyDateTime joins the separate date and hour fields of the oldest schema.
func parseLegacyDateTime(date, hour string) (time.Time, error) {
	if date == "" && hour == "" {
		return time.Time{}, nil
	}

	for _, dateLayout := range legacyDateLayouts {
		for _, hourLayout := range legacyHourLayouts {
			if parsed, err := time.Parse(dateLayout+" "+hourLayout, date+" "+hour); err == nil {
				return parsed, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid date %q and hour %q", ErrMalformed, date, hour)
}

// finish fills the journey-level fields every schema derives the same way
// and rejects journeys that cannot be drawn.
func finish(journey models.Journey, idx int) (models.Journey, error) {
	if len(journey.Legs) > 0 {
		first, last := journey.Legs[0], journey.Legs[len(journey.Legs)-1]
		if journey.Origin.Name == "" && journey.Origin.Coordinates.IsZero() {
			journey.Origin = first.From
		}
		if journey.Destination.Name == "" && journey.Destination.Coordinates.IsZero() {
			journey.Destination = last.To
		}
		if journey.Departure.IsZero() {
			journey.Departure = first.Departure
		}
		if journey.Arrival.IsZero() {
			journey.Arrival = last.Arrival
		}
	}

	if journey.DurationSeconds == 0 && !journey.Departure.IsZero() && !journey.Arrival.IsZero() {
		journey.DurationSeconds = int(journey.Arrival.Sub(journey.Departure).Seconds())
	}
	if journey.DurationSeconds == 0 {
		for _, leg := range journey.Legs {
			journey.DurationSeconds += leg.DurationSeconds
		}
	}

	if journey.DurationSeconds < 0 {
		return models.Journey{}, fmt.Errorf("%w: journey %d has negative duration %d", ErrMalformed, idx,
			journey.DurationSeconds)
	}

	return journey, nil
}
