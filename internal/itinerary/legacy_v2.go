package itinerary

import (
	"fmt"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// LegacyV2Response is the path[].items[] schema. Coordinates are {x: lon, y: lat}.
type LegacyV2Response struct {
	Path []v2Path `json:"path"`
}

type v2Path struct {
	Duration  int      `json:"duration"`
	Departure string   `json:"departure"`
	Arrival   string   `json:"arrival"`
	Items     []v2Item `json:"items"`
}

type v2Item struct {
	Type        string  `json:"type"`
	Mode        string  `json:"mode"`
	Line        string  `json:"line"`
	Duration    int     `json:"duration"`
	Departure   *v2Stop `json:"departure"`
	Arrival     *v2Stop `json:"arrival"`
	Coordinates []xy    `json:"coordinates"`
}

type v2Stop struct {
	Name  string `json:"name"`
	URI   string `json:"uri"`
	Coord *xy    `json:"coord"`
	Time  string `json:"time"`
}

func (s *v2Stop) model() (models.Place, error) {
	if s == nil || s.Coord == nil {
		return models.Place{}, fmt.Errorf("%w: item stop without coordinates", ErrMalformed)
	}

	return models.Place{ID: s.URI, Name: s.Name, Coordinates: s.Coord.coordinates()}, nil
}

// Schema implements Response.
func (r *LegacyV2Response) Schema() Schema { return SchemaLegacyV2 }

// Journeys implements Response.
func (r *LegacyV2Response) Journeys() ([]models.Journey, error) {
	journeys := make([]models.Journey, 0, len(r.Path))
	for idx, path := range r.Path {
		journey := models.Journey{DurationSeconds: path.Duration}

		var err error
		if journey.Departure, err = parseDateTime(path.Departure); err != nil {
			return nil, err
		}
		if journey.Arrival, err = parseDateTime(path.Arrival); err != nil {
			return nil, err
		}

		for itemIdx, item := range path.Items {
			leg, legErr := item.leg()
			if legErr != nil {
				return nil, fmt.Errorf("path %d item %d: %w", idx, itemIdx, legErr)
			}
			journey.Legs = append(journey.Legs, leg)
		}

		if journey, err = finish(journey, idx); err != nil {
			return nil, err
		}
		journeys = append(journeys, journey)
	}

	return journeys, nil
}

func (i v2Item) leg() (models.Leg, error) {
	var (
		leg = models.Leg{Mode: i.Mode, Line: i.Line, DurationSeconds: i.Duration}
		err error
	)

	if leg.Mode == "" {
		leg.Mode = i.Type
	}
	if leg.From, err = i.Departure.model(); err != nil {
		return models.Leg{}, err
	}
	if leg.To, err = i.Arrival.model(); err != nil {
		return models.Leg{}, err
	}
	if leg.Departure, err = parseDateTime(i.Departure.Time); err != nil {
		return models.Leg{}, err
	}
	if leg.Arrival, err = parseDateTime(i.Arrival.Time); err != nil {
		return models.Leg{}, err
	}

	for _, coord := range i.Coordinates {
		leg.Path = append(leg.Path, coord.coordinates())
	}

	return leg, nil
}
