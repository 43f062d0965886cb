package itinerary

import (
	"fmt"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// LegacyV3Response is the journey_list[].section_list[] schema. Older deployments wrap it in "planner".
type LegacyV3Response struct {
	JourneyList []v3Journey `json:"journey_list"`
	Planner     *struct {
		ResponseType string      `json:"response_type"`
		JourneyList  []v3Journey `json:"journey_list"`
	} `json:"planner"`
}

type v3Journey struct {
	Duration          int         `json:"duration"`
	DepartureDateTime string      `json:"departure_date_time"`
	ArrivalDateTime   string      `json:"arrival_date_time"`
	SectionList       []v3Section `json:"section_list"`
}

type v3Section struct {
	Type           string   `json:"type"`
	Duration       int      `json:"duration"`
	BeginDateTime  string   `json:"begin_date_time"`
	EndDateTime    string   `json:"end_date_time"`
	Origin         *v3Place `json:"origin"`
	Destination    *v3Place `json:"destination"`
	VehicleJourney *struct {
		Route struct {
			Line struct {
				Code string `json:"code"`
				Name string `json:"name"`
			} `json:"line"`
		} `json:"route"`
	} `json:"vehicle_journey"`
	StreetNetwork *struct {
		Mode        string   `json:"mode"`
		Coordinates []latLon `json:"coordinates"`
	} `json:"street_network"`
	StopDateTimes []struct {
		StopPoint v3Place `json:"stop_point"`
	} `json:"stop_date_times"`
}

type v3Place struct {
	Name      string   `json:"name"`
	URI       string   `json:"uri"`
	Coord     *latLon  `json:"coord"`
	StopPoint *v3Place `json:"stop_point"`
	StopArea  *v3Place `json:"stop_area"`
	Address   *v3Place `json:"address"`
}

func (p *v3Place) coord() *latLon {
	for _, candidate := range []*v3Place{p, p.StopPoint, p.StopArea, p.Address} {
		if candidate != nil && candidate.Coord != nil {
			return candidate.Coord
		}
	}

	return nil
}

func (p *v3Place) model() (models.Place, error) {
	if p == nil {
		return models.Place{}, fmt.Errorf("%w: section without origin or destination", ErrMalformed)
	}
	coord := p.coord()
	if coord == nil {
		return models.Place{}, fmt.Errorf("%w: place %q has no coordinates", ErrMalformed, p.Name)
	}

	return models.Place{ID: p.URI, Name: p.Name, Coordinates: coord.coordinates()}, nil
}

// Schema implements Response.
func (r *LegacyV3Response) Schema() Schema { return SchemaLegacyV3 }

// Journeys implements Response.
func (r *LegacyV3Response) Journeys() ([]models.Journey, error) {
	list := r.JourneyList
	if len(list) == 0 && r.Planner != nil {
		list = r.Planner.JourneyList
	}

	journeys := make([]models.Journey, 0, len(list))
	for idx, raw := range list {
		journey := models.Journey{DurationSeconds: raw.Duration}

		var err error
		if journey.Departure, err = parseDateTime(raw.DepartureDateTime); err != nil {
			return nil, err
		}
		if journey.Arrival, err = parseDateTime(raw.ArrivalDateTime); err != nil {
			return nil, err
		}

		for sectionIdx, section := range raw.SectionList {
			// WAITING and TRANSFER sections carry no places
			if section.Origin == nil && section.Destination == nil {
				continue
			}
			leg, legErr := section.leg()
			if legErr != nil {
				return nil, fmt.Errorf("journey %d section %d: %w", idx, sectionIdx, legErr)
			}
			journey.Legs = append(journey.Legs, leg)
		}

		journey, err = finish(journey, idx)
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, journey)
	}

	return journeys, nil
}

func (s v3Section) leg() (models.Leg, error) {
	var (
		leg = models.Leg{Mode: s.Type, DurationSeconds: s.Duration}
		err error
	)

	if leg.From, err = s.Origin.model(); err != nil {
		return models.Leg{}, err
	}
	if leg.To, err = s.Destination.model(); err != nil {
		return models.Leg{}, err
	}
	if leg.Departure, err = parseDateTime(s.BeginDateTime); err != nil {
		return models.Leg{}, err
	}
	if leg.Arrival, err = parseDateTime(s.EndDateTime); err != nil {
		return models.Leg{}, err
	}

	if s.VehicleJourney != nil {
		leg.Line = s.VehicleJourney.Route.Line.Code
	}

	switch {
	case s.StreetNetwork != nil:
		if s.StreetNetwork.Mode != "" {
			leg.Mode = s.StreetNetwork.Mode
		}
		for _, coord := range s.StreetNetwork.Coordinates {
			leg.Path = append(leg.Path, coord.coordinates())
		}
	case len(s.StopDateTimes) > 0:
		for _, stop := range s.StopDateTimes {
			if coord := stop.StopPoint.coord(); coord != nil {
				leg.Path = append(leg.Path, coord.coordinates())
			}
		}
	}

	return leg, nil
}
