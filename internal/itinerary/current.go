package itinerary

import (
	"fmt"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// noSolution is the planner error id for "nothing reachable", which is an empty result, not a failure.
const noSolution = "no_solution"

// CurrentResponse is the journeys[].sections[] schema.
type CurrentResponse struct {
	JourneyList []currentJourney `json:"journeys"`
	Error       *currentError    `json:"error"`
}

type currentError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type currentJourney struct {
	Duration          int              `json:"duration"`
	DepartureDateTime string           `json:"departure_date_time"`
	ArrivalDateTime   string           `json:"arrival_date_time"`
	From              *Place           `json:"from"`
	To                *Place           `json:"to"`
	Sections          []currentSection `json:"sections"`
	Links             []currentLink    `json:"links"`
}

type currentSection struct {
	Type                string          `json:"type"`
	Mode                string          `json:"mode"`
	Duration            int             `json:"duration"`
	DepartureDateTime   string          `json:"departure_date_time"`
	ArrivalDateTime     string          `json:"arrival_date_time"`
	From                *Place          `json:"from"`
	To                  *Place          `json:"to"`
	GeoJSON             *currentGeoJSON `json:"geojson"`
	DisplayInformations *struct {
		Code         string `json:"code"`
		PhysicalMode string `json:"physical_mode"`
	} `json:"display_informations"`
}

type currentGeoJSON struct {
	Type        string      `json:"type"`
	Coordinates [][2]number `json:"coordinates"` // [lon, lat]
}

type currentLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
	Type string `json:"type"`
}

// Place is a planner place object. The coordinate lives in the embedded object named by EmbeddedType.
type Place struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	EmbeddedType         string         `json:"embedded_type"`
	StopArea             *embeddedPlace `json:"stop_area"`
	StopPoint            *embeddedPlace `json:"stop_point"`
	Address              *embeddedPlace `json:"address"`
	POI                  *embeddedPlace `json:"poi"`
	AdministrativeRegion *embeddedPlace `json:"administrative_region"`
}

type embeddedPlace struct {
	Coord *latLon `json:"coord"`
}

// Model converts the place, failing when the embedded object carries no coordinate.
func (p Place) Model() (models.Place, error) {
	embedded := map[string]*embeddedPlace{
		"stop_area":             p.StopArea,
		"stop_point":            p.StopPoint,
		"address":               p.Address,
		"poi":                   p.POI,
		"administrative_region": p.AdministrativeRegion,
	}[p.EmbeddedType]

	if embedded == nil || embedded.Coord == nil {
		return models.Place{}, fmt.Errorf("%w: place %q (%s) has no coordinates", ErrMalformed, p.ID, p.EmbeddedType)
	}

	return models.Place{ID: p.ID, Name: p.Name, Coordinates: embedded.Coord.coordinates()}, nil
}

// Schema implements Response.
func (r *CurrentResponse) Schema() Schema { return SchemaCurrent }

// Journeys implements Response.
func (r *CurrentResponse) Journeys() ([]models.Journey, error) {
	if r.Error != nil {
		if r.Error.ID == noSolution {
			return []models.Journey{}, nil
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrPlanner, r.Error.ID, r.Error.Message)
	}

	journeys := make([]models.Journey, 0, len(r.JourneyList))
	for idx, raw := range r.JourneyList {
		journey, err := raw.normalise(idx)
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, journey)
	}

	return journeys, nil
}

func (j currentJourney) normalise(idx int) (models.Journey, error) {
	var (
		journey = models.Journey{DurationSeconds: j.Duration, DetailLink: j.detailLink()}
		err     error
	)

	if journey.Departure, err = parseDateTime(j.DepartureDateTime); err != nil {
		return models.Journey{}, err
	}
	if journey.Arrival, err = parseDateTime(j.ArrivalDateTime); err != nil {
		return models.Journey{}, err
	}
	if j.From != nil {
		if journey.Origin, err = j.From.Model(); err != nil {
			return models.Journey{}, fmt.Errorf("journey %d origin: %w", idx, err)
		}
	}
	if j.To != nil {
		if journey.Destination, err = j.To.Model(); err != nil {
			return models.Journey{}, fmt.Errorf("journey %d destination: %w", idx, err)
		}
	}

	for sectionIdx, section := range j.Sections {
		// waiting and transfer sections have no geometry worth drawing
		if section.From == nil || section.To == nil {
			continue
		}
		leg, legErr := section.leg()
		if legErr != nil {
			return models.Journey{}, fmt.Errorf("journey %d section %d: %w", idx, sectionIdx, legErr)
		}
		journey.Legs = append(journey.Legs, leg)
	}

	return finish(journey, idx)
}

func (j currentJourney) detailLink() string {
	for _, link := range j.Links {
		if link.Type == "journeys" || link.Rel == "journeys" {
			return link.Href
		}
	}
	if len(j.Links) > 0 {
		return j.Links[0].Href
	}

	return ""
}

func (s currentSection) leg() (models.Leg, error) {
	var (
		leg = models.Leg{Mode: s.Mode, DurationSeconds: s.Duration}
		err error
	)

	if leg.From, err = s.From.Model(); err != nil {
		return models.Leg{}, err
	}
	if leg.To, err = s.To.Model(); err != nil {
		return models.Leg{}, err
	}
	if leg.Departure, err = parseDateTime(s.DepartureDateTime); err != nil {
		return models.Leg{}, err
	}
	if leg.Arrival, err = parseDateTime(s.ArrivalDateTime); err != nil {
		return models.Leg{}, err
	}

	if info := s.DisplayInformations; info != nil {
		leg.Line = info.Code
		if leg.Mode == "" {
			leg.Mode = info.PhysicalMode
		}
	}
	if leg.Mode == "" {
		leg.Mode = s.Type
	}

	if s.GeoJSON != nil {
		for _, pair := range s.GeoJSON.Coordinates {
			leg.Path = append(leg.Path, models.Coordinates{Latitude: float64(pair[1]), Longitude: float64(pair[0])})
		}
	}

	return leg, nil
}
