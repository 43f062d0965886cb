package itinerary

import (
	"fmt"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// LegacyV1Response is the oldest schema: planner.planning[] of road books (feuilleroute.etapes[])
// with the drawn route kept apart in itineraire.trajets[].pas[]. A bare top-level feuilleroute
// is a single planning.
type LegacyV1Response struct {
	Planner *struct {
		Planning []v1Planning `json:"planning"`
	} `json:"planner"`
	FeuilleRoute *v1RoadBook  `json:"feuilleroute"`
	Itineraire   *v1Itinerary `json:"itineraire"`
}

type v1Planning struct {
	FeuilleRoute v1RoadBook   `json:"feuilleroute"`
	Itineraire   *v1Itinerary `json:"itineraire"`
}

type v1RoadBook struct {
	Etapes []v1Step `json:"etapes"`
}

type v1Itinerary struct {
	Trajets []struct {
		Pas []xy `json:"pas"`
	} `json:"trajets"`
}

// route concatenates every trajet in order.
func (i *v1Itinerary) route() []models.Coordinates {
	var path []models.Coordinates
	for _, trajet := range i.Trajets {
		for _, pas := range trajet.Pas {
			path = append(path, pas.coordinates())
		}
	}

	return path
}

type v1Step struct {
	Depart  v1Stop `json:"depart"`
	Arrivee v1Stop `json:"arrivee"`
	Mode    struct {
		Ligne string `json:"ligne"`
		Type  string `json:"type"`
	} `json:"mode"`
}

type v1Stop struct {
	Lieu struct {
		Nom string `json:"nom"`
		Geo *xy    `json:"geo"`
	} `json:"lieu"`
	Date struct {
		Date  string `json:"date"`
		Heure string `json:"heure"`
	} `json:"date"`
}

func (s v1Stop) model() (models.Place, error) {
	if s.Lieu.Geo == nil {
		return models.Place{}, fmt.Errorf("%w: stop %q has no geo", ErrMalformed, s.Lieu.Nom)
	}

	return models.Place{Name: s.Lieu.Nom, Coordinates: s.Lieu.Geo.coordinates()}, nil
}

// Schema implements Response.
func (r *LegacyV1Response) Schema() Schema { return SchemaLegacyV1 }

// Journeys implements Response.
func (r *LegacyV1Response) Journeys() ([]models.Journey, error) {
	var plannings []v1Planning
	switch {
	case r.Planner != nil:
		plannings = r.Planner.Planning
	case r.FeuilleRoute != nil:
		plannings = []v1Planning{{FeuilleRoute: *r.FeuilleRoute, Itineraire: r.Itineraire}}
	}

	journeys := make([]models.Journey, 0, len(plannings))
	for idx, planning := range plannings {
		journey, err := planning.normalise(idx)
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, journey)
	}

	return journeys, nil
}

func (p v1Planning) normalise(idx int) (models.Journey, error) {
	var journey models.Journey

	for stepIdx, step := range p.FeuilleRoute.Etapes {
		leg := models.Leg{Mode: step.Mode.Type, Line: step.Mode.Ligne}

		var err error
		if leg.From, err = step.Depart.model(); err != nil {
			return models.Journey{}, fmt.Errorf("planning %d step %d: %w", idx, stepIdx, err)
		}
		if leg.To, err = step.Arrivee.model(); err != nil {
			return models.Journey{}, fmt.Errorf("planning %d step %d: %w", idx, stepIdx, err)
		}
		if leg.Departure, err = parseLegacyDateTime(step.Depart.Date.Date, step.Depart.Date.Heure); err != nil {
			return models.Journey{}, fmt.Errorf("planning %d step %d: %w", idx, stepIdx, err)
		}
		if leg.Arrival, err = parseLegacyDateTime(step.Arrivee.Date.Date, step.Arrivee.Date.Heure); err != nil {
			return models.Journey{}, fmt.Errorf("planning %d step %d: %w", idx, stepIdx, err)
		}
		if !leg.Departure.IsZero() && !leg.Arrival.IsZero() {
			leg.DurationSeconds = int(leg.Arrival.Sub(leg.Departure).Seconds())
		}

		if p.Itineraire != nil && len(p.Itineraire.Trajets) == len(p.FeuilleRoute.Etapes) {
			for _, pas := range p.Itineraire.Trajets[stepIdx].Pas {
				leg.Path = append(leg.Path, pas.coordinates())
			}
		}

		journey.Legs = append(journey.Legs, leg)
	}

	// trajets that do not pair with steps are one route, drawn with the first leg
	if p.Itineraire != nil && len(journey.Legs) > 0 && len(p.Itineraire.Trajets) != len(journey.Legs) {
		journey.Legs[0].Path = p.Itineraire.route()
	}

	return finish(journey, idx)
}
