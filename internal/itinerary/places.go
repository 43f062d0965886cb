package itinerary

import (
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// placesResponse covers both place search answers: the current places[] list
// and the legacy firstletter.items[] autocomplete.
type placesResponse struct {
	Places      []Place `json:"places"`
	FirstLetter *struct {
		Items []struct {
			Name  string `json:"name"`
			URI   string `json:"uri"`
			Coord *xy    `json:"coord"`
		} `json:"items"`
	} `json:"firstletter"`
}

// ParsePlaces decodes a place search response. Current places without a coordinate are skipped;
// legacy items are kept since their uri alone is a valid journey endpoint.
func ParsePlaces(body []byte) ([]models.Place, error) {
	var resp placesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	places := make([]models.Place, 0, len(resp.Places))
	for _, raw := range resp.Places {
		place, err := raw.Model()
		if err != nil {
			continue
		}
		places = append(places, place)
	}

	if resp.FirstLetter != nil {
		for _, item := range resp.FirstLetter.Items {
			place := models.Place{ID: item.URI, Name: item.Name}
			if item.Coord != nil {
				place.Coordinates = item.Coord.coordinates()
			}
			places = append(places, place)
		}
	}

	return places, nil
}
