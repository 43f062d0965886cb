package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/horizon/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Search geocodes query with the Google Maps Geocoding API. Every result becomes a place
// named by its formatted address; the journeys endpoint receives it as "lon;lat".
func (gp *GoogleProvider) Search(ctx context.Context, query string) ([]models.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	gp.log.DebugContext(ctx, "Searching places using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query}
	results, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	places := make([]models.Place, 0, len(results))
	for _, result := range results {
		coords := models.Coordinates{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		}
		places = append(places, models.Place{
			ID:          coords.PlannerID(),
			Name:        result.FormattedAddress,
			Coordinates: coords,
		})
	}

	return places, nil
}
