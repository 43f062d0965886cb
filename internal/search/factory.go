package search

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of search provider.
type ProviderType string

const (
	// ProviderTypePlanner searches the planner's own place index.
	ProviderTypePlanner ProviderType = "planner"
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeVisicom represents Visicom geocoding provider.
	ProviderTypeVisicom ProviderType = "visicom"
)

// ProviderConfig holds configuration for creating a search provider.
type ProviderConfig struct {
	Type      ProviderType  // Type of provider to create
	APIKey    string        // API key (used by Google and Visicom providers)
	RateLimit int           // Rate limit for requests per second (used by Google and Visicom providers)
	Limit     int           // Maximum number of places returned (used by Nominatim and Visicom providers)
	Language  string        // Preferred result language (used by Nominatim and Visicom providers)
	Planner   PlaceSearcher // Planner client (used by planner provider)
	Logger    *slog.Logger  // Logger for the provider
}

// NewProvider creates a search provider based on the provided configuration.
//
// Supported provider types:
// - "planner": the planner API place endpoint (requires a planner client)
// - "google": Google Maps Geocoding API (requires API key)
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required)
// - "visicom": Visicom API (requires API key)
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	switch config.Type {
	case ProviderTypePlanner:
		return newPlannerProvider(config)
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeNominatim:
		return newNominatimProvider(config)
	case ProviderTypeVisicom:
		return newVisicomProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func newPlannerProvider(config ProviderConfig) (Provider, error) {
	if config.Planner == nil {
		return nil, errors.New("planner client is required for planner provider")
	}

	return NewPlannerProvider(config.Planner, config.Logger), nil
}

// newGoogleProvider creates a Google Maps geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// newNominatimProvider creates a Nominatim geocoding provider.
func newNominatimProvider(config ProviderConfig) (Provider, error) {
	provider := NewNominatimProvider(config.Logger)
	if config.Limit > 0 {
		provider.limit = config.Limit
	}
	if config.Language != "" {
		provider.language = config.Language
	}

	return provider, nil
}

// newVisicomProvider creates a Visicom geocoding provider.
func newVisicomProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Visicom provider")
	}

	provider := NewVisicomProvider(config.APIKey, config.RateLimit, config.Logger)
	if config.Limit > 0 {
		provider.limit = config.Limit
	}
	if config.Language != "" {
		provider.language = config.Language
	}

	return provider, nil
}
