package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/horizon/internal/models"
)

const (
	nominatimBaseURL   = "https://nominatim.openstreetmap.org/search"
	nominatimUserAgent = "Horizon-Isochrone-Service/1.0 (https://github.com/UnknownOlympus/horizon)"
	nominatimLimit     = 5
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client   HTTPClient   // HTTP client for making requests
	baseURL  string       // Base URL for the Nominatim API
	log      *slog.Logger // Logger for logging operations
	limit    int          // limit of results per request
	language string       // language sent as accept-language
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents one JSON result from Nominatim API.
type nominatimResponse struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"` // Latitude as string
	Lon         string `json:"lon"` // Longitude as string
}

// Common errors for Nominatim provider.
var (
	errNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// NewNominatimProvider creates a new Nominatim search provider.
// Uses the public Nominatim API endpoint by default.
func NewNominatimProvider(log *slog.Logger) *NominatimProvider {
	const timeout = 10
	return NewNominatimProviderWithClient(&http.Client{Timeout: timeout * time.Second}, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:    client,
		baseURL:   nominatimBaseURL,
		log:       log,
		limit:     nominatimLimit,
		language:  "en",
		userAgent: nominatimUserAgent,
	}
}

// Search finds places matching query using the Nominatim API.
//
// Uses a progressive fallback strategy for addresses Nominatim does not know:
// 1. Try the full query
// 2. Try without the last comma separated component (usually the house number)
// 3. Try without the last two components
// 4. Try the first component only (street or town name)
//
// When every variation returns nothing the result is an empty slice.
func (np *NominatimProvider) Search(ctx context.Context, query string) ([]models.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	np.log.DebugContext(ctx, "Searching places using Nominatim", "query", query)

	variations := np.generateQueryFallbacks(query)
	for idx, variation := range variations {
		places, err := np.searchSingle(ctx, variation)
		if err == nil {
			if idx > 0 {
				np.log.InfoContext(ctx, "Found places using fallback query",
					"original", query,
					"fallback", variation,
					"fallback_level", idx)
			}
			return places, nil
		}

		if !errors.Is(err, errNominatimEmptyResponse) {
			return nil, err
		}

		np.log.DebugContext(ctx, "Query variation returned no results, trying fallback",
			"variation", variation,
			"fallback_level", idx)
	}

	np.log.WarnContext(ctx, "All query fallbacks exhausted", "query", query, "variations_tried", len(variations))

	return []models.Place{}, nil
}

// generateQueryFallbacks creates a list of progressively simpler query variations.
func (np *NominatimProvider) generateQueryFallbacks(query string) []string {
	seen := make(map[string]bool)
	variations := []string{}

	addVariation := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variations = append(variations, v)
		}
	}

	addVariation(query)

	parts := strings.Split(query, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 1 {
		addVariation(strings.Join(parts[:len(parts)-1], ", "))

		const lenComponents = 2
		if len(parts) > lenComponents {
			addVariation(strings.Join(parts[:len(parts)-2], ", "))
		}

		addVariation(parts[0])
	}

	return variations
}

// searchSingle performs a single search request without fallback logic.
func (np *NominatimProvider) searchSingle(ctx context.Context, query string) ([]models.Place, error) {
	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(np.limit))
	params.Set("accept-language", np.language)
	reqURL.RawQuery = params.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept-Language", np.language)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, errNominatimEmptyResponse
	}

	places := make([]models.Place, 0, len(results))
	for _, result := range results {
		place, convErr := result.place()
		if convErr != nil {
			return nil, convErr
		}
		places = append(places, place)
	}

	return places, nil
}

func (r nominatimResponse) place() (models.Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, r.Lat)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, r.Lon)
	}

	coords := models.Coordinates{Latitude: lat, Longitude: lon}

	return models.Place{ID: coords.PlannerID(), Name: r.DisplayName, Coordinates: coords}, nil
}
