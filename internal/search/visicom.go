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
	"golang.org/x/time/rate"
)

// VisicomBaseURL is the Visicom data API root; the language segment and endpoint are appended.
const VisicomBaseURL = "https://api.visicom.ua/data-api/5.0"

// VisicomProvider searches places with the Visicom geocoding API.
type VisicomProvider struct {
	client   HTTPClient    // HTTP client for making requests
	baseURL  string        // Base URL for the Visicom API
	apiKey   string        // API key with geocoding access
	limit    int           // limit of results per request
	language string        // language path segment: uk, en or ru
	log      *slog.Logger  // Logger for logging operations
	limiter  *rate.Limiter // Rate limiter
}

// Common errors for Visicom provider.
var (
	ErrVisicomInvalidCoords = errors.New("visicom API returned invalid coordinates")
	ErrVisicomUnauthorized  = errors.New("visicom API unauthorized (invalid API key)")
)

// visicomFeature is one result. With limit=1 the API answers a bare feature, otherwise
// a feature collection.
type visicomFeature struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
	Centroid struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geo_centroid"`
	Features []visicomFeature `json:"features"`
}

// NewVisicomProvider creates a new Visicom search provider.
func NewVisicomProvider(apiKey string, rateLimit int, log *slog.Logger) *VisicomProvider {
	const timeout = 10

	limiter := rate.NewLimiter(rate.Inf, 0)
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}

	return NewVisicomProviderWithClient(&http.Client{Timeout: timeout * time.Second}, apiKey, limiter, log)
}

// NewVisicomProviderWithClient allows injecting custom HTTP client.
func NewVisicomProviderWithClient(
	client HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *VisicomProvider {
	return &VisicomProvider{
		client:   client,
		baseURL:  VisicomBaseURL,
		apiKey:   apiKey,
		limit:    nominatimLimit,
		language: "en",
		log:      log,
		limiter:  limiter,
	}
}

// Search finds places matching query using the Visicom API.
func (vp *VisicomProvider) Search(ctx context.Context, query string) ([]models.Place, error) {
	const coordsListLength = 2

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if err := vp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	vp.log.DebugContext(ctx, "Searching using Visicom", "query", query)

	reqURL, err := url.Parse(vp.baseURL + "/" + vp.language + "/geocode.json")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("text", query)
	params.Set("limit", strconv.Itoa(vp.limit))
	params.Set("key", vp.apiKey)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := vp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrVisicomUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		vp.log.ErrorContext(ctx, "Visicom API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("visicom API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result visicomFeature
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode visicom response: %w", err)
	}

	features := result.Features
	if result.Type == "Feature" {
		features = []visicomFeature{result}
	}
	places := make([]models.Place, 0, len(features))
	for _, feature := range features {
		coords := feature.Centroid.Coordinates
		if len(coords) != coordsListLength {
			return nil, ErrVisicomInvalidCoords
		}

		place := models.Place{
			Name:        feature.Properties.Name,
			Coordinates: models.Coordinates{Latitude: coords[1], Longitude: coords[0]},
		}
		place.ID = place.Coordinates.PlannerID()
		places = append(places, place)
	}

	vp.log.InfoContext(ctx, "Visicom found results", "query", query, "count", len(places))

	return places, nil
}
