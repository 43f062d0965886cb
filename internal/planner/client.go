// Package planner is the client of the remote journey-planning API.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/horizon/internal/itinerary"
	"github.com/UnknownOlympus/horizon/internal/models"
	"golang.org/x/time/rate"
)

// DateTimeLayout is the planner's compact date-time format.
const DateTimeLayout = "20060102T150405"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for the planner client.
var (
	ErrEmptyToken   = errors.New("planner token is required")
	ErrEmptyBaseURL = errors.New("planner base URL is required")
	ErrEmptyOrigin  = errors.New("journey origin is required")
	ErrUnauthorized = errors.New("planner API unauthorized (invalid token)")
)

// APIError is a non-2xx answer from the planner. It is never retried.
type APIError struct {
	StatusCode int    // StatusCode is the HTTP status.
	Body       string // Body is the raw error text sent back.
}

func (e *APIError) Error() string {
	return fmt.Sprintf("planner API returned status %d: %s", e.StatusCode, e.Body)
}

// Config holds what is needed to talk to the planner.
type Config struct {
	BaseURL   string           // BaseURL, e.g. https://api.navitia.io/v1
	Region    string           // Region (coverage) to query, may be empty for single-region deployments.
	Token     string           // Token sent as basic auth user.
	Schema    itinerary.Schema // Schema forces a response schema; empty means detect per response.
	RateLimit int              // RateLimit in requests per second, 0 means unlimited.
	Timeout   time.Duration    // Timeout of a single HTTP request.
	Logger    *slog.Logger     // Logger for the client.
}

// Client calls the journeys and places endpoints.
type Client struct {
	client  HTTPClient
	baseURL string
	region  string
	token   string
	schema  itinerary.Schema
	limiter *rate.Limiter
	log     *slog.Logger
}

// IsochroneRequest asks for every place reachable from From.
type IsochroneRequest struct {
	From        string    // From is a place id or "lon;lat".
	DateTime    time.Time // DateTime of departure (or arrival when Clockwise is false), zero means now.
	MaxDuration int       // MaxDuration in seconds.
	MinDuration int       // MinDuration in seconds, 0 to omit.
	Clockwise   bool      // Clockwise: DateTime is a departure time.
}

// JourneyRequest asks for itineraries between two places.
type JourneyRequest struct {
	From      string
	To        string
	DateTime  time.Time
	Clockwise bool
}

// NewClient creates a planner client with a default HTTP client.
func NewClient(cfg Config) (*Client, error) {
	const defaultTimeout = 10 * time.Second

	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if cfg.Token == "" {
		return nil, ErrEmptyToken
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return NewClientWithHTTP(&http.Client{Timeout: cfg.Timeout}, cfg, limiter), nil
}

// NewClientWithHTTP allows injecting a custom HTTP client and limiter.
func NewClientWithHTTP(client HTTPClient, cfg Config, limiter *rate.Limiter) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		region:  cfg.Region,
		token:   cfg.Token,
		schema:  cfg.Schema,
		limiter: limiter,
		log:     logger,
	}
}

// Isochrone fetches the journeys to every reachable place within MaxDuration.
func (c *Client) Isochrone(ctx context.Context, req IsochroneRequest) ([]models.Journey, error) {
	if req.From == "" {
		return nil, ErrEmptyOrigin
	}

	query := url.Values{}
	query.Set("from", req.From)
	query.Set("datetime", formatDateTime(req.DateTime))
	query.Set("clockwise", strconv.FormatBool(req.Clockwise))
	if req.MaxDuration > 0 {
		query.Set("max_duration", strconv.Itoa(req.MaxDuration))
	}
	if req.MinDuration > 0 {
		query.Set("min_duration", strconv.Itoa(req.MinDuration))
	}

	return c.fetchJourneys(ctx, query)
}

// Journeys fetches itineraries between two places.
func (c *Client) Journeys(ctx context.Context, req JourneyRequest) ([]models.Journey, error) {
	if req.From == "" {
		return nil, ErrEmptyOrigin
	}

	query := url.Values{}
	query.Set("from", req.From)
	query.Set(c.destinationParam(), req.To)
	query.Set("datetime", formatDateTime(req.DateTime))
	query.Set("clockwise", strconv.FormatBool(req.Clockwise))

	return c.fetchJourneys(ctx, query)
}

// Places searches places by name for the search box.
func (c *Client) Places(ctx context.Context, text string) ([]models.Place, error) {
	query := url.Values{}
	endpoint := "places"
	if c.legacy() {
		endpoint = "firstletter"
		query.Set("format", "json")
		query.Set("name", text)
	} else {
		query.Set("q", text)
	}

	body, status, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	return itinerary.ParsePlaces(body)
}

// AuthenticatedLink returns link with the client's token in its authority.
func (c *Client) AuthenticatedLink(link string) string {
	return AuthenticatedLink(link, c.token)
}

// AuthenticatedLink inserts token as the user of link's authority so the link can be opened directly:
// https://api.example/v1/x becomes https://TOKEN@api.example/v1/x. Unparsable links are returned unchanged.
func AuthenticatedLink(link, token string) string {
	if token == "" {
		return link
	}

	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return link
	}
	parsed.User = url.User(token)

	return parsed.String()
}

func (c *Client) fetchJourneys(ctx context.Context, query url.Values) ([]models.Journey, error) {
	endpoint := "journeys"
	if c.legacy() {
		endpoint = "planner"
		query.Set("format", "json")
	}

	body, status, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
	case status == http.StatusNotFound:
		// the planner answers "no solution" with a 404 and a regular error document
		if journeys, parseErr := c.decode(body); parseErr == nil {
			return journeys, nil
		}
		return nil, &APIError{StatusCode: status, Body: string(body)}
	default:
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	return c.decode(body)
}

func (c *Client) decode(body []byte) ([]models.Journey, error) {
	var (
		resp itinerary.Response
		err  error
	)
	if c.schema == "" {
		resp, err = itinerary.Parse(body)
	} else {
		resp, err = itinerary.Decode(c.schema, body)
	}
	if err != nil {
		return nil, err
	}

	c.log.Debug("Planner response decoded", "schema", resp.Schema())

	return resp.Journeys()
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit exceeded: %w", err)
	}

	reqURL := c.endpointURL(endpoint)
	reqURL.RawQuery = query.Encode()

	c.log.DebugContext(ctx, "Planner request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.token, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute planner request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, resp.StatusCode, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		c.log.ErrorContext(ctx, "Planner API error", "status", resp.StatusCode, "body", string(body))
	}

	return body, resp.StatusCode, nil
}

func (c *Client) endpointURL(endpoint string) *url.URL {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		parsed = &url.URL{Path: c.baseURL}
	}

	segments := []string{parsed.Path}
	if c.region != "" {
		segments = append(segments, "coverage", c.region)
	}
	parsed.Path = strings.Join(append(segments, endpoint), "/")

	return parsed
}

func (c *Client) legacy() bool {
	switch c.schema {
	case itinerary.SchemaLegacyV1, itinerary.SchemaLegacyV2, itinerary.SchemaLegacyV3:
		return true
	default:
		return false
	}
}

func (c *Client) destinationParam() string {
	if c.legacy() {
		return "destination"
	}

	return "to"
}

func formatDateTime(value time.Time) string {
	if value.IsZero() {
		value = time.Now()
	}

	return value.Format(DateTimeLayout)
}
