package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/horizon/internal/api"
	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/UnknownOlympus/horizon/internal/page"
	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/UnknownOlympus/horizon/internal/search"
	"github.com/UnknownOlympus/horizon/test/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

func newApp(t *testing.T, db api.Pinger) (*fiber.App, *mocks.Service, *page.MemorySurface) {
	t.Helper()

	svc := mocks.NewService(t)
	surface := page.NewMemorySurface()
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "horizon_test_total", Help: "test"}))

	app := api.NewApp(api.Deps{
		Service:  svc,
		Surface:  surface,
		Database: db,
		Registry: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return app, svc, surface
}

func do(t *testing.T, app *fiber.App, method, target string) (int, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func errorBody(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	return decoded
}

func drawPoint(surface *page.MemorySurface) {
	feature := geojson.NewFeature(orb.Point{2.35, 48.85})
	feature.Properties["color"] = "#00FF00"

	collection := geojson.NewFeatureCollection()
	collection.Append(feature)
	surface.AddLayer(page.Layer{
		ID:       "isochrone-1",
		Zoom:     13,
		Bound:    orb.Bound{Min: orb.Point{2.3, 48.8}, Max: orb.Point{2.4, 48.9}},
		Features: collection,
	})
}

func TestHealth(t *testing.T) {
	t.Run("without database", func(t *testing.T) {
		app, _, _ := newApp(t, nil)

		status, body := do(t, app, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "OK", string(body))
	})

	t.Run("database down", func(t *testing.T) {
		app, _, _ := newApp(t, fakePinger{err: assert.AnError})

		status, body := do(t, app, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "DB ping failed", string(body))
	})
}

func TestMetrics(t *testing.T) {
	app, _, _ := newApp(t, nil)

	status, body := do(t, app, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "horizon_test_total")
}

func TestLayer(t *testing.T) {
	app, _, surface := newApp(t, nil)

	status, body := do(t, app, http.MethodGet, "/api/layer")
	require.Equal(t, http.StatusOK, status)
	empty, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	assert.Empty(t, empty.Features)

	drawPoint(surface)

	status, body = do(t, app, http.MethodGet, "/api/layer")
	require.Equal(t, http.StatusOK, status)
	collection, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	require.Len(t, collection.Features, 1)
	assert.Equal(t, orb.Point{2.35, 48.85}, collection.Features[0].Geometry)
	assert.Equal(t, "#00FF00", collection.Features[0].Properties["color"])
}

func TestState(t *testing.T) {
	app, _, surface := newApp(t, nil)
	drawPoint(surface)
	surface.ShowMessage(page.NoItineraryMessage)

	status, body := do(t, app, http.MethodGet, "/api/state")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{
		"message": "no itinerary found",
		"layers": 1,
		"zoom": 13,
		"features": 1,
		"bound": [[2.3, 48.8], [2.4, 48.9]]
	}`, string(body))
}

func TestZoom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		svc.On("Zoom", mock.Anything, 14).Return(nil).Once()

		status, _ := do(t, app, http.MethodPost, "/api/zoom/14")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("invalid level", func(t *testing.T) {
		app, _, _ := newApp(t, nil)

		status, body := do(t, app, http.MethodPost, "/api/zoom/far")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Parameter level should be an integer", errorBody(t, body)["error"])
	})
}

func TestRequestContext(t *testing.T) {
	newBoundApp := func(t *testing.T, parent context.Context, timeout time.Duration) (*fiber.App, *mocks.Service) {
		t.Helper()

		svc := mocks.NewService(t)
		app := api.NewApp(api.Deps{
			Service:        svc,
			Surface:        page.NewMemorySurface(),
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			Context:        parent,
			RequestTimeout: timeout,
		})

		return app, svc
	}

	waitForCancel := func(ctx context.Context, _ int) error {
		<-ctx.Done()
		return ctx.Err()
	}

	t.Run("server shutdown cancels requests", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		cancel()

		app, svc := newBoundApp(t, parent, time.Minute)
		svc.On("Zoom", mock.Anything, 14).Return(waitForCancel).Once()

		status, body := do(t, app, http.MethodPost, "/api/zoom/14")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, context.Canceled.Error(), errorBody(t, body)["error"])
	})

	t.Run("request deadline", func(t *testing.T) {
		app, svc := newBoundApp(t, context.Background(), 20*time.Millisecond)
		svc.On("Zoom", mock.Anything, 14).Return(waitForCancel).Once()

		status, body := do(t, app, http.MethodPost, "/api/zoom/14")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, context.DeadlineExceeded.Error(), errorBody(t, body)["error"])
	})
}

func TestIsochrone(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		app, svc, surface := newApp(t, nil)
		expectedTime := time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)

		svc.On("Isochrone", mock.Anything, mock.MatchedBy(func(req planner.IsochroneRequest) bool {
			return req.From == "2.35;48.85" &&
				req.MaxDuration == 1800 &&
				req.MinDuration == 60 &&
				req.DateTime.Equal(expectedTime) &&
				!req.Clockwise
		})).Run(func(mock.Arguments) {
			drawPoint(surface)
		}).Return([]models.Journey{{DurationSeconds: 600}}, nil).Once()

		status, body := do(t, app, http.MethodPost,
			"/api/isochrone?from=2.35;48.85&max_duration=1800&min_duration=60&datetime=2026-03-02T08:30:00Z&clockwise=false")
		require.Equal(t, http.StatusOK, status)

		collection, err := geojson.UnmarshalFeatureCollection(body)
		require.NoError(t, err)
		assert.Len(t, collection.Features, 1)
	})

	t.Run("compact datetime", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		expectedTime := time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)

		svc.On("Isochrone", mock.Anything, mock.MatchedBy(func(req planner.IsochroneRequest) bool {
			return req.DateTime.Equal(expectedTime) && req.Clockwise
		})).Return(nil, nil).Once()

		status, _ := do(t, app, http.MethodPost, "/api/isochrone?from=stop_area:1&datetime=20260302T083000")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		app, _, _ := newApp(t, nil)

		for target, message := range map[string]string{
			"/api/isochrone?from=a&max_duration=long": "Parameter max_duration should be an integer",
			"/api/isochrone?from=a&min_duration=1.5":  "Parameter min_duration should be an integer",
			"/api/isochrone?from=a&datetime=tomorrow": "Parameter datetime should be an RFC3339 or YYYYMMDDTHHMMSS datetime",
		} {
			status, body := do(t, app, http.MethodPost, target)
			assert.Equal(t, http.StatusBadRequest, status, target)
			assert.Equal(t, message, errorBody(t, body)["error"], target)
		}
	})

	t.Run("missing origin", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		svc.On("Isochrone", mock.Anything, mock.Anything).Return(nil, planner.ErrEmptyOrigin).Once()

		status, body := do(t, app, http.MethodPost, "/api/isochrone")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, planner.ErrEmptyOrigin.Error(), errorBody(t, body)["error"])
	})

	t.Run("planner failure surfaces upstream status", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		apiErr := &planner.APIError{StatusCode: http.StatusInternalServerError, Body: "internal failure"}
		svc.On("Isochrone", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

		status, body := do(t, app, http.MethodPost, "/api/isochrone?from=a")
		assert.Equal(t, http.StatusBadGateway, status)

		decoded := errorBody(t, body)
		assert.Equal(t, "planner API returned status 500: internal failure", decoded["error"])
		assert.InDelta(t, 500, decoded["upstream_status"], 0)
		assert.Equal(t, "internal failure", decoded["upstream_error"])
	})

	t.Run("unauthorized", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		svc.On("Isochrone", mock.Anything, mock.Anything).Return(nil, planner.ErrUnauthorized).Once()

		status, _ := do(t, app, http.MethodPost, "/api/isochrone?from=a")
		assert.Equal(t, http.StatusBadGateway, status)
	})

	t.Run("unexpected error", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		svc.On("Isochrone", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

		status, body := do(t, app, http.MethodPost, "/api/isochrone?from=a")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, assert.AnError.Error(), errorBody(t, body)["error"])
	})
}

func TestJourneys(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		journey := models.Journey{
			Destination:     models.Place{Name: "Gare de Lyon"},
			DurationSeconds: 900,
		}
		svc.On("Itineraries", mock.Anything, mock.MatchedBy(func(req planner.JourneyRequest) bool {
			return req.From == "a" && req.To == "b" && req.Clockwise
		})).Return([]models.Journey{journey}, nil).Once()

		status, body := do(t, app, http.MethodGet, "/api/journeys?from=a&to=b")
		require.Equal(t, http.StatusOK, status)

		var decoded struct {
			Journeys []models.Journey `json:"journeys"`
			Message  string           `json:"message"`
		}
		require.NoError(t, json.Unmarshal(body, &decoded))
		require.Len(t, decoded.Journeys, 1)
		assert.Equal(t, "Gare de Lyon", decoded.Journeys[0].Destination.Name)
		assert.Empty(t, decoded.Message)
	})

	t.Run("no itinerary", func(t *testing.T) {
		app, svc, surface := newApp(t, nil)
		svc.On("Itineraries", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			surface.ShowMessage(page.NoItineraryMessage)
		}).Return([]models.Journey{}, nil).Once()

		status, body := do(t, app, http.MethodGet, "/api/journeys?from=a&to=b")
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"journeys": [], "message": "no itinerary found"}`, string(body))
	})

	t.Run("missing destination", func(t *testing.T) {
		app, _, _ := newApp(t, nil)

		status, body := do(t, app, http.MethodGet, "/api/journeys?from=a")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Parameter to is required", errorBody(t, body)["error"])
	})
}

func TestSelectJourney(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, svc, surface := newApp(t, nil)
		svc.On("SelectItinerary", mock.Anything, 1).Run(func(mock.Arguments) {
			surface.AddPolyline(geojson.NewFeature(orb.LineString{{2.35, 48.85}, {2.37, 48.84}}))
		}).Return(nil).Once()

		status, body := do(t, app, http.MethodPost, "/api/journeys/1/select")
		require.Equal(t, http.StatusOK, status)

		collection, err := geojson.UnmarshalFeatureCollection(body)
		require.NoError(t, err)
		assert.Len(t, collection.Features, 1)
	})

	t.Run("unknown index", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		svc.On("SelectItinerary", mock.Anything, 7).Return(page.ErrUnknownItinerary).Once()

		status, _ := do(t, app, http.MethodPost, "/api/journeys/7/select")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("invalid index", func(t *testing.T) {
		app, _, _ := newApp(t, nil)

		status, _ := do(t, app, http.MethodPost, "/api/journeys/first/select")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestPlaces(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		places := []models.Place{{
			ID:          "stop_area:OIF:SA:8768600",
			Name:        "Gare de Lyon (Paris)",
			Coordinates: models.Coordinates{Latitude: 48.844, Longitude: 2.373},
		}}
		svc.On("SearchPlaces", mock.Anything, "gare").Return(places, nil).Once()

		status, body := do(t, app, http.MethodGet, "/api/places?q=gare")
		require.Equal(t, http.StatusOK, status)

		var decoded struct {
			Places []models.Place `json:"places"`
		}
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, places, decoded.Places)
	})

	t.Run("empty query", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		svc.On("SearchPlaces", mock.Anything, "").Return(nil, search.ErrEmptyQuery).Once()

		status, _ := do(t, app, http.MethodGet, "/api/places")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("nothing found", func(t *testing.T) {
		app, svc, _ := newApp(t, nil)
		svc.On("SearchPlaces", mock.Anything, "nowhere").Return([]models.Place{}, nil).Once()

		status, body := do(t, app, http.MethodGet, "/api/places?q=nowhere")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"places": []}`, string(body))
	})
}
