package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/horizon/internal/metrics"
	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/UnknownOlympus/horizon/internal/page"
	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/UnknownOlympus/horizon/internal/repository"
	"github.com/UnknownOlympus/horizon/internal/search"
)

// Planner is the part of the planner client used by the service.
type Planner interface {
	Isochrone(ctx context.Context, req planner.IsochroneRequest) ([]models.Journey, error)
	Journeys(ctx context.Context, req planner.JourneyRequest) ([]models.Journey, error)
}

// Dispatcher hands events to the page controller.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev page.Event) error
}

// PlannerService provides the page operations: fetching isochrones and itineraries from the planner,
// storing snapshots, recording metrics and forwarding results to the page controller.
type PlannerService struct {
	log          *slog.Logger         // Logger for logging service activities
	planner      Planner              // Planner API client
	provider     search.Provider      // Place search provider
	providerName string               // Name of the search provider for metrics labeling
	repo         repository.Interface // Snapshot storage
	page         Dispatcher           // Page controller receiving results
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	origin       planner.IsochroneRequest
	refresh      time.Duration // Interval between isochrone refreshes, 0 disables them
}

// Options configure a PlannerService.
type Options struct {
	ProviderName string                   // Name of the search provider for metrics labeling.
	Origin       planner.IsochroneRequest // Origin is the isochrone drawn on start, skipped when From is empty.
	Refresh      time.Duration            // Refresh interval of the origin isochrone, 0 disables it.
}

// NewPlannerService creates a new instance of PlannerService.
func NewPlannerService(
	log *slog.Logger,
	client Planner,
	provider search.Provider,
	repo repository.Interface,
	dispatcher Dispatcher,
	metrics *metrics.Metrics,
	opts Options,
) *PlannerService {
	return &PlannerService{
		log:          log,
		planner:      client,
		provider:     provider,
		providerName: opts.ProviderName,
		repo:         repo,
		page:         dispatcher,
		metrics:      metrics,
		origin:       opts.Origin,
		refresh:      opts.Refresh,
	}
}

// Run draws the configured origin isochrone, restoring the last snapshot first so the page is never
// blank while the planner answers, then refreshes it on every tick until ctx is cancelled.
func (ps *PlannerService) Run(ctx context.Context) {
	if ps.origin.From == "" {
		ps.log.InfoContext(ctx, "No origin configured, waiting for requests.")
		return
	}

	ps.restore(ctx)
	ps.refreshOrigin(ctx)

	if ps.refresh <= 0 {
		return
	}

	ticker := time.NewTicker(ps.refresh)
	defer ticker.Stop()

	ps.log.InfoContext(ctx, "Isochrone refresh started...", "origin", ps.origin.From, "interval", ps.refresh)

	for {
		select {
		case <-ctx.Done():
			ps.log.InfoContext(ctx, "Isochrone refresh stopped.")
			return
		case <-ticker.C:
			ps.refreshOrigin(ctx)
		}
	}
}

func (ps *PlannerService) restore(ctx context.Context) {
	journeys, err := ps.repo.LatestIsochrone(ctx, ps.origin.From)
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			ps.metrics.SnapshotErrors.Inc()
			ps.log.ErrorContext(ctx, "Failed to restore isochrone snapshot", "origin", ps.origin.From, "error", err)
		}
		return
	}

	if err = ps.page.Dispatch(ctx, page.DataArrived{Journeys: journeys, MaxDuration: ps.origin.MaxDuration}); err != nil {
		ps.log.ErrorContext(ctx, "Failed to draw restored isochrone", "error", err)
		return
	}

	ps.log.InfoContext(ctx, "Isochrone snapshot restored", "origin", ps.origin.From, "journeys", len(journeys))
}

func (ps *PlannerService) refreshOrigin(ctx context.Context) {
	req := ps.origin
	req.DateTime = time.Now()

	if _, err := ps.Isochrone(ctx, req); err != nil {
		ps.log.ErrorContext(ctx, "Failed to refresh isochrone", "origin", req.From, "error", err)
	}
}

// Isochrone fetches an isochrone, stores it and replaces the page layer with it.
// A failed snapshot write is logged but does not fail the call.
func (ps *PlannerService) Isochrone(ctx context.Context, req planner.IsochroneRequest) ([]models.Journey, error) {
	if req.MaxDuration <= 0 {
		req.MaxDuration = ps.origin.MaxDuration
	}

	journeys, err := ps.observe(ctx, "isochrone", func() ([]models.Journey, error) {
		return ps.planner.Isochrone(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	ps.log.InfoContext(ctx, "Isochrone received", "origin", req.From, "journeys", len(journeys))

	if err = ps.repo.SaveIsochrone(ctx, req.From, req.MaxDuration, journeys); err != nil {
		ps.metrics.SnapshotErrors.Inc()
		ps.log.ErrorContext(ctx, "Failed to store isochrone snapshot", "origin", req.From, "error", err)
	}

	if err = ps.page.Dispatch(ctx, page.DataArrived{Journeys: journeys, MaxDuration: req.MaxDuration}); err != nil {
		return nil, err
	}

	return journeys, nil
}

// Itineraries fetches journeys between two places and draws the first one.
// An empty result is not an error: the page shows that no itinerary was found.
func (ps *PlannerService) Itineraries(ctx context.Context, req planner.JourneyRequest) ([]models.Journey, error) {
	journeys, err := ps.observe(ctx, "journeys", func() ([]models.Journey, error) {
		return ps.planner.Journeys(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	ps.log.InfoContext(ctx, "Itineraries received", "from", req.From, "to", req.To, "journeys", len(journeys))

	if err = ps.page.Dispatch(ctx, page.ItinerariesArrived{Journeys: journeys}); err != nil {
		return nil, err
	}

	return journeys, nil
}

// SelectItinerary draws the itinerary at idx instead of the current one.
func (ps *PlannerService) SelectItinerary(ctx context.Context, idx int) error {
	return ps.page.Dispatch(ctx, page.ItinerarySelected{Index: idx})
}

// Zoom redraws the isochrone layer for a new zoom level.
func (ps *PlannerService) Zoom(ctx context.Context, zoom int) error {
	return ps.page.Dispatch(ctx, page.ZoomChanged{Zoom: zoom})
}

// SearchPlaces runs a place search with the configured provider.
func (ps *PlannerService) SearchPlaces(ctx context.Context, query string) ([]models.Place, error) {
	startTime := time.Now()
	places, err := ps.provider.Search(ctx, query)
	ps.metrics.SearchSeconds.WithLabelValues(ps.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		ps.log.ErrorContext(ctx, "Failed to search places", "query", query, "error", err)
		return nil, err
	}

	return places, nil
}

// observe times one planner call and counts its outcome.
func (ps *PlannerService) observe(
	ctx context.Context,
	kind string,
	call func() ([]models.Journey, error),
) ([]models.Journey, error) {
	startTime := time.Now()
	journeys, err := call()
	ps.metrics.PlannerSeconds.WithLabelValues(kind).Observe(time.Since(startTime).Seconds())

	if err != nil {
		ps.metrics.PlannerRequests.WithLabelValues(kind, "failure").Inc()

		var apiErr *planner.APIError
		if errors.As(err, &apiErr) {
			ps.metrics.APIErrors.WithLabelValues(strconv.Itoa(apiErr.StatusCode)).Inc()
		}
		ps.log.ErrorContext(ctx, "Planner request failed", "kind", kind, "error", err)

		return nil, err
	}

	ps.metrics.PlannerRequests.WithLabelValues(kind, "success").Inc()

	return journeys, nil
}
