// Package page holds the map page state: the current isochrone layer, the zoom level
// and the selected itinerary, mutated only by the controller's event loop.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/horizon/internal/colorize"
	"github.com/UnknownOlympus/horizon/internal/geo"
	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/paulmach/orb"
)

// NoItineraryMessage is shown instead of an itinerary when the planner found none.
const NoItineraryMessage = "no itinerary found"

// ErrUnknownItinerary is returned when selecting an itinerary index that was not received.
var ErrUnknownItinerary = errors.New("unknown itinerary")

// Options configure how the controller renders.
type Options struct {
	MaxDuration int                 // MaxDuration in seconds, the slow end of the gradient.
	Gradient    colorize.Gradient   // Gradient from fast to slow.
	Policy      colorize.Policy     // Policy for durations outside [0, MaxDuration].
	Zoom        int                 // Zoom is the initial zoom level.
	Link        func(string) string // Link rewrites detail links, may be nil.
	OnRender    func(features int)  // OnRender is called after each isochrone render, may be nil.
	Logger      *slog.Logger        // Logger for the controller.
}

// Event is something the page reacts to.
type Event interface {
	apply(c *Controller) error
}

// DataArrived carries a new isochrone result. MaxDuration overrides the configured bound when positive.
type DataArrived struct {
	Journeys    []models.Journey
	MaxDuration int
}

// ZoomChanged carries the new map zoom level.
type ZoomChanged struct {
	Zoom int
}

// ItinerariesArrived carries the result of a journey search between two places.
type ItinerariesArrived struct {
	Journeys []models.Journey
}

// ItinerarySelected picks one of the received itineraries by index.
type ItinerarySelected struct {
	Index int
}

type request struct {
	event Event
	done  chan error
}

// Controller owns the page state. Its fields are only touched from Run.
type Controller struct {
	surface Surface
	opts    Options
	log     *slog.Logger
	events  chan request

	journeys    []models.Journey
	maxDuration int
	received    bool
	zoom        int
	layer       *Layer
	generation  int
	itineraries []models.Journey
	selected    int
}

// NewController creates a controller drawing on surface. Nothing is drawn before Run.
func NewController(surface Surface, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Gradient == (colorize.Gradient{}) {
		opts.Gradient = colorize.DefaultGradient
	}
	if opts.Policy == "" {
		opts.Policy = colorize.PolicyExtrapolate
	}

	return &Controller{
		surface:  surface,
		opts:     opts,
		log:      opts.Logger,
		events:   make(chan request),
		zoom:     opts.Zoom,
		selected: -1,
	}
}

// Run applies events one at a time until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.log.InfoContext(ctx, "Page controller started", "zoom", c.zoom)

	for {
		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "Page controller stopped.")
			return
		case req := <-c.events:
			req.done <- req.event.apply(c)
		}
	}
}

// Dispatch hands ev to the event loop and waits until it has been applied.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	req := request{event: ev, done: make(chan error, 1)}

	select {
	case c.events <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e DataArrived) apply(c *Controller) error {
	c.journeys = e.Journeys
	c.maxDuration = c.opts.MaxDuration
	if e.MaxDuration > 0 {
		c.maxDuration = e.MaxDuration
	}
	c.received = true
	c.render()

	return nil
}

func (e ZoomChanged) apply(c *Controller) error {
	if e.Zoom == c.zoom {
		return nil
	}
	c.zoom = e.Zoom
	// the point radius depends on zoom, nothing to redraw before the first result
	if c.received {
		c.render()
	}

	return nil
}

func (e ItinerariesArrived) apply(c *Controller) error {
	c.itineraries = e.Journeys
	c.selected = -1
	c.surface.ClearOverlays()

	if len(e.Journeys) == 0 {
		c.surface.ShowMessage(NoItineraryMessage)
		return nil
	}
	c.surface.ShowMessage("")
	c.draw(0)

	return nil
}

func (e ItinerarySelected) apply(c *Controller) error {
	if e.Index < 0 || e.Index >= len(c.itineraries) {
		return fmt.Errorf("%w: %d of %d", ErrUnknownItinerary, e.Index, len(c.itineraries))
	}
	if e.Index == c.selected {
		return nil
	}
	c.surface.ClearOverlays()
	c.draw(e.Index)

	return nil
}

// render replaces the current isochrone layer with one built from the last received data.
func (c *Controller) render() {
	if c.layer != nil {
		c.surface.RemoveLayer(c.layer.ID)
		c.layer = nil
	}

	points := geo.BuildIsochrone(c.journeys, c.maxDuration, c.opts.Gradient, c.opts.Policy)
	c.generation++
	layer := Layer{
		ID:       fmt.Sprintf("isochrone-%d", c.generation),
		Zoom:     c.zoom,
		Bound:    geo.Bounds(points),
		Features: geo.IsochroneCollection(points, geo.IsochroneOptions{Zoom: c.zoom, Link: c.opts.Link}),
	}
	c.surface.AddLayer(layer)
	c.layer = &layer

	c.log.Debug("Isochrone layer rendered", "layer", layer.ID, "features", len(layer.Features.Features), "zoom", c.zoom)
	if c.opts.OnRender != nil {
		c.opts.OnRender(len(layer.Features.Features))
	}
}

func (c *Controller) draw(idx int) {
	c.selected = idx
	for _, feature := range geo.ItineraryCollection(c.itineraries[idx]).Features {
		if _, ok := feature.Geometry.(orb.LineString); ok {
			c.surface.AddPolyline(feature)
		} else {
			c.surface.AddMarker(feature)
		}
	}
}
