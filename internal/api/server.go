// Package api exposes the map page over HTTP: the GeoJSON layers for a web map
// and the operations that change them.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/UnknownOlympus/horizon/internal/page"
	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is what the handlers call to change the page.
type Service interface {
	Isochrone(ctx context.Context, req planner.IsochroneRequest) ([]models.Journey, error)
	Itineraries(ctx context.Context, req planner.JourneyRequest) ([]models.Journey, error)
	SelectItinerary(ctx context.Context, idx int) error
	Zoom(ctx context.Context, zoom int) error
	SearchPlaces(ctx context.Context, query string) ([]models.Place, error)
}

// SurfaceReader gives read access to what is drawn.
type SurfaceReader interface {
	Snapshot() page.Snapshot
}

// Pinger checks a dependency for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP app. Database may be nil when snapshots are disabled.
type Deps struct {
	Service  Service
	Surface  SurfaceReader
	Database Pinger
	Registry *prometheus.Registry
	Logger   *slog.Logger
	// Context is the parent of every request context, so cancelling it aborts in-flight requests.
	Context context.Context
	// RequestTimeout bounds one request, 30s when zero.
	RequestTimeout time.Duration
}

type handlers struct {
	service Service
	surface SurfaceReader
	db      Pinger
	log     *slog.Logger
}

// NewApp builds the fiber app with every route registered.
func NewApp(deps Deps) *fiber.App {
	const defaultRequestTimeout = 30 * time.Second

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = defaultRequestTimeout
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(requestContext(deps.Context, deps.RequestTimeout))
	app.Use(NewLogger(deps.Logger))

	h := &handlers{service: deps.Service, surface: deps.Surface, db: deps.Database, log: deps.Logger}

	app.Get("/healthz", h.health)
	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	group := app.Group("/api")
	layerRouter(group, h)
	journeysRouter(group.Group("/journeys"), h)
	group.Get("/places", h.places)

	return app
}

// Serve listens on port until ctx is cancelled, then shuts the app down.
func Serve(ctx context.Context, app *fiber.App, log *slog.Logger, port int) error {
	const shutdownTimeout = 10 * time.Second

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	log.InfoContext(ctx, "Starting HTTP server", "port", port)
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}

	return nil
}

// requestContext derives each request context from parent with a deadline.
func requestContext(parent context.Context, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		c.SetUserContext(ctx)

		return c.Next()
	}
}

func (h *handlers) health(c *fiber.Ctx) error {
	h.log.DebugContext(c.UserContext(), "Performing health checks...")

	if h.db != nil {
		if err := h.db.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("DB ping failed")
		}
	}

	return c.SendString("OK")
}
