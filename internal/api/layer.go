package api

import (
	"strconv"
	"time"

	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/gofiber/fiber/v2"
)

// layerRouter registers the isochrone layer routes.
func layerRouter(router fiber.Router, h *handlers) {
	router.Get("/layer", h.layer)
	router.Get("/itinerary", h.itinerary)
	router.Get("/state", h.state)
	router.Post("/zoom/:level", h.zoom)
	router.Post("/isochrone", h.isochrone)
}

func (h *handlers) layer(c *fiber.Ctx) error {
	return c.JSON(h.surface.Snapshot().LayerFeatures())
}

func (h *handlers) itinerary(c *fiber.Ctx) error {
	return c.JSON(h.surface.Snapshot().Overlays)
}

func (h *handlers) state(c *fiber.Ctx) error {
	snapshot := h.surface.Snapshot()

	state := fiber.Map{
		"message": snapshot.Message,
		"layers":  len(snapshot.Layers),
	}
	if len(snapshot.Layers) > 0 {
		layer := snapshot.Layers[len(snapshot.Layers)-1]
		state["zoom"] = layer.Zoom
		state["features"] = len(layer.Features.Features)
		state["bound"] = [2][2]float64{
			{layer.Bound.Min.Lon(), layer.Bound.Min.Lat()},
			{layer.Bound.Max.Lon(), layer.Bound.Max.Lat()},
		}
	}

	return c.JSON(state)
}

func (h *handlers) zoom(c *fiber.Ctx) error {
	level, err := strconv.Atoi(c.Params("level"))
	if err != nil {
		return badRequest(c, "Parameter level should be an integer")
	}

	if err = h.service.Zoom(c.UserContext(), level); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(h.surface.Snapshot().LayerFeatures())
}

func (h *handlers) isochrone(c *fiber.Ctx) error {
	req := planner.IsochroneRequest{
		From:      c.Query("from"),
		Clockwise: c.QueryBool("clockwise", true),
	}

	var err error
	if req.MaxDuration, err = queryInt(c, "max_duration"); err != nil {
		return badRequest(c, "Parameter max_duration should be an integer")
	}
	if req.MinDuration, err = queryInt(c, "min_duration"); err != nil {
		return badRequest(c, "Parameter min_duration should be an integer")
	}
	if req.DateTime, err = queryDateTime(c); err != nil {
		return badRequest(c, "Parameter datetime should be an RFC3339 or YYYYMMDDTHHMMSS datetime")
	}

	if _, err = h.service.Isochrone(c.UserContext(), req); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(h.surface.Snapshot().LayerFeatures())
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	value := c.Query(key)
	if value == "" {
		return 0, nil
	}

	return strconv.Atoi(value)
}

func queryDateTime(c *fiber.Ctx) (time.Time, error) {
	value := c.Query("datetime")
	if value == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return parsed, nil
	}

	return time.Parse(planner.DateTimeLayout, value)
}
