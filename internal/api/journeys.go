package api

import (
	"strconv"

	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/gofiber/fiber/v2"
)

// journeysRouter registers the itinerary routes.
func journeysRouter(router fiber.Router, h *handlers) {
	router.Get("/", h.journeys)
	router.Post("/:idx/select", h.selectJourney)
}

func (h *handlers) journeys(c *fiber.Ctx) error {
	req := planner.JourneyRequest{
		From:      c.Query("from"),
		To:        c.Query("to"),
		Clockwise: c.QueryBool("clockwise", true),
	}
	if req.To == "" {
		return badRequest(c, "Parameter to is required")
	}

	var err error
	if req.DateTime, err = queryDateTime(c); err != nil {
		return badRequest(c, "Parameter datetime should be an RFC3339 or YYYYMMDDTHHMMSS datetime")
	}

	journeys, err := h.service.Itineraries(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"journeys": journeys,
		"message":  h.surface.Snapshot().Message,
	})
}

func (h *handlers) selectJourney(c *fiber.Ctx) error {
	idx, err := strconv.Atoi(c.Params("idx"))
	if err != nil {
		return badRequest(c, "Parameter idx should be an integer")
	}

	if err = h.service.SelectItinerary(c.UserContext(), idx); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(h.surface.Snapshot().Overlays)
}

func (h *handlers) places(c *fiber.Ctx) error {
	places, err := h.service.SearchPlaces(c.UserContext(), c.Query("q"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"places": places})
}
