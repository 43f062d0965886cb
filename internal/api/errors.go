package api

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/horizon/internal/itinerary"
	"github.com/UnknownOlympus/horizon/internal/page"
	"github.com/UnknownOlympus/horizon/internal/planner"
	"github.com/UnknownOlympus/horizon/internal/search"
	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// fail answers with the status matching err. Planner failures keep the upstream status and text.
func (h *handlers) fail(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}
	status := fiber.StatusInternalServerError

	var apiErr *planner.APIError
	switch {
	case errors.As(err, &apiErr):
		status = fiber.StatusBadGateway
		body["upstream_status"] = apiErr.StatusCode
		body["upstream_error"] = apiErr.Body
	case errors.Is(err, planner.ErrEmptyOrigin), errors.Is(err, search.ErrEmptyQuery):
		status = fiber.StatusBadRequest
	case errors.Is(err, page.ErrUnknownItinerary):
		status = fiber.StatusNotFound
	case errors.Is(err, planner.ErrUnauthorized),
		errors.Is(err, itinerary.ErrMalformed),
		errors.Is(err, itinerary.ErrUnknownSchema),
		errors.Is(err, itinerary.ErrPlanner):
		status = fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = fiber.StatusServiceUnavailable
	}

	h.log.ErrorContext(c.UserContext(), "Request failed", "path", c.Path(), "status", status, "error", err)

	return c.Status(status).JSON(body)
}
