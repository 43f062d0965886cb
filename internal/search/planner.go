package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// PlaceSearcher is the part of the planner client used for place search.
type PlaceSearcher interface {
	Places(ctx context.Context, text string) ([]models.Place, error)
}

// PlannerProvider searches the planner's own place index, so results carry ids
// the journeys endpoint accepts as from/to.
type PlannerProvider struct {
	client PlaceSearcher
	log    *slog.Logger
}

// NewPlannerProvider wraps a planner client.
func NewPlannerProvider(client PlaceSearcher, log *slog.Logger) *PlannerProvider {
	return &PlannerProvider{client: client, log: log}
}

// Search implements Provider.
func (pp *PlannerProvider) Search(ctx context.Context, query string) ([]models.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	pp.log.DebugContext(ctx, "Searching places using planner", "query", query)

	places, err := pp.client.Places(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search planner places: %w", err)
	}

	return places, nil
}
