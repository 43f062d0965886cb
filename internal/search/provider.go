// Package search finds places by free text for the journey search box.
package search

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// ErrEmptyQuery is returned when the search text is blank.
var ErrEmptyQuery = errors.New("search query is empty")

// Provider is an interface that defines a method for searching places.
// The Search method takes a context and a free text query as input,
// and returns the matching places, best match first. No match is an empty slice, not an error.
type Provider interface {
	Search(ctx context.Context, query string) ([]models.Place, error)
}
