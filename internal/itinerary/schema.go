// Package itinerary decodes the planner's journey responses.
//
// The planner has answered with four incompatible shapes over time. Each one gets its own
// Response type and its own normalisation to models.Journey; nothing is shared between them
// beyond the small value helpers in values.go.
package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/horizon/internal/models"
)

// Schema identifies one response shape.
type Schema string

const (
	// SchemaLegacyV1 is planner.planning[].feuilleroute.etapes[].
	SchemaLegacyV1 Schema = "legacy_v1"
	// SchemaLegacyV2 is path[].items[].
	SchemaLegacyV2 Schema = "legacy_v2"
	// SchemaLegacyV3 is journey_list[].section_list[], optionally wrapped in "planner".
	SchemaLegacyV3 Schema = "legacy_v3"
	// SchemaCurrent is journeys[].sections[].
	SchemaCurrent Schema = "current"
)

// Errors returned while decoding.
var (
	ErrUnknownSchema = errors.New("unknown itinerary response schema")
	ErrMalformed     = errors.New("malformed itinerary response")
	ErrPlanner       = errors.New("planner reported an error")
)

// Response is one decoded planner answer.
type Response interface {
	Schema() Schema
	// Journeys normalises the response. An empty result is not an error.
	Journeys() ([]models.Journey, error)
}

// ParseSchema converts a configuration value to a Schema. Empty means "detect".
func ParseSchema(value string) (Schema, error) {
	switch schema := Schema(value); schema {
	case "", SchemaLegacyV1, SchemaLegacyV2, SchemaLegacyV3, SchemaCurrent:
		return schema, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownSchema, value)
	}
}

// Detect looks at the top-level keys of body to find its schema.
func Detect(body []byte) (Schema, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", fmt.Errorf("failed to decode response envelope: %w", err)
	}

	switch {
	case has(top, "journeys"), has(top, "error"):
		return SchemaCurrent, nil
	case has(top, "journey_list"):
		return SchemaLegacyV3, nil
	case has(top, "path"):
		return SchemaLegacyV2, nil
	case has(top, "feuilleroute"):
		return SchemaLegacyV1, nil
	}

	if raw, ok := top["planner"]; ok {
		var planner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &planner); err != nil {
			return "", fmt.Errorf("failed to decode planner envelope: %w", err)
		}
		switch {
		case has(planner, "journey_list"):
			return SchemaLegacyV3, nil
		case has(planner, "planning"):
			return SchemaLegacyV1, nil
		}
	}

	return "", ErrUnknownSchema
}

// Decode unmarshals body as the given schema.
func Decode(schema Schema, body []byte) (Response, error) {
	var resp Response
	switch schema {
	case SchemaCurrent:
		resp = &CurrentResponse{}
	case SchemaLegacyV3:
		resp = &LegacyV3Response{}
	case SchemaLegacyV2:
		resp = &LegacyV2Response{}
	case SchemaLegacyV1:
		resp = &LegacyV1Response{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, schema)
	}

	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", schema, err)
	}

	return resp, nil
}

// Parse detects the schema of body and decodes it.
func Parse(body []byte) (Response, error) {
	schema, err := Detect(body)
	if err != nil {
		return nil, err
	}

	return Decode(schema, body)
}

func has(top map[string]json.RawMessage, key string) bool {
	_, ok := top[key]
	return ok
}
