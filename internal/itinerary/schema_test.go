package itinerary_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/UnknownOlympus/horizon/internal/itinerary"
	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()

	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return body
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []byte
		want itinerary.Schema
	}{
		{"current journeys", fixture(t, "current_journeys.json"), itinerary.SchemaCurrent},
		{"current error", fixture(t, "current_no_solution.json"), itinerary.SchemaCurrent},
		{"legacy v3 wrapped", fixture(t, "legacy_v3.json"), itinerary.SchemaLegacyV3},
		{"legacy v3 bare", []byte(`{"journey_list": []}`), itinerary.SchemaLegacyV3},
		{"legacy v2", fixture(t, "legacy_v2.json"), itinerary.SchemaLegacyV2},
		{"legacy v1 wrapped", fixture(t, "legacy_v1.json"), itinerary.SchemaLegacyV1},
		{"legacy v1 bare", []byte(`{"feuilleroute": {"etapes": []}}`), itinerary.SchemaLegacyV1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			schema, err := itinerary.Detect(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, schema)
		})
	}

	t.Run("unknown shape", func(t *testing.T) {
		t.Parallel()
		_, err := itinerary.Detect([]byte(`{"lines": []}`))
		require.ErrorIs(t, err, itinerary.ErrUnknownSchema)
	})

	t.Run("unknown planner envelope", func(t *testing.T) {
		t.Parallel()
		_, err := itinerary.Detect([]byte(`{"planner": {"status": "ok"}}`))
		require.ErrorIs(t, err, itinerary.ErrUnknownSchema)
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()
		_, err := itinerary.Detect([]byte(`<html>`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response envelope")
	})
}

func TestDecode_SchemasAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Decode(itinerary.SchemaLegacyV2, fixture(t, "current_journeys.json"))
	require.NoError(t, err)

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	assert.Empty(t, journeys, "a current response read as legacy v2 has no path")
}

func TestDecode_UnknownSchema(t *testing.T) {
	t.Parallel()

	_, err := itinerary.Decode(itinerary.Schema("v9"), []byte(`{}`))
	require.ErrorIs(t, err, itinerary.ErrUnknownSchema)
}

func TestParseSchema(t *testing.T) {
	t.Parallel()

	schema, err := itinerary.ParseSchema("legacy_v2")
	require.NoError(t, err)
	assert.Equal(t, itinerary.SchemaLegacyV2, schema)

	schema, err = itinerary.ParseSchema("")
	require.NoError(t, err)
	assert.Empty(t, schema)

	_, err = itinerary.ParseSchema("v0")
	require.ErrorIs(t, err, itinerary.ErrUnknownSchema)
}

func TestParse_Current(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Parse(fixture(t, "current_journeys.json"))
	require.NoError(t, err)
	assert.Equal(t, itinerary.SchemaCurrent, resp.Schema())

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	journey := journeys[0]
	assert.Equal(t, 1260, journey.DurationSeconds)
	assert.Equal(t, "Hotel de Ville", journey.Origin.Name)
	assert.Equal(t, "Nation", journey.Destination.Name)
	assert.InDelta(t, 48.8483, journey.Destination.Coordinates.Latitude, 1e-9)
	assert.InDelta(t, 2.3959, journey.Destination.Coordinates.Longitude, 1e-9)
	assert.Contains(t, journey.DetailLink, "https://api.navitia.io/v1/coverage/fr-idf/journeys")
	assert.Equal(t, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), journey.Departure)

	require.Len(t, journey.Legs, 2, "waiting section is skipped")
	assert.Equal(t, "walking", journey.Legs[0].Mode)
	require.Len(t, journey.Legs[0].Path, 3)
	assert.InDelta(t, 48.8570, journey.Legs[0].Path[1].Latitude, 1e-9)
	assert.InDelta(t, 2.3519, journey.Legs[0].Path[1].Longitude, 1e-9)
	assert.Equal(t, "Metro", journey.Legs[1].Mode)
	assert.Equal(t, "1", journey.Legs[1].Line)
	assert.Equal(t, 900, journey.Legs[1].DurationSeconds)
}

func TestParse_CurrentIsochrone(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Parse(fixture(t, "current_isochrone.json"))
	require.NoError(t, err)

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	require.Len(t, journeys, 3)

	assert.Equal(t, 0, journeys[0].DurationSeconds)
	assert.Equal(t, 500, journeys[1].DurationSeconds)
	assert.Equal(t, "Bastille", journeys[1].Destination.Name)
	assert.InDelta(t, 2.3691, journeys[1].Destination.Coordinates.Longitude, 1e-9)
	assert.Empty(t, journeys[2].DetailLink)
	assert.Empty(t, journeys[2].Legs)
}

func TestParse_CurrentErrors(t *testing.T) {
	t.Parallel()

	t.Run("no solution is an empty result", func(t *testing.T) {
		t.Parallel()
		resp, err := itinerary.Parse(fixture(t, "current_no_solution.json"))
		require.NoError(t, err)

		journeys, err := resp.Journeys()
		require.NoError(t, err)
		assert.Empty(t, journeys)
	})

	t.Run("other planner errors", func(t *testing.T) {
		t.Parallel()
		resp, err := itinerary.Parse([]byte(`{"error": {"id": "unknown_object", "message": "Invalid id : foo"}}`))
		require.NoError(t, err)

		_, err = resp.Journeys()
		require.ErrorIs(t, err, itinerary.ErrPlanner)
		assert.Contains(t, err.Error(), "Invalid id : foo")
	})

	t.Run("destination without coordinates", func(t *testing.T) {
		t.Parallel()
		resp, err := itinerary.Parse([]byte(`{"journeys": [{"duration": 5, "to": {"id": "x", "embedded_type": "stop_area"}}]}`))
		require.NoError(t, err)

		_, err = resp.Journeys()
		require.ErrorIs(t, err, itinerary.ErrMalformed)
		assert.Contains(t, err.Error(), "journey 0 destination")
	})

	t.Run("bad date time", func(t *testing.T) {
		t.Parallel()
		resp, err := itinerary.Parse([]byte(`{"journeys": [{"duration": 5, "departure_date_time": "yesterday"}]}`))
		require.NoError(t, err)

		_, err = resp.Journeys()
		require.ErrorIs(t, err, itinerary.ErrMalformed)
	})

	t.Run("negative duration", func(t *testing.T) {
		t.Parallel()
		resp, err := itinerary.Parse([]byte(`{"journeys": [{"duration": -5}]}`))
		require.NoError(t, err)

		_, err = resp.Journeys()
		require.ErrorIs(t, err, itinerary.ErrMalformed)
	})

	t.Run("bad coordinate value", func(t *testing.T) {
		t.Parallel()
		_, err := itinerary.Parse([]byte(
			`{"journeys": [{"to": {"embedded_type": "poi", "poi": {"coord": {"lat": "north", "lon": "1"}}}}]}`,
		))
		require.Error(t, err)
	})
}

func TestParse_LegacyV3(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Parse(fixture(t, "legacy_v3.json"))
	require.NoError(t, err)
	assert.Equal(t, itinerary.SchemaLegacyV3, resp.Schema())

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	journey := journeys[0]
	assert.Equal(t, 1500, journey.DurationSeconds)
	assert.Equal(t, "Rue de Rivoli", journey.Origin.Name)
	assert.Equal(t, "Nation", journey.Destination.Name)
	assert.Equal(t, time.Date(2012, 3, 15, 8, 25, 0, 0, time.UTC), journey.Arrival)

	require.Len(t, journey.Legs, 2)
	assert.Equal(t, "Walking", journey.Legs[0].Mode)
	assert.Len(t, journey.Legs[0].Path, 2)
	assert.Equal(t, "PUBLIC_TRANSPORT", journey.Legs[1].Mode)
	assert.Equal(t, "1", journey.Legs[1].Line)
	require.Len(t, journey.Legs[1].Path, 3)
	assert.InDelta(t, 2.3691, journey.Legs[1].Path[1].Longitude, 1e-9)
}

func TestParse_LegacyV3Malformed(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Parse([]byte(`{"journey_list": [{"section_list": [{"origin": {"name": "nowhere"}}]}]}`))
	require.NoError(t, err)

	_, err = resp.Journeys()
	require.ErrorIs(t, err, itinerary.ErrMalformed)
	assert.Contains(t, err.Error(), "journey 0 section 0")
}

func TestParse_LegacyV2(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Parse(fixture(t, "legacy_v2.json"))
	require.NoError(t, err)
	assert.Equal(t, itinerary.SchemaLegacyV2, resp.Schema())

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	journey := journeys[0]
	assert.Equal(t, 22*60, journey.DurationSeconds, "derived from departure and arrival")
	assert.Equal(t, "Place d'Italie", journey.Origin.Name)
	assert.InDelta(t, 48.8313, journey.Origin.Coordinates.Latitude, 1e-9)
	assert.InDelta(t, 2.3554, journey.Origin.Coordinates.Longitude, 1e-9)
	assert.Equal(t, "Nation (Metro)", journey.Destination.Name)

	require.Len(t, journey.Legs, 2)
	assert.Equal(t, "walk", journey.Legs[0].Mode)
	assert.Len(t, journey.Legs[0].Path, 2)
	assert.Equal(t, "Metro", journey.Legs[1].Mode)
	assert.Equal(t, "6", journey.Legs[1].Line)
	assert.Empty(t, journey.Legs[1].Path)
}

func TestParse_LegacyV2Malformed(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Parse([]byte(`{"path": [{"items": [{"type": "walk", "departure": {"name": "a"}}]}]}`))
	require.NoError(t, err)

	_, err = resp.Journeys()
	require.ErrorIs(t, err, itinerary.ErrMalformed)
	assert.Contains(t, err.Error(), "path 0 item 0")
}

func TestParse_LegacyV1(t *testing.T) {
	t.Parallel()

	resp, err := itinerary.Parse(fixture(t, "legacy_v1.json"))
	require.NoError(t, err)
	assert.Equal(t, itinerary.SchemaLegacyV1, resp.Schema())

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	journey := journeys[0]
	assert.Equal(t, 20*60, journey.DurationSeconds)
	assert.Equal(t, "Chatelet", journey.Origin.Name)
	assert.Equal(t, "Vincennes", journey.Destination.Name)
	assert.InDelta(t, 48.8474, journey.Destination.Coordinates.Latitude, 1e-9)
	assert.Equal(t, time.Date(2010, 6, 1, 8, 30, 0, 0, time.UTC), journey.Departure)

	require.Len(t, journey.Legs, 2)
	assert.Equal(t, "RER", journey.Legs[0].Mode)
	assert.Equal(t, "A", journey.Legs[0].Line)
	assert.Equal(t, 6*60, journey.Legs[0].DurationSeconds)
	assert.Len(t, journey.Legs[0].Path, 3)
	assert.Len(t, journey.Legs[1].Path, 2)
}

func TestParse_LegacyV1UnpairedTrajets(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"feuilleroute": {"etapes": [{
			"depart": {"lieu": {"nom": "A", "geo": {"x": 1, "y": 2}}, "date": {"date": "20100601", "heure": "09h00"}},
			"arrivee": {"lieu": {"nom": "B", "geo": {"x": 3, "y": 4}}, "date": {"date": "20100601", "heure": "09h10"}},
			"mode": {"ligne": "42", "type": "Bus"}
		}]},
		"itineraire": {"trajets": [
			{"pas": [{"x": 1, "y": 2}, {"x": 1.5, "y": 2.5}]},
			{"pas": [{"x": 2, "y": 3}, {"x": 3, "y": 4}]}
		]}
	}`)

	resp, err := itinerary.Parse(body)
	require.NoError(t, err)

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Legs, 1)

	assert.Equal(t, []models.Coordinates{
		{Latitude: 2, Longitude: 1},
		{Latitude: 2.5, Longitude: 1.5},
		{Latitude: 3, Longitude: 2},
		{Latitude: 4, Longitude: 3},
	}, journeys[0].Legs[0].Path)
}

func TestParse_LegacyV1Bare(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"feuilleroute": {"etapes": [{
			"depart": {"lieu": {"nom": "A", "geo": {"x": 1, "y": 2}}, "date": {"date": "20100601", "heure": "09h00"}},
			"arrivee": {"lieu": {"nom": "B", "geo": {"x": 3, "y": 4}}, "date": {"date": "20100601", "heure": "09h10"}},
			"mode": {"ligne": "42", "type": "Bus"}
		}]}
	}`)

	resp, err := itinerary.Parse(body)
	require.NoError(t, err)

	journeys, err := resp.Journeys()
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.Equal(t, 600, journeys[0].DurationSeconds)
	assert.InDelta(t, 4.0, journeys[0].Destination.Coordinates.Latitude, 1e-9)
	assert.Empty(t, journeys[0].Legs[0].Path)
}

func TestParse_LegacyV1Malformed(t *testing.T) {
	t.Parallel()

	t.Run("missing geo", func(t *testing.T) {
		t.Parallel()
		resp, err := itinerary.Parse([]byte(`{"feuilleroute": {"etapes": [{"depart": {"lieu": {"nom": "A"}}}]}}`))
		require.NoError(t, err)

		_, err = resp.Journeys()
		require.ErrorIs(t, err, itinerary.ErrMalformed)
	})

	t.Run("bad hour", func(t *testing.T) {
		t.Parallel()
		resp, err := itinerary.Parse([]byte(`{"feuilleroute": {"etapes": [{
			"depart": {"lieu": {"nom": "A", "geo": {"x": 1, "y": 2}}, "date": {"date": "2010-06-01", "heure": "noon"}},
			"arrivee": {"lieu": {"nom": "B", "geo": {"x": 3, "y": 4}}}
		}]}}`))
		require.NoError(t, err)

		_, err = resp.Journeys()
		require.ErrorIs(t, err, itinerary.ErrMalformed)
	})
}
