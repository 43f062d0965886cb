// Package geo turns normalised journeys into GeoJSON features for the map surface.
//
// Internally coordinates are (lat, lon); GeoJSON wants (lon, lat). The conversion happens
// in toPoint and nowhere else.
package geo

import (
	"math"

	"github.com/UnknownOlympus/horizon/internal/colorize"
	"github.com/UnknownOlympus/horizon/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

// Marker roles used in itinerary layers.
const (
	RoleDeparture = "departure"
	RoleTransfer  = "transfer"
	RoleArrival   = "arrival"
)

// IsochroneOptions control how colored points are turned into features.
type IsochroneOptions struct {
	Zoom int                 // Zoom is the map zoom level, drives the point radius.
	Link func(string) string // Link rewrites detail links before they reach the popup, may be nil.
}

// BuildIsochrone colors every journey destination on the gradient.
func BuildIsochrone(
	journeys []models.Journey,
	maxDuration int,
	gradient colorize.Gradient,
	policy colorize.Policy,
) []models.ColoredPoint {
	points := make([]models.ColoredPoint, 0, len(journeys))
	for _, journey := range journeys {
		points = append(points, models.ColoredPoint{
			Coordinates: journey.Destination.Coordinates,
			Color:       gradient.Color(journey.DurationSeconds, maxDuration, policy),
			Journey:     journey,
		})
	}

	return points
}

// IsochroneCollection builds one Point feature per colored point.
// Properties carry everything a popup needs: duration text, destination name and detail link.
func IsochroneCollection(points []models.ColoredPoint, opts IsochroneOptions) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	radius := Radius(opts.Zoom)

	for _, point := range points {
		link := point.Journey.DetailLink
		if opts.Link != nil && link != "" {
			link = opts.Link(link)
		}

		feature := geojson.NewFeature(toPoint(point.Coordinates))
		feature.Properties["kind"] = "isochrone"
		feature.Properties["color"] = point.Color
		feature.Properties["radius"] = radius
		feature.Properties["duration"] = point.Journey.DurationSeconds
		feature.Properties["duration_text"] = HumanizeDuration(point.Journey.DurationSeconds)
		feature.Properties["name"] = point.Journey.Destination.Name
		feature.Properties["link"] = link
		collection.Append(feature)
	}

	return collection
}

// ItineraryCollection draws a journey: a marker at every leg boundary and a line per leg.
func ItineraryCollection(journey models.Journey) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()

	for idx, leg := range journey.Legs {
		if idx == 0 {
			collection.Append(marker(leg.From, RoleDeparture, leg))
		}

		role := RoleTransfer
		if idx == len(journey.Legs)-1 {
			role = RoleArrival
		}
		collection.Append(marker(leg.To, role, leg))
		collection.Append(legLine(leg))
	}

	return collection
}

func marker(place models.Place, role string, leg models.Leg) *geojson.Feature {
	feature := geojson.NewFeature(toPoint(place.Coordinates))
	feature.Properties["kind"] = "marker"
	feature.Properties["role"] = role
	feature.Properties["name"] = place.Name
	feature.Properties["line"] = leg.Line

	return feature
}

func legLine(leg models.Leg) *geojson.Feature {
	path := leg.Path
	if len(path) < 2 {
		path = []models.Coordinates{leg.From.Coordinates, leg.To.Coordinates}
	}

	line := make(orb.LineString, 0, len(path))
	for _, coords := range path {
		line = append(line, toPoint(coords))
	}

	feature := geojson.NewFeature(line)
	feature.Properties["kind"] = "leg"
	feature.Properties["mode"] = leg.Mode
	feature.Properties["line"] = leg.Line
	feature.Properties["duration"] = leg.DurationSeconds
	feature.Properties["polyline"] = EncodePath(path)

	return feature
}

// EncodePath encodes a path with the Google polyline algorithm (lat, lon pairs, 1e-5 precision).
func EncodePath(path []models.Coordinates) string {
	coords := make([][]float64, 0, len(path))
	for _, c := range path {
		coords = append(coords, []float64{c.Latitude, c.Longitude})
	}

	return string(polyline.EncodeCoords(coords))
}

// Radius is the on-screen point radius at a zoom level.
func Radius(zoom int) float64 {
	const divisor = 1000

	return math.Pow(2, float64(zoom)) / divisor
}

// Bounds returns the bounding box of the points, the zero bound when there are none.
func Bounds(points []models.ColoredPoint) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}

	multi := make(orb.MultiPoint, 0, len(points))
	for _, point := range points {
		multi = append(multi, toPoint(point.Coordinates))
	}

	return multi.Bound()
}

func toPoint(coords models.Coordinates) orb.Point {
	return orb.Point{coords.Longitude, coords.Latitude}
}
