package page

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Layer is a set of features attached to the map as one unit.
type Layer struct {
	ID       string                     // ID identifies the layer for removal.
	Zoom     int                        // Zoom the layer was built for.
	Bound    orb.Bound                  // Bound of the layer's features, for map centring.
	Features *geojson.FeatureCollection // Features of the layer.
}

// Surface is what the controller draws on.
type Surface interface {
	AddLayer(layer Layer)
	RemoveLayer(id string)
	AddMarker(feature *geojson.Feature)
	AddPolyline(feature *geojson.Feature)
	ClearOverlays()
	ShowMessage(message string)
}

// Snapshot is a copy of what a MemorySurface currently shows.
type Snapshot struct {
	Layers   []Layer
	Overlays *geojson.FeatureCollection
	Message  string
}

// LayerFeatures merges the features of every attached layer.
func (s Snapshot) LayerFeatures() *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, layer := range s.Layers {
		collection.Features = append(collection.Features, layer.Features.Features...)
	}

	return collection
}

// MemorySurface keeps the drawn state in memory so HTTP clients can read it back as GeoJSON.
// It is written by the controller goroutine and read by request handlers.
type MemorySurface struct {
	mu       sync.RWMutex
	layers   []Layer
	markers  []*geojson.Feature
	lines    []*geojson.Feature
	message  string
	attaches int
}

// NewMemorySurface returns an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// AddLayer implements Surface.
func (s *MemorySurface) AddLayer(layer Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layers = append(s.layers, layer)
	s.attaches++
}

// RemoveLayer implements Surface. Unknown ids are ignored.
func (s *MemorySurface) RemoveLayer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.layers[:0]
	for _, layer := range s.layers {
		if layer.ID != id {
			kept = append(kept, layer)
		}
	}
	s.layers = kept
}

// AddMarker implements Surface.
func (s *MemorySurface) AddMarker(feature *geojson.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = append(s.markers, feature)
}

// AddPolyline implements Surface.
func (s *MemorySurface) AddPolyline(feature *geojson.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, feature)
}

// ClearOverlays implements Surface.
func (s *MemorySurface) ClearOverlays() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = nil
	s.lines = nil
}

// ShowMessage implements Surface. An empty message hides the previous one.
func (s *MemorySurface) ShowMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
}

// Attaches counts AddLayer calls since creation.
func (s *MemorySurface) Attaches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.attaches
}

// Snapshot copies the current state. Lines come before markers so markers are drawn on top.
func (s *MemorySurface) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overlays := geojson.NewFeatureCollection()
	overlays.Features = append(overlays.Features, s.lines...)
	overlays.Features = append(overlays.Features, s.markers...)

	return Snapshot{
		Layers:   append([]Layer(nil), s.layers...),
		Overlays: overlays,
		Message:  s.message,
	}
}
