package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PlannerRequests *prometheus.CounterVec
	PlannerSeconds  *prometheus.HistogramVec
	APIErrors       *prometheus.CounterVec
	LayerRenders    prometheus.Counter
	LayerFeatures   prometheus.Gauge
	SearchSeconds   *prometheus.HistogramVec
	SnapshotErrors  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		PlannerRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "horizon_planner_requests_total",
			Help: "Total number of requests sent to the journey planner API.",
		}, []string{"kind", "status"}),
		PlannerSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "horizon_planner_request_duration_seconds",
			Help:    "Duration of requests to the journey planner API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		APIErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "horizon_planner_api_errors_total",
			Help: "Total number of error statuses received from the journey planner API.",
		}, []string{"status_code"}),
		LayerRenders: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "horizon_layer_renders_total",
			Help: "Total number of isochrone layer renders.",
		}),
		LayerFeatures: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "horizon_layer_features",
			Help: "Number of features in the currently attached isochrone layer.",
		}),
		SearchSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "horizon_search_request_duration_seconds",
			Help:    "Duration of place searches.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		SnapshotErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "horizon_snapshot_errors_total",
			Help: "Total number of failures to store or restore isochrone snapshots.",
		}),
	}
}

// ObserveRender records one isochrone layer render.
func (m *Metrics) ObserveRender(features int) {
	m.LayerRenders.Inc()
	m.LayerFeatures.Set(float64(features))
}
