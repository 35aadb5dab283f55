package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadstatus_geocode_requests_total",
		Help: "Geocoding calls by provider, kind and outcome",
	}, []string{"provider", "kind", "outcome"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadstatus_cache_lookups_total",
		Help: "Cache lookups by layer and result",
	}, []string{"layer", "result"})
	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadstatus_location_resolutions_total",
		Help: "Record location resolutions by source",
	}, []string{"source"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadstatus_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"method", "status"})
	OperationDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadstatus_operation_duration_ms",
		Help:    "Timed operation duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(CacheLookupsTotal)
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(OperationDurationMs)
}

func Handler() http.Handler { return promhttp.Handler() }
