package project

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Collectors are registered on the controller-runtime metrics registry, which a
// manager's metrics server exposes. The starter-resolve CLI dumps the same
// registry with -metrics-file.
var (
	projectResolutionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starter_project_resolution_total",
			Help: "Number of project request resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	projectDependenciesDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starter_project_dependencies_dropped_total",
			Help: "Number of selected dependencies dropped during resolution, by reason.",
		},
		[]string{"reason"},
	)

	projectIdentifierFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starter_project_identifier_fallback_total",
			Help: "Number of derived identifiers that fell back to a default value.",
		},
		[]string{"field"},
	)

	projectResolutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "starter_project_resolution_duration_seconds",
			Help:    "Time taken to resolve a project request.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

const (
	outcomeResolved = "resolved"
	outcomeInvalid  = "invalid"

	reasonIncompatible = "incompatible"
	reasonUnknown      = "unknown"
)

func init() {
	metrics.Registry.MustRegister(
		projectResolutionTotal,
		projectDependenciesDroppedTotal,
		projectIdentifierFallbackTotal,
		projectResolutionDuration,
	)
}
