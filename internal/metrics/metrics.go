package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CoercionFailures counts cell values that could not be coerced and fell back to a default.
var CoercionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "compliancespectre",
	Name:      "coercion_failures_total",
	Help:      "Count of cell values replaced by a default after a failed coercion",
}, []string{"field"})

// Aggregations counts aggregation requests by outcome.
var Aggregations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "compliancespectre",
	Name:      "aggregations_total",
	Help:      "Count of aggregation requests by outcome",
}, []string{"outcome"})

// SourcesSkipped counts source exports excluded at ingestion.
var SourcesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "compliancespectre",
	Name:      "sources_skipped_total",
	Help:      "Count of source exports skipped during ingestion",
}, []string{"reason"})
