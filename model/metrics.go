package model

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Build metrics. Registered on the default prometheus registerer.
var (
	buildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crmgraph",
		Name:      "builds_total",
		Help:      "Number of model builds attempted.",
	})

	buildFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crmgraph",
		Name:      "build_failures_total",
		Help:      "Number of model builds that failed.",
	})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "crmgraph",
		Name:      "build_duration_seconds",
		Help:      "Wall time of successful model builds.",
		Buckets:   prometheus.DefBuckets,
	})

	classesBuilt = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "crmgraph",
		Name:      "classes_built",
		Help:      "Types registered by the most recent successful build.",
	})

	relationshipsWired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "crmgraph",
		Name:      "relationships_wired",
		Help:      "Relationship descriptors attached by the most recent successful build.",
	})
)
