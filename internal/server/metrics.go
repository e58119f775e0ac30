package server

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"daotask/internal/grant"
)

// SchedulesComputed counts grant schedules built, by task kind.
var SchedulesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "daotask",
	Name:      "schedules_computed_total",
	Help:      "Total grant schedules computed.",
}, []string{"kind"})

// ValidationFailures counts rejected grant configurations, by failure kind.
var ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "daotask",
	Name:      "grant_validation_failures_total",
	Help:      "Total grant configurations rejected by validation.",
}, []string{"kind"})

// TasksCreated counts persisted tasks, by task kind.
var TasksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "daotask",
	Name:      "tasks_created_total",
	Help:      "Total tasks, milestones and subtasks created.",
}, []string{"kind"})

// HTTPRequestDuration tracks API request latency in seconds.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "daotask",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

func validationKindLabel(kind grant.ValidationKind) string {
	return strings.ReplaceAll(string(kind), " ", "_")
}
