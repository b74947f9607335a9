package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestDuration tracks every call made to the marketplace backend.
	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_backend_request_duration_seconds",
		Help:    "Duration of requests to the marketplace backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// MutationsTotal counts admin mutations by resource, action and outcome.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_mutations_total",
		Help: "Total number of admin mutations",
	}, []string{"resource", "action", "outcome"}) // outcome: success, failure

	// CollectionRefreshes counts collection refetches by resource and outcome.
	CollectionRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_collection_refreshes_total",
		Help: "Total number of collection refetches",
	}, []string{"resource", "outcome"}) // outcome: success, failure, discarded

	// CollectionSize tracks the size of the last accepted snapshot.
	CollectionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "backoffice_collection_items",
		Help: "Number of items in the last accepted collection snapshot",
	}, []string{"resource"})

	// ProxyRequests counts asset proxy requests by endpoint and source.
	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_proxy_requests_total",
		Help: "Total number of asset proxy requests",
	}, []string{"endpoint", "source"}) // source: s3, direct, cache, rejected, error

	// ProxyBytes tracks bytes served by the asset proxy.
	ProxyBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_proxy_bytes_total",
		Help: "Total bytes served by the asset proxy",
	})

	// SessionTransitions counts session state changes.
	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_session_transitions_total",
		Help: "Total number of session state transitions",
	}, []string{"to"})

	// AuditTasks counts audit-trail tasks by outcome.
	AuditTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_audit_tasks_total",
		Help: "Total number of audit-trail tasks",
	}, []string{"outcome"}) // outcome: enqueued, enqueue_failed, processed, failed
)
