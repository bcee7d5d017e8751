// Package metrics defines the custom Prometheus metrics of the commerce API.
// All metrics are registered on the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commerce"

// ── Authorization ────────────────────────────────────────────────────────────

// AuthzDenialsTotal counts requests refused by the access policy.
// Label:
//   - cause: "unauthenticated" or "forbidden"
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by the customer access policy, by cause.",
	},
	[]string{"cause"},
)

// ── Customers ────────────────────────────────────────────────────────────────

var CustomersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customers_created_total",
		Help:      "Total number of customers registered.",
	},
)

// CustomerDeleteBlockedTotal counts deletes refused because orders still
// reference the customer.
var CustomerDeleteBlockedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customer_delete_blocked_total",
		Help:      "Total number of customer deletes refused because of related orders.",
	},
)

// ── Profile pictures ─────────────────────────────────────────────────────────

var ProfilePicturesUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_pictures_uploaded_total",
		Help:      "Total number of profile pictures normalized and stored.",
	},
)

// ProfilePicturesFailedTotal counts failed uploads.
// Label:
//   - reason: error kind, e.g. "unsupported_image_format", "internal"
var ProfilePicturesFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_pictures_failed_total",
		Help:      "Total number of profile picture uploads that failed, by reason.",
	},
	[]string{"reason"},
)

var ProfilePictureUploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "profile_picture_upload_duration_seconds",
		Help:      "Duration of a profile picture upload from decode to storage.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	},
)

// ── Rate limiting ────────────────────────────────────────────────────────────

// RateLimitHitsTotal counts rejected requests.
// Label:
//   - scope: limiter scope, e.g. "upload"
var RateLimitHitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_hits_total",
		Help:      "Total number of requests rejected by a rate limiter.",
	},
	[]string{"scope"},
)
