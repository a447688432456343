// Package metrics defines all custom Prometheus metrics for the blog API.
// It is the single source of truth for metric names, labels, and help
// strings, and deliberately depends on nothing but the prometheus client
// so any layer can increment. Metrics are registered with the default
// registry on import via promauto; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// UsersRegisteredTotal counts successful registrations.
// Label:
//   - role: "student" or "teacher"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user registrations, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PostsCreatedTotal counts newly created posts.
// Label:
//   - status: "draft", "published", "scheduled" or "private"
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by status.",
	},
	[]string{"status"},
)

// CommentsAddedTotal counts comments appended to posts.
var CommentsAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_added_total",
		Help:      "Total number of comments added to posts.",
	},
)

// ListingCacheTotal counts listing cache lookups.
// Label:
//   - result: "hit" or "miss"
var ListingCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_cache_total",
		Help:      "Total number of listing cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)
