// Package metrics holds the prometheus collectors shared by the client packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BootstrapTotal counts finished bootstraps by how the session was obtained:
	// "persisted", "login" or "fallback".
	BootstrapTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_bootstrap_total",
			Help: "Session bootstraps by outcome",
		},
		[]string{"outcome"},
	)

	// LoginFailures counts failed login exchanges by reason.
	LoginFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_login_failures_total",
			Help: "Failed init data exchanges by reason",
		},
		[]string{"reason"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "miniapp_api_request_duration_seconds",
			Help:    "Backend API call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	CatalogFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_catalog_fallbacks_total",
			Help: "Catalog reads served from the built-in list",
		},
		[]string{"catalog"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_catalog_cache_hits_total",
			Help: "Catalog reads served from cache",
		},
		[]string{"catalog"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_store_errors_total",
			Help: "Key-value store failures by backend and operation",
		},
		[]string{"backend", "op"},
	)
)
