// Package metrics declares the prometheus collectors exported by colmap.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	KeysMapped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colmap_keys_mapped_total",
		Help: "The total number of JSON keys mapped, by deciding method",
	}, []string{"method"})

	MappingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "colmap_mapping_duration_seconds",
		Help:    "Time taken to map one payload onto one table",
		Buckets: prometheus.DefBuckets,
	})

	MappingErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colmap_mapping_errors_total",
		Help: "The total number of failed mapping requests, by failing stage",
	}, []string{"stage"})

	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colmap_embedding_requests_total",
		Help: "The total number of batched embedding calls sent to a provider",
	}, []string{"provider"})

	EmbeddingTexts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colmap_embedding_texts_total",
		Help: "The total number of texts sent to a provider for embedding",
	}, []string{"provider"})

	EmbeddingErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colmap_embedding_errors_total",
		Help: "The total number of failed embedding calls",
	}, []string{"provider"})

	EmbeddingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "colmap_embedding_duration_seconds",
		Help:    "Time taken by one batched embedding call",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	EmbeddingCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colmap_embedding_cache_hits_total",
		Help: "The total number of embedding lookups served from cache",
	})

	EmbeddingCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colmap_embedding_cache_misses_total",
		Help: "The total number of embedding lookups that reached the provider",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colmap_http_requests_total",
		Help: "The total number of API requests, by route and status code",
	}, []string{"route", "code"})
)
