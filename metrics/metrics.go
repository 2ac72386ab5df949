// Package metrics holds the Prometheus collectors for a pipeline run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"
)

// Registry is private to the harvester so pushes only carry its own series.
var Registry = prometheus.NewRegistry()

var (
	// YouTube API metrics
	APIRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytcomments_api_requests_total",
			Help: "Total number of YouTube Data API requests",
		},
		[]string{"endpoint", "status"},
	)

	// Discovery metrics
	VideosDiscoveredTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ytcomments_videos_discovered_total",
			Help: "Total number of unique video identifiers written by discovery",
		},
	)

	// Ingestion metrics
	CommentsClassifiedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytcomments_comments_classified_total",
			Help: "Total number of comments classified, by detected language",
		},
		[]string{"language"},
	)

	CommentsKeptTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ytcomments_comments_kept_total",
			Help: "Total number of comments kept in the target language",
		},
	)

	VideoFailuresTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytcomments_video_failures_total",
			Help: "Total number of units (topics or videos) whose pagination ended on an error",
		},
		[]string{"stage"},
	)
)

// Push sends the registry to a Prometheus Pushgateway under job.
func Push(url, job string) error {
	if err := push.New(url, job).Gatherer(Registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	log.Info().Str("pushgateway", url).Str("job", job).Msg("Pushed run metrics")
	return nil
}
