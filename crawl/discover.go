package crawl

import (
	"context"
	"fmt"
	"sort"

	"github.com/researchaccelerator-hub/yt-comment-harvester/client"
	"github.com/researchaccelerator-hub/yt-comment-harvester/common"
	"github.com/researchaccelerator-hub/yt-comment-harvester/config"
	"github.com/researchaccelerator-hub/yt-comment-harvester/metrics"
	youtubemodel "github.com/researchaccelerator-hub/yt-comment-harvester/model/youtube"
	"github.com/rs/zerolog/log"
)

// TopicResult summarises the search for one topic.
type TopicResult struct {
	Topic  string
	Count  int
	Pages  int
	Reason string // set when the search ended on an error
}

// DiscoveryResult is the union of identifiers found across all topics.
type DiscoveryResult struct {
	IDs    []string
	Topics []TopicResult
}

// Failed returns the number of topics whose search ended on an error.
func (r *DiscoveryResult) Failed() int {
	n := 0
	for _, t := range r.Topics {
		if t.Reason != "" {
			n++
		}
	}
	return n
}

// Discoverer collects video identifiers by searching topics.
type Discoverer struct {
	client   youtubemodel.YouTubeClient
	pageSize int64
	failFast bool
}

// NewDiscoverer creates a discoverer. A pageSize outside the API limits falls back
// to the maximum. With failFast set, the first failed search aborts the whole run.
func NewDiscoverer(c youtubemodel.YouTubeClient, pageSize int64, failFast bool) *Discoverer {
	if pageSize <= 0 || pageSize > config.MaxSearchPageSize {
		pageSize = config.MaxSearchPageSize
	}
	return &Discoverer{client: c, pageSize: pageSize, failFast: failFast}
}

// DiscoverTopic pages through the search results for topic until the listing is
// exhausted or limit distinct identifiers were collected. Identifiers gathered
// before a failed page are returned together with the error.
func (d *Discoverer) DiscoverTopic(ctx context.Context, topic string, limit int) ([]string, int, error) {
	seen := make(map[string]struct{})
	var ids []string

	pager := NewPager()
	for pager.More() && len(ids) < limit {
		page, err := d.client.SearchVideos(ctx, topic, pager.Token(), d.pageSize)
		var next string
		if page != nil {
			next = page.NextPageToken
		}
		if pager.Advance(next, err) == PageFailed {
			break
		}

		for _, id := range page.VideoIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
			if len(ids) >= limit {
				pager.Stop()
				break
			}
		}

		log.Debug().
			Str("topic", topic).
			Int("page", pager.Pages()).
			Int("count", len(ids)).
			Msg("Search page processed")
	}

	return ids, pager.Pages(), pager.Err()
}

// Discover searches every topic and returns the set union of the identifiers.
// A failed topic keeps what it collected and the next topic runs, unless the
// discoverer is fail-fast.
func (d *Discoverer) Discover(ctx context.Context, topics []string, perTopicCap int) (*DiscoveryResult, error) {
	all := make(map[string]struct{})
	result := &DiscoveryResult{}

	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Info().Str("topic", topic).Msg("Searching videos")
		ids, pages, err := d.DiscoverTopic(ctx, topic, perTopicCap)

		tr := TopicResult{Topic: topic, Count: len(ids), Pages: pages}
		if err != nil {
			metrics.VideoFailuresTotal.WithLabelValues("discovery").Inc()
			if d.failFast {
				return nil, fmt.Errorf("discovery aborted on topic %q: %w", topic, err)
			}
			tr.Reason = client.Reason(err)
			log.Warn().
				Str("topic", topic).
				Str("reason", tr.Reason).
				Int("count", len(ids)).
				Msg("Search failed, keeping identifiers collected so far")
		}
		result.Topics = append(result.Topics, tr)

		for _, id := range ids {
			all[id] = struct{}{}
		}
		log.Info().Str("topic", topic).Int("count", len(ids)).Msg("Topic searched")
	}

	result.IDs = make([]string, 0, len(all))
	for id := range all {
		result.IDs = append(result.IDs, id)
	}
	sort.Strings(result.IDs)
	return result, nil
}

// Run discovers identifiers for topics and writes them to outputFile, one per
// line, replacing its contents. Nothing is written when discovery aborts.
func (d *Discoverer) Run(ctx context.Context, topics []string, perTopicCap int, outputFile string) (*DiscoveryResult, error) {
	result, err := d.Discover(ctx, topics, perTopicCap)
	if err != nil {
		return nil, err
	}

	if err := common.WriteLines(outputFile, result.IDs); err != nil {
		return nil, fmt.Errorf("failed to write video ids to %s: %w", outputFile, err)
	}
	metrics.VideosDiscoveredTotal.Add(float64(len(result.IDs)))

	log.Info().
		Int("count", len(result.IDs)).
		Int("failed_topics", result.Failed()).
		Str("file", outputFile).
		Msg("Saved video ids")
	return result, nil
}
