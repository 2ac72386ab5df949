package crawl

import (
	"context"

	"github.com/researchaccelerator-hub/yt-comment-harvester/client"
	"github.com/researchaccelerator-hub/yt-comment-harvester/config"
	"github.com/researchaccelerator-hub/yt-comment-harvester/language"
	"github.com/researchaccelerator-hub/yt-comment-harvester/metrics"
	"github.com/researchaccelerator-hub/yt-comment-harvester/model"
	youtubemodel "github.com/researchaccelerator-hub/yt-comment-harvester/model/youtube"
	"github.com/rs/zerolog/log"
)

// VideoResult is the outcome of ingesting one video.
type VideoResult struct {
	VideoID string
	Records []model.CommentRecord
	Pages   int
	Skipped bool
	Reason  string // set when pagination ended on an error
	Err     error
}

// VideoHook runs after each video finishes, with that video's result and every
// record collected so far. Hook errors are logged and never stop the run.
type VideoHook func(ctx context.Context, res VideoResult, all []model.CommentRecord) error

// IngestOptions tune an Ingester.
type IngestOptions struct {
	PageSize int64
	// SkipIngested skips videos that already have records in the existing collection.
	SkipIngested bool
	Hooks        []VideoHook
}

// IngestSummary counts what an ingestion run did.
type IngestSummary struct {
	Videos  int
	Failed  int
	Skipped int
	Kept    int
}

// Ingester fetches top-level comments and keeps those in the target language.
type Ingester struct {
	client     youtubemodel.YouTubeClient
	classifier *language.Classifier
	opts       IngestOptions
}

// NewIngester creates an ingester. A page size outside the API limits falls back
// to the maximum.
func NewIngester(c youtubemodel.YouTubeClient, classifier *language.Classifier, opts IngestOptions) *Ingester {
	if opts.PageSize <= 0 || opts.PageSize > config.MaxCommentPageSize {
		opts.PageSize = config.MaxCommentPageSize
	}
	return &Ingester{client: c, classifier: classifier, opts: opts}
}

// IngestOne collects up to limit target-language comments for videoID, in the
// order the API returns them. A failed page ends this video only; records kept
// before the failure are returned and the reason is recorded on the result.
func (in *Ingester) IngestOne(ctx context.Context, videoID string, limit int, tally *language.Tally) VideoResult {
	res := VideoResult{VideoID: videoID}
	log.Info().Str("video_id", videoID).Msg("Fetching comments")

	pager := NewPager()
	for pager.More() && len(res.Records) < limit {
		page, err := in.client.ListCommentThreads(ctx, videoID, pager.Token(), in.opts.PageSize)
		var next string
		if page != nil {
			next = page.NextPageToken
		}
		if pager.Advance(next, err) == PageFailed {
			break
		}

		for _, thread := range page.Threads {
			if !in.classifier.Classify(thread.Text, tally) {
				continue
			}
			res.Records = append(res.Records, toRecord(videoID, thread))
			if len(res.Records) >= limit {
				pager.Stop()
				break
			}
		}

		log.Debug().
			Str("video_id", videoID).
			Int("page", pager.Pages()).
			Int("count", len(res.Records)).
			Msg("Comment page processed")
	}

	res.Pages = pager.Pages()
	if err := pager.Err(); err != nil {
		res.Err = err
		res.Reason = client.Reason(err)
		metrics.VideoFailuresTotal.WithLabelValues("ingestion").Inc()
		log.Warn().
			Str("video_id", videoID).
			Str("reason", res.Reason).
			Int("count", len(res.Records)).
			Msg("Skipping remaining comments for video")
	}
	metrics.CommentsKeptTotal.Add(float64(len(res.Records)))

	log.Info().Str("video_id", videoID).Int("count", len(res.Records)).Msg("Comments kept")
	return res
}

// IngestAll ingests every video in ids in order and appends the kept records to
// existing. Cancelling ctx stops before the next video; what was collected is
// still returned so the caller can save it.
func (in *Ingester) IngestAll(ctx context.Context, ids []string, perVideoCap int, existing []model.CommentRecord, tally *language.Tally) ([]model.CommentRecord, IngestSummary) {
	all := existing
	var summary IngestSummary

	var done map[string]struct{}
	if in.opts.SkipIngested {
		done = model.VideoIDs(existing)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("Ingestion interrupted")
			break
		}

		var res VideoResult
		if _, ok := done[id]; ok {
			log.Info().Str("video_id", id).Msg("Video already ingested, skipping")
			res = VideoResult{VideoID: id, Skipped: true}
			summary.Skipped++
		} else {
			res = in.IngestOne(ctx, id, perVideoCap, tally)
			all = append(all, res.Records...)
			summary.Videos++
			summary.Kept += len(res.Records)
			if res.Err != nil {
				summary.Failed++
			}
		}

		for _, hook := range in.opts.Hooks {
			if err := hook(ctx, res, all); err != nil {
				log.Error().Err(err).Str("video_id", id).Msg("Post-video hook failed")
			}
		}
	}

	return all, summary
}

func toRecord(videoID string, t youtubemodel.CommentThread) model.CommentRecord {
	rec := model.CommentRecord{
		VideoID:     videoID,
		Comment:     t.Text,
		Author:      t.AuthorName,
		PublishedAt: t.PublishedAt,
		LikeCount:   t.LikeCount,
		ReplyCount:  t.ReplyCount,
	}
	if t.AuthorChannelID != "" {
		channelID := t.AuthorChannelID
		rec.AuthorChannelID = &channelID
	}
	return rec
}
