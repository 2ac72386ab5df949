package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/researchaccelerator-hub/yt-comment-harvester/metrics"
	youtubemodel "github.com/researchaccelerator-hub/yt-comment-harvester/model/youtube"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// ErrNotConnected is returned when a request is made before Connect.
var ErrNotConnected = errors.New("YouTube client not connected")

// Endpoint labels used in logs and metrics
const (
	EndpointSearch         = "search"
	EndpointCommentThreads = "commentThreads"
)

// YouTubeDataClient implements the youtube.YouTubeClient interface for accessing YouTube Data API
type YouTubeDataClient struct {
	service        *ytapi.Service
	apiKey         string
	requestTimeout time.Duration
	limiter        *rate.Limiter
	opts           []option.ClientOption
}

// ClientConfig tunes request pacing and timeouts
type ClientConfig struct {
	// RequestsPerSecond paces API calls to protect the daily quota. Zero means unlimited.
	RequestsPerSecond float64
	// RequestTimeout bounds each API call. Zero means no timeout beyond the caller's context.
	RequestTimeout time.Duration
}

// NewYouTubeDataClient creates a new YouTube data client. Extra options are passed to the
// generated service, after the API key option.
func NewYouTubeDataClient(apiKey string, cfg ClientConfig, opts ...option.ClientOption) (*YouTubeDataClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &YouTubeDataClient{
		apiKey:         apiKey,
		requestTimeout: cfg.RequestTimeout,
		limiter:        rate.NewLimiter(limit, 1),
		opts:           opts,
	}, nil
}

// Connect establishes a connection to the YouTube API
func (c *YouTubeDataClient) Connect(ctx context.Context) error {
	log.Info().Msg("Connecting to YouTube API")

	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create YouTube service")
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c.service = service
	log.Info().Msg("Connected to YouTube API successfully")
	return nil
}

// Disconnect closes the connection to the YouTube API
func (c *YouTubeDataClient) Disconnect(ctx context.Context) error {
	// No explicit disconnect needed for the YouTube API client
	c.service = nil
	return nil
}

// SearchVideos fetches one page of video ids for query. Only video results are requested.
func (c *YouTubeDataClient) SearchVideos(ctx context.Context, query, pageToken string, pageSize int64) (*youtubemodel.SearchPage, error) {
	if c.service == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Op: EndpointSearch, Err: err}
	}

	call := c.service.Search.List([]string{"id"}).
		Q(query).
		Type("video").
		MaxResults(pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(EndpointSearch, "error").Inc()
		return nil, &APIError{Op: EndpointSearch, Err: err}
	}
	metrics.APIRequestsTotal.WithLabelValues(EndpointSearch, "ok").Inc()

	page := &youtubemodel.SearchPage{
		VideoIDs:      make([]string, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		page.VideoIDs = append(page.VideoIDs, item.Id.VideoId)
	}

	log.Debug().
		Str("query", query).
		Int("result_count", len(page.VideoIDs)).
		Bool("has_next", page.NextPageToken != "").
		Msg("Fetched search page")

	return page, nil
}

// ListCommentThreads fetches one page of top-level comments for a video, as plain text.
func (c *YouTubeDataClient) ListCommentThreads(ctx context.Context, videoID, pageToken string, pageSize int64) (*youtubemodel.CommentThreadPage, error) {
	if c.service == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Op: EndpointCommentThreads, Err: err}
	}

	call := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(pageSize).
		TextFormat("plainText").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(EndpointCommentThreads, "error").Inc()
		return nil, &APIError{Op: EndpointCommentThreads, Err: err}
	}
	metrics.APIRequestsTotal.WithLabelValues(EndpointCommentThreads, "ok").Inc()

	page := &youtubemodel.CommentThreadPage{
		Threads:       make([]youtubemodel.CommentThread, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if thread, ok := convertCommentThread(videoID, item); ok {
			page.Threads = append(page.Threads, thread)
		}
	}

	log.Debug().
		Str("video_id", videoID).
		Int("thread_count", len(page.Threads)).
		Bool("has_next", page.NextPageToken != "").
		Msg("Fetched comment thread page")

	return page, nil
}

// convertCommentThread flattens the nested API thread into the top-level comment fields.
// Threads without a top-level comment snippet are dropped.
func convertCommentThread(videoID string, item *ytapi.CommentThread) (youtubemodel.CommentThread, bool) {
	if item == nil || item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
		return youtubemodel.CommentThread{}, false
	}

	snippet := item.Snippet.TopLevelComment.Snippet
	thread := youtubemodel.CommentThread{
		VideoID:     videoID,
		Text:        snippet.TextDisplay,
		AuthorName:  snippet.AuthorDisplayName,
		PublishedAt: snippet.PublishedAt,
		LikeCount:   snippet.LikeCount,
		ReplyCount:  item.Snippet.TotalReplyCount,
	}
	if snippet.AuthorChannelId != nil {
		thread.AuthorChannelID = snippet.AuthorChannelId.Value
	}
	return thread, true
}

func (c *YouTubeDataClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout > 0 {
		return context.WithTimeout(ctx, c.requestTimeout)
	}
	return context.WithCancel(ctx)
}
