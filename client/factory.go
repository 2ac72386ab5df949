package client

import (
	"context"
	"fmt"

	"github.com/researchaccelerator-hub/yt-comment-harvester/config"
	youtubemodel "github.com/researchaccelerator-hub/yt-comment-harvester/model/youtube"
	"google.golang.org/api/option"
)

var _ youtubemodel.YouTubeClient = (*YouTubeDataClient)(nil)

// NewConnectedClient creates a YouTube client from the collector configuration and connects it.
func NewConnectedClient(ctx context.Context, cfg *config.CollectorConfig, opts ...option.ClientOption) (*YouTubeDataClient, error) {
	c, err := NewYouTubeDataClient(cfg.YouTubeAPIKey, ClientConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		RequestTimeout:    cfg.RequestTimeout,
	}, opts...)
	if err != nil {
		return nil, err
	}

	if err := c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("youtube client: %w", err)
	}
	return c, nil
}
