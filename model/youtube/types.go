// Package youtube contains YouTube-specific data models
package youtube

import (
	"context"
)

// SearchPage is one page of video search results
type SearchPage struct {
	VideoIDs      []string
	NextPageToken string
}

// CommentThread is the top-level comment of a comment thread
type CommentThread struct {
	VideoID         string
	Text            string
	AuthorName      string
	AuthorChannelID string // empty when the API omits it
	PublishedAt     string
	LikeCount       int64
	ReplyCount      int64
}

// CommentThreadPage is one page of comment threads for a video
type CommentThreadPage struct {
	Threads       []CommentThread
	NextPageToken string
}

// YouTubeClient defines the methods needed for YouTube API operations
type YouTubeClient interface {
	// Connect establishes a connection to the YouTube API
	Connect(ctx context.Context) error

	// Disconnect closes the connection to the YouTube API
	Disconnect(ctx context.Context) error

	// SearchVideos fetches one page of video ids matching query
	SearchVideos(ctx context.Context, query, pageToken string, pageSize int64) (*SearchPage, error)

	// ListCommentThreads fetches one page of top-level comments for a video
	ListCommentThreads(ctx context.Context, videoID, pageToken string, pageSize int64) (*CommentThreadPage, error)
}
