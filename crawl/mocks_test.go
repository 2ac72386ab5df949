package crawl

import (
	"context"
	"errors"
	"strings"

	"github.com/researchaccelerator-hub/yt-comment-harvester/language"
	youtubemodel "github.com/researchaccelerator-hub/yt-comment-harvester/model/youtube"
	"github.com/stretchr/testify/mock"
)

// MockYouTubeClient is a mock implementation of the YouTubeClient interface.
type MockYouTubeClient struct {
	mock.Mock
}

func (m *MockYouTubeClient) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockYouTubeClient) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockYouTubeClient) SearchVideos(ctx context.Context, query, pageToken string, pageSize int64) (*youtubemodel.SearchPage, error) {
	args := m.Called(ctx, query, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtubemodel.SearchPage), args.Error(1)
}

func (m *MockYouTubeClient) ListCommentThreads(ctx context.Context, videoID, pageToken string, pageSize int64) (*youtubemodel.CommentThreadPage, error) {
	args := m.Called(ctx, videoID, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtubemodel.CommentThreadPage), args.Error(1)
}

// prefixDetector reads the language from a "xx:" prefix. Texts without one are
// English and texts starting with "?" are undetectable.
type prefixDetector struct{}

func (prefixDetector) Detect(text string) (string, error) {
	if strings.HasPrefix(text, "?") {
		return "", language.ErrUndetectable
	}
	if len(text) > 3 && text[2] == ':' {
		return text[:2], nil
	}
	return "en", nil
}

func newTestClassifier() *language.Classifier {
	return language.NewClassifier(prefixDetector{}, "en")
}

func threads(videoID string, texts ...string) []youtubemodel.CommentThread {
	out := make([]youtubemodel.CommentThread, 0, len(texts))
	for _, text := range texts {
		out = append(out, youtubemodel.CommentThread{
			VideoID:     videoID,
			Text:        text,
			AuthorName:  "author-" + text,
			PublishedAt: "2025-01-01T00:00:00Z",
		})
	}
	return out
}

var errBoom = errors.New("boom")
