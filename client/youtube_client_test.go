package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/researchaccelerator-hub/yt-comment-harvester/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

func TestNewYouTubeDataClient(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr bool
	}{
		{name: "valid API key", apiKey: "test-api-key-12345"},
		{name: "empty API key", apiKey: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewYouTubeDataClient(tt.apiKey, ClientConfig{})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.apiKey, client.apiKey)
			assert.NotNil(t, client.limiter)
		})
	}
}

func TestYouTubeDataClient_NotConnected(t *testing.T) {
	client, err := NewYouTubeDataClient("test-key", ClientConfig{})
	require.NoError(t, err)

	_, err = client.SearchVideos(context.Background(), "q", "", 50)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = client.ListCommentThreads(context.Background(), "v1", "", 100)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestYouTubeDataClient_Disconnect(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())
	require.NotNil(t, client.service)

	require.NoError(t, client.Disconnect(context.Background()))
	assert.Nil(t, client.service)
}

// newTestClient connects a client to a fake Data API served by handler.
func newTestClient(t *testing.T, handler http.Handler) *YouTubeDataClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewYouTubeDataClient("test-key", ClientConfig{RequestTimeout: 5 * time.Second},
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	require.NoError(t, client.Connect(context.Background()))
	return client
}

func TestYouTubeDataClient_SearchVideos(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/search"), r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":          q.Get("q"),
			"type":       q.Get("type"),
			"maxResults": q.Get("maxResults"),
			"pageToken":  q.Get("pageToken"),
			"part":       q.Get("part"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"nextPageToken": "NEXT",
			"items": [
				{"id": {"kind": "youtube#video", "videoId": "v1"}},
				{"id": {"kind": "youtube#video", "videoId": "v2"}},
				{"id": {"kind": "youtube#channel", "channelId": "UC1"}}
			]
		}`)
	}))

	page, err := client.SearchVideos(context.Background(), "Tech News", "TOKEN", 50)
	require.NoError(t, err)

	assert.Equal(t, []string{"v1", "v2"}, page.VideoIDs)
	assert.Equal(t, "NEXT", page.NextPageToken)
	assert.Equal(t, "Tech News", gotQuery["q"])
	assert.Equal(t, "video", gotQuery["type"])
	assert.Equal(t, "50", gotQuery["maxResults"])
	assert.Equal(t, "TOKEN", gotQuery["pageToken"])
	assert.Equal(t, "id", gotQuery["part"])
}

func TestYouTubeDataClient_ListCommentThreads(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/commentThreads"), r.URL.Path)
		assert.Equal(t, "v1", r.URL.Query().Get("videoId"))
		assert.Equal(t, "plainText", r.URL.Query().Get("textFormat"))
		assert.Equal(t, "100", r.URL.Query().Get("maxResults"))
		assert.Empty(t, r.URL.Query().Get("pageToken"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"items": [
				{"snippet": {
					"totalReplyCount": 4,
					"topLevelComment": {"snippet": {
						"textDisplay": "Nice one",
						"authorDisplayName": "@alice",
						"authorChannelId": {"value": "UCalice"},
						"publishedAt": "2025-03-01T10:00:00Z",
						"likeCount": 7
					}}
				}},
				{"snippet": {
					"topLevelComment": {"snippet": {
						"textDisplay": "Hallo",
						"authorDisplayName": "@bob"
					}}
				}},
				{"snippet": {}}
			]
		}`)
	}))

	page, err := client.ListCommentThreads(context.Background(), "v1", "", 100)
	require.NoError(t, err)
	require.Len(t, page.Threads, 2)
	assert.Empty(t, page.NextPageToken)

	first := page.Threads[0]
	assert.Equal(t, "v1", first.VideoID)
	assert.Equal(t, "Nice one", first.Text)
	assert.Equal(t, "@alice", first.AuthorName)
	assert.Equal(t, "UCalice", first.AuthorChannelID)
	assert.Equal(t, "2025-03-01T10:00:00Z", first.PublishedAt)
	assert.EqualValues(t, 7, first.LikeCount)
	assert.EqualValues(t, 4, first.ReplyCount)

	second := page.Threads[1]
	assert.Empty(t, second.AuthorChannelID)
	assert.Zero(t, second.LikeCount)
	assert.Zero(t, second.ReplyCount)
}

func TestYouTubeDataClient_APIErrorReason(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {
			"code": 403,
			"message": "The video identified by the videoId parameter has disabled comments.",
			"errors": [{"domain": "youtube.commentThread", "reason": "commentsDisabled", "message": "disabled"}]
		}}`)
	}))

	_, err := client.ListCommentThreads(context.Background(), "v1", "", 100)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, EndpointCommentThreads, apiErr.Op)
	assert.Equal(t, "commentsDisabled", Reason(err))
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("connection reset"), want: "connection reset"},
		{
			name: "google error with reason",
			err:  &APIError{Op: "search", Err: &googleapi.Error{Code: 403, Message: "quota", Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}},
			want: "quotaExceeded",
		},
		{
			name: "google error message only",
			err:  &googleapi.Error{Code: 404, Message: " video not found "},
			want: "video not found",
		},
		{
			name: "wrapped plain error",
			err:  &APIError{Op: "search", Err: context.DeadlineExceeded},
			want: "youtube search: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reason(tt.err))
		})
	}
}

func TestNewConnectedClient(t *testing.T) {
	cfg := config.DefaultCollectorConfig()
	cfg.YouTubeAPIKey = ""
	_, err := NewConnectedClient(context.Background(), cfg)
	assert.Error(t, err)

	cfg.YouTubeAPIKey = "k"
	c, err := NewConnectedClient(context.Background(), cfg, option.WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)
	assert.NotNil(t, c.service)
	assert.Equal(t, cfg.RequestTimeout, c.requestTimeout)
}
