package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *CollectorConfig {
	cfg := DefaultCollectorConfig()
	cfg.YouTubeAPIKey = "test-key"
	return cfg
}

func TestDefaultCollectorConfig(t *testing.T) {
	cfg := DefaultCollectorConfig()

	assert.Equal(t, "video_ids.txt", cfg.VideoIDsFile)
	assert.Equal(t, "comments.json", cfg.CommentsFile)
	assert.Equal(t, 100, cfg.PerTopicCap)
	assert.Equal(t, 1000, cfg.PerVideoCap)
	assert.Equal(t, 50, cfg.SearchPageSize)
	assert.Equal(t, 100, cfg.CommentPageSize)
	assert.Equal(t, "en", cfg.TargetLanguage)
	assert.True(t, cfg.Report)
	assert.False(t, cfg.Checkpoint)
	assert.False(t, cfg.FailFast)
}

func TestCollectorConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CollectorConfig)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(c *CollectorConfig) {}},
		{name: "missing api key", mutate: func(c *CollectorConfig) { c.YouTubeAPIKey = "" }, wantErr: "YOUTUBE_API_KEY"},
		{name: "zero topic cap", mutate: func(c *CollectorConfig) { c.PerTopicCap = 0 }, wantErr: "per_topic_cap"},
		{name: "zero video cap", mutate: func(c *CollectorConfig) { c.PerVideoCap = 0 }, wantErr: "per_video_cap"},
		{name: "search page too large", mutate: func(c *CollectorConfig) { c.SearchPageSize = 51 }, wantErr: "search_page_size"},
		{name: "comment page too large", mutate: func(c *CollectorConfig) { c.CommentPageSize = 101 }, wantErr: "comment_page_size"},
		{name: "empty language", mutate: func(c *CollectorConfig) { c.TargetLanguage = "" }, wantErr: "target_language"},
		{name: "negative rate", mutate: func(c *CollectorConfig) { c.RequestsPerSecond = -1 }, wantErr: "requests_per_second"},
		{name: "mongo without collection", mutate: func(c *CollectorConfig) {
			c.MongoURI = "mongodb://localhost:27017"
			c.MongoCollection = ""
		}, wantErr: "mongo_uri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MissingKeyIsSentinel(t *testing.T) {
	cfg := DefaultCollectorConfig()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}

func TestResolveTopics(t *testing.T) {
	t.Run("explicit list wins", func(t *testing.T) {
		cfg := validConfig()
		cfg.Topics = []string{"x"}
		cfg.TopicSet = "tech"
		topics, err := cfg.ResolveTopics()
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, topics)
	})

	t.Run("named set", func(t *testing.T) {
		cfg := validConfig()
		cfg.TopicSet = "sport"
		topics, err := cfg.ResolveTopics()
		require.NoError(t, err)
		assert.Equal(t, TopicSets["sport"], topics)
	})

	t.Run("unknown set", func(t *testing.T) {
		cfg := validConfig()
		cfg.TopicSet = "cooking"
		_, err := cfg.ResolveTopics()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown topic set")
	})

	t.Run("topics file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "topics.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- Cat Videos\n- Dog Videos\n"), 0o644))
		cfg := validConfig()
		cfg.TopicsFile = path
		topics, err := cfg.ResolveTopics()
		require.NoError(t, err)
		assert.Equal(t, []string{"Cat Videos", "Dog Videos"}, topics)
	})
}

func TestLoadTopicsFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{name: "plain list", content: "- a\n- b\n", want: []string{"a", "b"}},
		{name: "mapping", content: "topics:\n  - a\n  - \"  \"\n  - c\n", want: []string{"a", "c"}},
		{name: "empty file", content: "", wantErr: true},
		{name: "no topics", content: "topics: []\n", wantErr: true},
		{name: "invalid yaml", content: "topics: [a, b\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "topics.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := LoadTopicsFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadTopicsFile_Missing(t *testing.T) {
	_, err := LoadTopicsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestTopicSetNames(t *testing.T) {
	names := TopicSetNames()
	assert.Equal(t, []string{"education", "entertainment", "funny", "lifestyle", "news", "sport", "tech"}, names)
	assert.Contains(t, TopicSets, DefaultTopicSet)
}
