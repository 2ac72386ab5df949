// Package config provides configuration structures for the comment harvester
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingAPIKey is returned by Validate when no YouTube API key was supplied.
var ErrMissingAPIKey = errors.New("YOUTUBE_API_KEY not found, check the environment or .env file")

// API limits for page sizes
const (
	MaxSearchPageSize  = 50
	MaxCommentPageSize = 100
)

// CollectorConfig holds configuration for both pipeline stages
type CollectorConfig struct {
	YouTubeAPIKey string `mapstructure:"youtube_api_key" yaml:"-" json:"-"`

	// Files
	VideoIDsFile string `mapstructure:"video_ids_file" yaml:"video_ids_file" json:"video_ids_file"`
	CommentsFile string `mapstructure:"comments_file" yaml:"comments_file" json:"comments_file"`

	// Discovery
	TopicSet       string   `mapstructure:"topic_set" yaml:"topic_set" json:"topic_set"`
	TopicsFile     string   `mapstructure:"topics_file" yaml:"topics_file" json:"topics_file"`
	Topics         []string `mapstructure:"topics" yaml:"topics" json:"topics"`
	PerTopicCap    int      `mapstructure:"per_topic_cap" yaml:"per_topic_cap" json:"per_topic_cap"`
	SearchPageSize int      `mapstructure:"search_page_size" yaml:"search_page_size" json:"search_page_size"`
	FailFast       bool     `mapstructure:"fail_fast" yaml:"fail_fast" json:"fail_fast"`

	// Ingestion
	PerVideoCap     int    `mapstructure:"per_video_cap" yaml:"per_video_cap" json:"per_video_cap"`
	CommentPageSize int    `mapstructure:"comment_page_size" yaml:"comment_page_size" json:"comment_page_size"`
	TargetLanguage  string `mapstructure:"target_language" yaml:"target_language" json:"target_language"`
	Report          bool   `mapstructure:"report" yaml:"report" json:"report"`
	Checkpoint      bool   `mapstructure:"checkpoint" yaml:"checkpoint" json:"checkpoint"`
	SkipIngested    bool   `mapstructure:"skip_ingested" yaml:"skip_ingested" json:"skip_ingested"`

	// API client
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" json:"request_timeout"`

	// Optional mirrors and events
	MongoURI          string `mapstructure:"mongo_uri" yaml:"mongo_uri" json:"-"`
	MongoDatabase     string `mapstructure:"mongo_database" yaml:"mongo_database" json:"mongo_database"`
	MongoCollection   string `mapstructure:"mongo_collection" yaml:"mongo_collection" json:"mongo_collection"`
	SQLitePath        string `mapstructure:"sqlite_path" yaml:"sqlite_path" json:"sqlite_path"`
	NATSUrl           string `mapstructure:"nats_url" yaml:"nats_url" json:"nats_url"`
	NATSSubjectPrefix string `mapstructure:"nats_subject_prefix" yaml:"nats_subject_prefix" json:"nats_subject_prefix"`
	PushgatewayURL    string `mapstructure:"pushgateway_url" yaml:"pushgateway_url" json:"pushgateway_url"`
	MetricsJob        string `mapstructure:"metrics_job" yaml:"metrics_job" json:"metrics_job"`
}

// DefaultCollectorConfig returns a configuration with sensible defaults
func DefaultCollectorConfig() *CollectorConfig {
	return &CollectorConfig{
		VideoIDsFile:      "video_ids.txt",
		CommentsFile:      "comments.json",
		TopicSet:          DefaultTopicSet,
		PerTopicCap:       100,
		SearchPageSize:    MaxSearchPageSize,
		PerVideoCap:       1000,
		CommentPageSize:   MaxCommentPageSize,
		TargetLanguage:    "en",
		Report:            true,
		RequestTimeout:    30 * time.Second,
		MongoDatabase:     "ytcomments",
		MongoCollection:   "comments",
		NATSSubjectPrefix: "ytcomments",
		MetricsJob:        "ytcomments",
	}
}

// Validate checks if the configuration is valid
func (c *CollectorConfig) Validate() error {
	if c.YouTubeAPIKey == "" {
		return ErrMissingAPIKey
	}

	if c.PerTopicCap < 1 {
		return fmt.Errorf("per_topic_cap must be at least 1")
	}

	if c.PerVideoCap < 1 {
		return fmt.Errorf("per_video_cap must be at least 1")
	}

	if c.SearchPageSize < 1 || c.SearchPageSize > MaxSearchPageSize {
		return fmt.Errorf("search_page_size must be between 1 and %d", MaxSearchPageSize)
	}

	if c.CommentPageSize < 1 || c.CommentPageSize > MaxCommentPageSize {
		return fmt.Errorf("comment_page_size must be between 1 and %d", MaxCommentPageSize)
	}

	if c.TargetLanguage == "" {
		return fmt.Errorf("target_language cannot be empty")
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second cannot be negative")
	}

	if c.VideoIDsFile == "" {
		return fmt.Errorf("video_ids_file cannot be empty")
	}

	if c.CommentsFile == "" {
		return fmt.Errorf("comments_file cannot be empty")
	}

	if c.MongoURI != "" && (c.MongoDatabase == "" || c.MongoCollection == "") {
		return fmt.Errorf("mongo_uri requires mongo_database and mongo_collection")
	}

	return nil
}

// ResolveTopics returns the topics discovery should query: the explicit list,
// then the topics file, then the named built-in set.
func (c *CollectorConfig) ResolveTopics() ([]string, error) {
	if len(c.Topics) > 0 {
		return c.Topics, nil
	}
	if c.TopicsFile != "" {
		return LoadTopicsFile(c.TopicsFile)
	}
	topics, ok := TopicSets[c.TopicSet]
	if !ok {
		return nil, fmt.Errorf("unknown topic set '%s', must be one of: %v", c.TopicSet, TopicSetNames())
	}
	return topics, nil
}
