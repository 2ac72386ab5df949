package state

import (
	"context"
	"fmt"

	"github.com/researchaccelerator-hub/yt-comment-harvester/config"
	"github.com/researchaccelerator-hub/yt-comment-harvester/model"
	"github.com/rs/zerolog/log"
)

// NewCommentStore returns the store for the configured comments file.
func NewCommentStore(cfg *config.CollectorConfig) CommentStore {
	return NewJSONFileStore(cfg.CommentsFile)
}

// NewSinks opens every mirror the configuration enables. On error the sinks
// opened so far are closed.
func NewSinks(ctx context.Context, cfg *config.CollectorConfig) ([]RecordSink, error) {
	var sinks []RecordSink

	if cfg.MongoURI != "" {
		s, err := NewMongoSink(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if cfg.SQLitePath != "" {
		s, err := NewSQLiteSink(cfg.SQLitePath)
		if err != nil {
			CloseSinks(ctx, sinks)
			return nil, err
		}
		sinks = append(sinks, s)
	}

	return sinks, nil
}

// WriteAll hands one video's records to every sink. Failures are logged and do
// not stop the remaining sinks; the first error is returned.
func WriteAll(ctx context.Context, sinks []RecordSink, videoID string, records []model.CommentRecord) error {
	var first error
	for _, s := range sinks {
		if err := s.Write(ctx, videoID, records); err != nil {
			log.Error().Err(err).Str("sink", s.Name()).Str("video_id", videoID).Msg("Mirror write failed")
			if first == nil {
				first = fmt.Errorf("%s mirror: %w", s.Name(), err)
			}
		}
	}
	return first
}

// CloseSinks closes every sink, logging failures.
func CloseSinks(ctx context.Context, sinks []RecordSink) {
	for _, s := range sinks {
		if err := s.Close(ctx); err != nil {
			log.Error().Err(err).Str("sink", s.Name()).Msg("Failed to close mirror")
		}
	}
}
