// Package state persists comment records: the JSON collection file that is the
// pipeline's output, and optional mirrors fed one video at a time.
package state

import (
	"context"

	"github.com/researchaccelerator-hub/yt-comment-harvester/model"
)

// CommentStore loads and saves the whole comment collection.
type CommentStore interface {
	// Load returns the stored records. A missing or unreadable collection yields
	// an empty slice, not an error.
	Load(ctx context.Context) ([]model.CommentRecord, error)

	// Save replaces the stored collection with records.
	Save(ctx context.Context, records []model.CommentRecord) error
}

// RecordSink receives the kept records of each video as soon as it finishes.
type RecordSink interface {
	// Name identifies the sink in logs.
	Name() string

	// Write stores the records collected for videoID.
	Write(ctx context.Context, videoID string, records []model.CommentRecord) error

	// Close releases the sink's connection.
	Close(ctx context.Context) error
}
