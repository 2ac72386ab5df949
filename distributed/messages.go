// Package distributed provides the progress events a pipeline run publishes
// for downstream consumers.
package distributed

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event Types
const (
	EventDiscoveryCompleted = "discovery.completed"
	EventVideoIngested      = "video.ingested"
	EventIngestCompleted    = "ingest.completed"
)

// Status Values
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Envelope carries the fields shared by every event.
type Envelope struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
}

// DiscoveryCompleted is published once the identifier file was written.
type DiscoveryCompleted struct {
	Envelope
	Topics       int    `json:"topics"`
	FailedTopics int    `json:"failed_topics"`
	VideoIDs     int    `json:"video_ids"`
	OutputFile   string `json:"output_file"`
}

// VideoIngested is published after each video of an ingestion run.
type VideoIngested struct {
	Envelope
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
	Kept    int    `json:"kept"`
	Pages   int    `json:"pages"`
	Reason  string `json:"reason,omitempty"`
}

// IngestCompleted is published after the comments file was saved.
type IngestCompleted struct {
	Envelope
	Videos       int    `json:"videos"`
	Failed       int    `json:"failed"`
	Skipped      int    `json:"skipped"`
	Kept         int    `json:"kept"`
	TotalRecords int    `json:"total_records"`
	CommentsFile string `json:"comments_file"`
}

// Subject returns the NATS subject for eventType under prefix.
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

func newEnvelope(eventType, runID string) Envelope {
	return Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
	}
}

// NewDiscoveryCompleted creates a discovery completion event
func NewDiscoveryCompleted(runID string, topics, failedTopics, videoIDs int, outputFile string) DiscoveryCompleted {
	return DiscoveryCompleted{
		Envelope:     newEnvelope(EventDiscoveryCompleted, runID),
		Topics:       topics,
		FailedTopics: failedTopics,
		VideoIDs:     videoIDs,
		OutputFile:   outputFile,
	}
}

// NewVideoIngested creates a per-video event. Status is derived from the
// outcome: skipped, error with nothing kept, partial, or success.
func NewVideoIngested(runID, videoID string, kept, pages int, skipped bool, reason string) VideoIngested {
	status := StatusSuccess
	switch {
	case skipped:
		status = StatusSkipped
	case reason != "" && kept == 0:
		status = StatusError
	case reason != "":
		status = StatusPartial
	}

	return VideoIngested{
		Envelope: newEnvelope(EventVideoIngested, runID),
		VideoID:  videoID,
		Status:   status,
		Kept:     kept,
		Pages:    pages,
		Reason:   reason,
	}
}

// NewIngestCompleted creates an ingestion completion event
func NewIngestCompleted(runID string, videos, failed, skipped, kept, totalRecords int, commentsFile string) IngestCompleted {
	return IngestCompleted{
		Envelope:     newEnvelope(EventIngestCompleted, runID),
		Videos:       videos,
		Failed:       failed,
		Skipped:      skipped,
		Kept:         kept,
		TotalRecords: totalRecords,
		CommentsFile: commentsFile,
	}
}

// Validate validates an Envelope
func (e *Envelope) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event ID cannot be empty")
	}
	if e.RunID == "" {
		return fmt.Errorf("event run ID cannot be empty")
	}
	switch e.EventType {
	case EventDiscoveryCompleted, EventVideoIngested, EventIngestCompleted:
	default:
		return fmt.Errorf("invalid event type: %s", e.EventType)
	}
	return nil
}
