package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/researchaccelerator-hub/yt-comment-harvester/common"
	"github.com/researchaccelerator-hub/yt-comment-harvester/model"
	"github.com/rs/zerolog/log"
)

// JSONFileStore keeps the collection as one indented JSON array in a file.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore returns a store backed by path.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the file backing the store.
func (s *JSONFileStore) Path() string { return s.path }

// Load reads the collection. A missing file, an empty file, or content that is
// not a JSON array of records all start a fresh collection.
func (s *JSONFileStore) Load(_ context.Context) ([]model.CommentRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("file", s.path).Msg("No existing comments file, starting fresh")
		return []model.CommentRecord{}, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("file", s.path).Msg("Could not read comments file, starting fresh")
		return []model.CommentRecord{}, nil
	}

	var records []model.CommentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn().Err(err).Str("file", s.path).Msg("Comments file is not valid JSON, starting fresh")
		return []model.CommentRecord{}, nil
	}
	if records == nil {
		records = []model.CommentRecord{}
	}

	log.Info().Str("file", s.path).Int("count", len(records)).Msg("Loaded existing comments")
	return records, nil
}

// Save writes records as an indented JSON array, replacing the file. Non-ASCII
// and HTML characters are written as-is.
func (s *JSONFileStore) Save(_ context.Context, records []model.CommentRecord) error {
	if records == nil {
		records = []model.CommentRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode comments: %w", err)
	}

	if err := common.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save comments to %s: %w", s.path, err)
	}

	log.Info().Str("file", s.path).Int("count", len(records)).Msg("Saved comments")
	return nil
}
