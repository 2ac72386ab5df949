package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/researchaccelerator-hub/yt-comment-harvester/model"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// SQLiteSink mirrors kept records into a local SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initCommentSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	log.Info().Str("path", path).Msg("SQLite mirror opened")
	return &SQLiteSink{db: db}, nil
}

func initCommentSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS comments (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id          TEXT NOT NULL,
		comment           TEXT NOT NULL,
		author            TEXT NOT NULL,
		author_channel_id TEXT,
		published_at      TEXT NOT NULL,
		like_count        INTEGER NOT NULL DEFAULT 0,
		reply_count       INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments(video_id)`)
	return err
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// Write inserts the records of one video in a single transaction.
func (s *SQLiteSink) Write(ctx context.Context, videoID string, records []model.CommentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO comments
		(video_id, comment, author, author_channel_id, published_at, like_count, reply_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var channelID sql.NullString
		if r.AuthorChannelID != nil {
			channelID = sql.NullString{String: *r.AuthorChannelID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, r.VideoID, r.Comment, r.Author, channelID, r.PublishedAt, r.LikeCount, r.ReplyCount); err != nil {
			return fmt.Errorf("sqlite: insert comment for %s: %w", videoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit %s: %w", videoID, err)
	}
	return nil
}

// Records returns the mirrored records for videoID in insertion order.
func (s *SQLiteSink) Records(ctx context.Context, videoID string) ([]model.CommentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT video_id, comment, author, author_channel_id, published_at, like_count, reply_count
		FROM comments WHERE video_id = ? ORDER BY id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query %s: %w", videoID, err)
	}
	defer rows.Close()

	var out []model.CommentRecord
	for rows.Next() {
		var r model.CommentRecord
		var channelID sql.NullString
		if err := rows.Scan(&r.VideoID, &r.Comment, &r.Author, &channelID, &r.PublishedAt, &r.LikeCount, &r.ReplyCount); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		if channelID.Valid {
			id := channelID.String
			r.AuthorChannelID = &id
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close(_ context.Context) error {
	return s.db.Close()
}
