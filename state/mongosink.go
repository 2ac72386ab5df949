package state

import (
	"context"
	"fmt"
	"time"

	"github.com/researchaccelerator-hub/yt-comment-harvester/model"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSink mirrors kept records into a MongoDB collection.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSink connects to uri and verifies the connection.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	log.Info().Str("database", database).Str("collection", collection).Msg("Mongo mirror connected")
	return &MongoSink{client: client, collection: coll}, nil
}

func (s *MongoSink) Name() string { return "mongo" }

// Write inserts the records of one video. Nothing is sent for an empty batch.
func (s *MongoSink) Write(ctx context.Context, videoID string, records []model.CommentRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, r)
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert comments for %s: %w", videoID, err)
	}
	return nil
}

// CountVideo returns how many mirrored records belong to videoID.
func (s *MongoSink) CountVideo(ctx context.Context, videoID string) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"videoId": videoID})
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
