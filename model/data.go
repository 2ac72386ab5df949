package model

// CommentRecord is one persisted top-level comment. Records are only produced for
// comments whose text was classified as the target language.
type CommentRecord struct {
	VideoID         string  `json:"videoId" bson:"videoId"`
	Comment         string  `json:"comment" bson:"comment"`
	Author          string  `json:"author" bson:"author"`
	AuthorChannelID *string `json:"authorChannelId" bson:"authorChannelId,omitempty"`
	PublishedAt     string  `json:"publishedAt" bson:"publishedAt"`
	LikeCount       int64   `json:"likeCount" bson:"likeCount"`
	ReplyCount      int64   `json:"replyCount" bson:"replyCount"`
}

// VideoIDs returns the set of video identifiers present in records.
func VideoIDs(records []CommentRecord) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[r.VideoID] = struct{}{}
	}
	return ids
}
