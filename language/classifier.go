package language

import (
	"github.com/researchaccelerator-hub/yt-comment-harvester/metrics"
	"github.com/rs/zerolog/log"
)

// DefaultTarget is the language kept when none is configured.
const DefaultTarget = "en"

// Classifier decides whether a text is written in the target language.
type Classifier struct {
	detector Detector
	target   string
}

// NewClassifier returns a classifier for target using detector.
func NewClassifier(detector Detector, target string) *Classifier {
	if target == "" {
		target = DefaultTarget
	}
	return &Classifier{detector: detector, target: target}
}

// Target returns the language code this classifier keeps.
func (c *Classifier) Target() string {
	return c.target
}

// Classify reports whether text is in the target language. Detection failures count as
// non-matching. When tally is non-nil the detected code, or Unknown, is recorded.
func (c *Classifier) Classify(text string, tally *Tally) bool {
	code, err := c.detector.Detect(text)
	if err != nil {
		log.Debug().Err(err).Msg("Language detection failed")
		code = Unknown
	}

	if tally != nil {
		tally.Add(code)
	}
	metrics.CommentsClassifiedTotal.WithLabelValues(code).Inc()

	return err == nil && code == c.target
}
