// Package language classifies comment text by detected language and tallies the results.
package language

import (
	"errors"
	"strings"

	"github.com/RadhiFadlillah/whatlanggo"
)

// Unknown is the tally bucket for text the detector could not classify.
const Unknown = "unknown"

// ErrUndetectable is returned when the text carries no usable language features.
var ErrUndetectable = errors.New("no language features in text")

// Detector returns the ISO 639-1 code of the language of text.
type Detector interface {
	Detect(text string) (string, error)
}

// WhatlangDetector detects languages with trigram statistics from whatlanggo.
type WhatlangDetector struct {
	// MinConfidence rejects detections below this confidence (0..1). Zero accepts any detection.
	MinConfidence float64
}

// NewWhatlangDetector returns a detector that accepts any detection.
func NewWhatlangDetector() *WhatlangDetector {
	return &WhatlangDetector{}
}

// Detect implements Detector.
func (d *WhatlangDetector) Detect(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrUndetectable
	}

	info := whatlanggo.Detect(text)
	if info.Script == nil || info.Confidence <= 0 || info.Confidence < d.MinConfidence {
		return "", ErrUndetectable
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return "", ErrUndetectable
	}
	return code, nil
}
