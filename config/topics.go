package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTopicSet is used when neither topics nor a topics file is configured.
const DefaultTopicSet = "news"

// TopicSets are the curated search queries, grouped by content category.
var TopicSets = map[string][]string{
	"funny": {
		"Viral Video", "Challenge Video", "Funny Clip", "Meme Compilation", "TikTok Compilation", "Funny Shorts",
	},
	"tech": {
		"Gadget Review", "Smartphone Review", "Software Tutorial", "Gaming Let's Play", "Game Walkthrough",
		"Game Tutorial", "Tech News", "Startup Presentation", "Technology Updates",
	},
	"education": {
		"Tutorial Video", "How-to Video", "Instruction Video", "Physics Experiment", "Biology Channel",
		"Technology Knowledge", "Learn Languages", "Language Learning", "Vocabulary Tutorial",
		"History Documentary", "Historical Documentary", "Documentary Channel",
	},
	"entertainment": {
		"Music Video", "Pop Song Video", "Top Charts 2025", "Movie Trailer", "TV Series Trailer",
		"Blockbuster Trailer", "Comedy Sketch", "Stand-up Comedy", "Funny Videos", "Gaming Let's Play",
		"Funny Gaming Moments", "Game Clips",
	},
	"sport": {
		"Sports Highlight", "Sports Live Clip", "Goal Video", "Training Tutorial", "Fitness Exercise",
		"Workout Video", "Sports Analysis", "Game Commentary", "Tactics Video",
	},
	"lifestyle": {
		"Daily Vlog", "YouTuber Vlog", "Lifestyle Vlog", "Travel Adventure", "Travel Vlog", "Backpacking Video",
		"Fitness Training", "Nutrition Tips", "Health Video", "Fashion Tips", "Beauty Tutorial", "Fashion Haul",
	},
	"news": {
		"News Clip", "Breaking News", "Daily News", "Talk Show Highlights", "Political Debate", "Discussion Show",
		"Political Analysis", "Political Commentary", "Opinion Video", "NGO Video", "Activism Channel",
		"Charity Video",
	},
}

// TopicSetNames returns the names of the built-in topic sets in sorted order.
func TopicSetNames() []string {
	names := make([]string, 0, len(TopicSets))
	for name := range TopicSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type topicsDocument struct {
	Topics []string `yaml:"topics"`
}

// LoadTopicsFile reads topics from a YAML file. The file holds either a plain
// sequence of strings or a mapping with a "topics" sequence. Blank entries are dropped.
func LoadTopicsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topics file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse topics file %s: %w", path, err)
	}

	if len(node.Content) == 0 {
		return nil, fmt.Errorf("topics file %s contains no topics", path)
	}

	var raw []string
	if node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode topics list in %s: %w", path, err)
		}
	} else {
		var doc topicsDocument
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode topics document in %s: %w", path, err)
		}
		raw = doc.Topics
	}

	topics := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	if len(topics) == 0 {
		return nil, fmt.Errorf("topics file %s contains no topics", path)
	}
	return topics, nil
}
