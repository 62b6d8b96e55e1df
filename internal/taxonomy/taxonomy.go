// Package taxonomy holds the static retail-domain topic corpus. The taxonomy
// is loaded once at startup and treated as immutable; every component that
// needs topic metadata receives a *Taxonomy rather than reaching for globals.
package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic is a taxonomy node. It doubles as the last-resort knowledge passage
// when every retrieval tier comes back empty.
type Topic struct {
	ID                string   `yaml:"id"`
	Keywords          []string `yaml:"keywords"`
	LocalizedKeywords []string `yaml:"localized_keywords"`
	SearchHint        string   `yaml:"search_hint"`
	PassageContent    string   `yaml:"passage"`
	RelatedTopicIDs   []string `yaml:"related"`
}

// Taxonomy is an ordered, read-only collection of topics. Order matters:
// classification ties resolve to the earlier topic.
type Taxonomy struct {
	topics         []Topic
	byID           map[string]int
	vocabulary     map[string]struct{}
	defaultTopicID string
}

// New builds a taxonomy from an ordered topic list.
func New(topics []Topic, defaultTopicID string) (*Taxonomy, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("taxonomy requires at least one topic")
	}

	byID := make(map[string]int, len(topics))
	vocab := make(map[string]struct{})
	for i, t := range topics {
		if t.ID == "" {
			return nil, fmt.Errorf("topic at index %d has no id", i)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id %q", t.ID)
		}
		byID[t.ID] = i
		for _, kw := range t.Keywords {
			vocab[strings.ToLower(kw)] = struct{}{}
		}
		for _, kw := range t.LocalizedKeywords {
			vocab[kw] = struct{}{}
		}
	}

	if defaultTopicID == "" {
		defaultTopicID = topics[0].ID
	}
	if _, ok := byID[defaultTopicID]; !ok {
		return nil, fmt.Errorf("default topic %q not in taxonomy", defaultTopicID)
	}

	return &Taxonomy{
		topics:         topics,
		byID:           byID,
		vocabulary:     vocab,
		defaultTopicID: defaultTopicID,
	}, nil
}

// Topics returns the topics in declaration order. Callers must not mutate.
func (tx *Taxonomy) Topics() []Topic {
	return tx.topics
}

// ByID looks up a topic by id.
func (tx *Taxonomy) ByID(id string) (Topic, bool) {
	i, ok := tx.byID[id]
	if !ok {
		return Topic{}, false
	}
	return tx.topics[i], true
}

// DefaultTopicID returns the topic used when nothing scores.
func (tx *Taxonomy) DefaultTopicID() string {
	return tx.defaultTopicID
}

// HasKeyword reports whether the term belongs to any topic's keyword
// vocabulary. Latin terms are compared case-insensitively.
func (tx *Taxonomy) HasKeyword(term string) bool {
	if _, ok := tx.vocabulary[term]; ok {
		return true
	}
	_, ok := tx.vocabulary[strings.ToLower(term)]
	return ok
}

// Len returns the number of topics.
func (tx *Taxonomy) Len() int {
	return len(tx.topics)
}

type taxonomyFile struct {
	DefaultTopic string  `yaml:"default_topic"`
	Topics       []Topic `yaml:"topics"`
}

// Load reads a taxonomy from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}

	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}

	return New(f.Topics, f.DefaultTopic)
}
