package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Topic is one essential subject extracted from the study material. Topics
// are embedded in the session as a JSON snapshot and validated on parse,
// never trusted at use time.
type Topic struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Importance string   `json:"importance"`
	KeyPoints  []string `json:"keyPoints"`
	Difficulty int      `json:"difficulty"`
}

func (t Topic) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("topic id %d: must be positive", t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("topic %d: empty title", t.ID)
	}
	if t.Difficulty < 1 || t.Difficulty > 5 {
		return fmt.Errorf("topic %d: difficulty %d out of range [1,5]", t.ID, t.Difficulty)
	}
	return nil
}

// ParseTopics decodes and validates a topic snapshot. Duplicate ids are
// rejected so downstream set operations stay well defined.
func ParseTopics(raw []byte) ([]Topic, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty topic snapshot")
	}
	var topics []Topic
	if err := json.Unmarshal(raw, &topics); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("topic snapshot has no topics")
	}
	seen := make(map[int]bool, len(topics))
	for _, t := range topics {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate topic id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return topics, nil
}

// EncodeTopics serializes a validated topic list for storage.
func EncodeTopics(topics []Topic) ([]byte, error) {
	for _, t := range topics {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return json.Marshal(topics)
}
