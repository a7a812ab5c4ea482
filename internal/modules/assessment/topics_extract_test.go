package assessment

import (
	"context"
	"net/http"
	"testing"
)

func TestExtractTopics(t *testing.T) {
	ai := &fakeAI{resp: "Here are the topics:\n```json\n" + `{
		"coreTopics": [
			{"id": 1, "title": "Fundamental Rights", "importance": "Alta", "keyPoints": ["a", "b"], "difficulty": 2},
			{"id": 2, "title": "Separation of Powers", "importance": "Alta", "keyPoints": ["c"], "difficulty": 3}
		]
	}` + "\n```"}
	u := New(UsecasesDeps{AI: ai})

	topics, err := u.extractTopics(context.Background(), "study material")
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 2 || topics[0].Title != "Fundamental Rights" {
		t.Fatalf("unexpected topics: %+v", topics)
	}
}

func TestExtractTopicsEmptyFails(t *testing.T) {
	ai := &fakeAI{resp: `{"coreTopics": []}`}
	u := New(UsecasesDeps{AI: ai})

	_, err := u.extractTopics(context.Background(), "study material")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := statusOf(t, err); got != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", got)
	}
}

func TestExtractTopicsRejectsInvalidTopic(t *testing.T) {
	ai := &fakeAI{resp: `{"coreTopics": [{"id": 1, "title": "Valid", "difficulty": 2}, {"id": 1, "title": "Duplicate id", "difficulty": 9}]}`}
	u := New(UsecasesDeps{AI: ai})

	if _, err := u.extractTopics(context.Background(), "study material"); err == nil {
		t.Fatal("expected validation error for malformed topic")
	}
}
