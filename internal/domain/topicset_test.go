package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTopicSetNoDuplicates(t *testing.T) {
	s := NewTopicSet(3, 1, 3, 2)
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	s.Add(2)
	s.Add(2)
	if s.Len() != 3 {
		t.Fatalf("Add of existing member grew the set: %v", s.IDs())
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("IDs = %v", got)
	}
}

func TestTopicSetRemoveAbsent(t *testing.T) {
	s := NewTopicSet(1)
	s.Remove(42)
	if s.Len() != 1 || !s.Contains(1) {
		t.Fatalf("Remove of absent member changed the set: %v", s.IDs())
	}
	s.Remove(1)
	if s.Len() != 0 {
		t.Fatalf("set not empty after removal: %v", s.IDs())
	}
}

func TestTopicSetJSONRoundTrip(t *testing.T) {
	s := NewTopicSet(5, 2, 9)
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "[2,5,9]" {
		t.Fatalf("marshal = %s, want sorted unique ids", raw)
	}
	var back TopicSet
	if err := json.Unmarshal([]byte("[2,2,5,9]"), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 3 {
		t.Fatalf("unmarshal kept duplicates: %v", back.IDs())
	}
}

func TestParseTopics(t *testing.T) {
	raw := []byte(`[
		{"id":1,"title":"Constitutional Law","importance":"Alta","keyPoints":["a","b"],"difficulty":2},
		{"id":2,"title":"Administrative Acts","importance":"Alta","keyPoints":["c"],"difficulty":4}
	]`)
	topics, err := ParseTopics(raw)
	if err != nil {
		t.Fatalf("ParseTopics: %v", err)
	}
	if len(topics) != 2 || topics[1].Difficulty != 4 {
		t.Fatalf("unexpected topics: %+v", topics)
	}
}

func TestParseTopicsRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty list", `[]`},
		{"zero id", `[{"id":0,"title":"x","difficulty":1}]`},
		{"empty title", `[{"id":1,"title":" ","difficulty":1}]`},
		{"difficulty out of range", `[{"id":1,"title":"x","difficulty":6}]`},
		{"duplicate ids", `[{"id":1,"title":"x","difficulty":1},{"id":1,"title":"y","difficulty":2}]`},
		{"not a list", `{"id":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTopics([]byte(tc.raw)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
