package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// TopicSet is the weak-topic membership set. It is an actual set: adding an
// existing id or removing a missing one is a no-op, and the serialized form
// never contains duplicates.
type TopicSet struct {
	members map[int]struct{}
}

func NewTopicSet(ids ...int) TopicSet {
	s := TopicSet{members: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.members[id] = struct{}{}
	}
	return s
}

func (s *TopicSet) Add(id int) {
	if s.members == nil {
		s.members = make(map[int]struct{})
	}
	s.members[id] = struct{}{}
}

func (s *TopicSet) Remove(id int) {
	delete(s.members, id)
}

func (s TopicSet) Contains(id int) bool {
	_, ok := s.members[id]
	return ok
}

func (s TopicSet) Len() int { return len(s.members) }

// IDs returns the members in ascending order.
func (s TopicSet) IDs() []int {
	out := make([]int, 0, len(s.members))
	for id := range s.members {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (s TopicSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *TopicSet) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("decode topic set: %w", err)
	}
	*s = NewTopicSet(ids...)
	return nil
}
