package assessment

import (
	"fmt"
	"math/rand"

	"github.com/provaloop/studyloop-backend/internal/domain"
)

// TopicSelector picks the next topic to quiz on, biased toward recorded
// weaknesses. With probability `bias` (default 0.7) it draws uniformly from
// the weak topics; otherwise, or when the weak set is empty, it draws
// uniformly from the full list.
type TopicSelector struct {
	bias float64

	// injectable for deterministic tests
	roll func() float64
	pick func(n int) int
}

func NewTopicSelector(bias float64) *TopicSelector {
	if bias <= 0 || bias > 1 {
		bias = 0.7
	}
	return &TopicSelector{bias: bias, roll: rand.Float64, pick: rand.Intn}
}

func (s *TopicSelector) Select(topics []domain.Topic, weak domain.TopicSet) (domain.Topic, error) {
	if len(topics) == 0 {
		return domain.Topic{}, fmt.Errorf("no topics to select from")
	}

	if weak.Len() > 0 && s.roll() < s.bias {
		ids := weak.IDs()
		want := ids[s.pick(len(ids))]
		for _, t := range topics {
			if t.ID == want {
				return t, nil
			}
		}
		// weak id no longer maps to a topic; fall back to uniform
	}

	return topics[s.pick(len(topics))], nil
}
