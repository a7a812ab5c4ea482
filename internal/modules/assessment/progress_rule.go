package assessment

import (
	"github.com/provaloop/studyloop-backend/internal/domain"
)

// MasteryState is the mutable slice of a progress record the answer rule
// operates on. Callers persist the result.
type MasteryState struct {
	CorrectCount    int
	TotalCount      int
	DifficultyLevel int
	WeakTopics      domain.TopicSet
}

// ApplyAnswer is the deterministic mastery update run after every answered
// question. It is pure: the input state is never mutated.
//
// Difficulty moves by at most one step per answer. It rises only on a
// correct answer once at least three answers are in and rolling accuracy is
// at or above 0.7, capped at 5. It drops only on an incorrect answer,
// floored at 1. A correct answer clears the topic from the weak set; an
// incorrect answer records it.
func ApplyAnswer(st MasteryState, topicID int, isCorrect bool) MasteryState {
	out := MasteryState{
		CorrectCount:    st.CorrectCount,
		TotalCount:      st.TotalCount + 1,
		DifficultyLevel: st.DifficultyLevel,
		WeakTopics:      domain.NewTopicSet(st.WeakTopics.IDs()...),
	}

	if isCorrect {
		out.CorrectCount++
		settled := out.TotalCount >= 3 &&
			float64(out.CorrectCount)/float64(out.TotalCount) >= 0.7
		if settled && out.DifficultyLevel < 5 {
			out.DifficultyLevel++
		}
		out.WeakTopics.Remove(topicID)
	} else {
		if out.DifficultyLevel > 1 {
			out.DifficultyLevel--
		}
		out.WeakTopics.Add(topicID)
	}

	return out
}

// RecomputeCounters re-derives correct/total from scratch against the
// current answer keys. Used after an answer key changes; difficulty and the
// weak set are deliberately left alone since they track learning history,
// not the current scorecard.
func RecomputeCounters(answered []*domain.Question) (correct, total int) {
	for _, q := range answered {
		if q.UserAnswer == nil {
			continue
		}
		total++
		if *q.UserAnswer == q.CorrectAnswer {
			correct++
		}
	}
	return correct, total
}
