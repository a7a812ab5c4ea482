package dispute

import (
	"fmt"

	"github.com/provaloop/studyloop-backend/internal/platform/apierr"
)

// outcome is the gated final decision applied to a dispute.
type outcome struct {
	Decision           string
	Confidence         float64
	Analysis           string
	SuggestedAnswer    *bool
	UpdatedExplanation string
}

// applyDecisionGate enforces the acceptance policy. Confidence below the
// threshold overrides the adjudicator and forces a rejection; at or above
// the threshold the stated decision stands. An acceptance without a
// suggested answer cannot be applied and fails the run.
func applyDecisionGate(v verdict, threshold float64) (outcome, error) {
	decision := *v.Decision
	if v.Confidence < threshold {
		decision = "rejected"
	}

	out := outcome{
		Decision:   decision,
		Confidence: v.Confidence,
		Analysis:   v.Analysis,
	}
	if decision != "accepted" {
		out.Decision = "rejected"
		return out, nil
	}

	if v.SuggestedAnswer == nil {
		return outcome{}, apierr.Validation("verdict_invalid_response",
			fmt.Errorf("accepted verdict missing suggested_answer"))
	}
	out.SuggestedAnswer = v.SuggestedAnswer
	out.UpdatedExplanation = v.UpdatedExplanation
	return out, nil
}
