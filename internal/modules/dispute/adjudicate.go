package dispute

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/apierr"
	"github.com/provaloop/studyloop-backend/internal/platform/modeljson"
)

const (
	adjudicateMaxTokens = 2000
	excerptPromptLimit  = 500
)

// verdict is the adjudicator's structured response. decision is the only
// field whose absence aborts the run; confidence defaults to 0, which the
// gate treats as an automatic rejection.
type verdict struct {
	Decision           *string  `json:"decision"`
	Confidence         float64  `json:"confidence"`
	Analysis           string   `json:"analysis"`
	Reasoning          string   `json:"reasoning"`
	SuggestedAnswer    *bool    `json:"suggested_answer"`
	UpdatedExplanation string   `json:"updated_explanation"`
	KeySources         []string `json:"key_sources"`
}

func formatEvidence(snap domain.EvidenceSnapshot) string {
	var b strings.Builder
	if snap.AnswerSummary != "" {
		fmt.Fprintf(&b, "SEARCH SUMMARY:\n%s\n\n", snap.AnswerSummary)
	}
	b.WriteString("DETAILED SOURCES:\n")
	for i, src := range snap.Sources {
		fmt.Fprintf(&b, "\n[Source %d] %s\n", i+1, src.Title)
		fmt.Fprintf(&b, "URL: %s\n", src.URL)
		fmt.Fprintf(&b, "Content: %s...\n", truncateRunes(src.Excerpt, excerptPromptLimit))
		fmt.Fprintf(&b, "Relevance: %d%%\n", int(math.Round(src.Score*100)))
	}
	return b.String()
}

func answerLabel(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func adjudicationPrompt(q *domain.Question, argument string, snap domain.EvidenceSnapshot) string {
	var b strings.Builder
	b.WriteString("You are an adjudication agent specialized in validating answer keys of CESPE-style true/false questions.\n\n")
	b.WriteString("ORIGINAL QUESTION:\n")
	fmt.Fprintf(&b, "Statement: %s\n", q.Statement)
	fmt.Fprintf(&b, "Current answer key: %s\n", answerLabel(q.CorrectAnswer))
	fmt.Fprintf(&b, "Current explanation: %s\n", q.Explanation)
	fmt.Fprintf(&b, "Concept tested: %s\n\n", q.KeyConcept)
	b.WriteString("LEARNER'S CHALLENGE:\n")
	b.WriteString(argument)
	b.WriteString("\n\nWEB SOURCES:\n")
	b.WriteString(formatEvidence(snap))
	b.WriteString(`

INSTRUCTIONS:
1. Analyze the learner's challenge carefully
2. Weigh the web sources found
3. Check whether the original answer key is wrong
4. If the learner is right, suggest the corrected key and a new explanation
5. If the learner is wrong, explain why the key stands

Return ONLY JSON (no markdown):
{
  "decision": "accepted" or "rejected",
  "confidence": 0.0 to 1.0,
  "analysis": "detailed analysis of the challenge",
  "reasoning": "reasoning grounded in the web sources",
  "suggested_answer": true or false (only when decision = accepted),
  "updated_explanation": "new explanation" (only when decision = accepted),
  "key_sources": ["source1", "source2"]
}

IMPORTANT:
- Be rigorous: only accept when certain
- Confidence below 0.7 means automatic rejection
- Cite the web sources in the analysis
- Keep the tone instructive and respectful`)
	return b.String()
}

// adjudicate sends the dispute to the text-generation collaborator and
// parses the structured verdict.
func (u Usecases) adjudicate(ctx context.Context, q *domain.Question, argument string, snap domain.EvidenceSnapshot) (verdict, error) {
	raw, err := u.deps.AI.Generate(ctx, adjudicationPrompt(q, argument, snap), adjudicateMaxTokens)
	if err != nil {
		return verdict{}, apierr.External("adjudication_unavailable", err)
	}

	var v verdict
	if err := modeljson.Decode(raw, &v); err != nil {
		return verdict{}, apierr.Validation("verdict_invalid_response", err)
	}
	if v.Decision == nil {
		return verdict{}, apierr.Validation("verdict_invalid_response",
			fmt.Errorf("verdict missing decision field"))
	}
	return v, nil
}
