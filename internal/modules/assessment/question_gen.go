package assessment

import (
	"context"
	"fmt"
	"strings"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/apierr"
	"github.com/provaloop/studyloop-backend/internal/platform/modeljson"
)

// Five discrete difficulty tiers, from direct recall to elaborate traps.
var difficultyTiers = map[int]string{
	1: "Basic and direct",
	2: "Intermediate",
	3: "Advanced with subtle traps",
	4: "Very complex, mixing multiple concepts",
	5: "Expert level with elaborate traps",
}

const questionGenMaxTokens = 1500

type generatedQuestion struct {
	Statement     *string `json:"statement"`
	CorrectAnswer *bool   `json:"correctAnswer"`
	TopicID       *int    `json:"topicId"`
	Explanation   *string `json:"explanation"`
	KeyConcept    *string `json:"keyConceptTested"`
}

func questionPrompt(sourceText string, topic domain.Topic, difficulty int, weakPoint bool, sourceLimit int) string {
	weakNote := ""
	if weakPoint {
		weakNote = "IMPORTANT: this topic is a recorded weak point for the learner. Reinforce fundamentals.\n"
	}

	tier, ok := difficultyTiers[difficulty]
	if !ok {
		tier = difficultyTiers[1]
	}

	var b strings.Builder
	b.WriteString("You are a question-writing agent that produces true/false exam statements in the CESPE style.\n\n")
	b.WriteString("Reference material:\n")
	b.WriteString(truncateRunes(sourceText, sourceLimit))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Focus topic: %s\n", topic.Title)
	fmt.Fprintf(&b, "Key points: %s\n\n", strings.Join(topic.KeyPoints, ", "))
	fmt.Fprintf(&b, "Difficulty level: %d/5\n", difficulty)
	b.WriteString(weakNote)
	b.WriteString("\nWrite one statement following these guidelines:\n")
	fmt.Fprintf(&b, "- Difficulty %d: %s\n", difficulty, tier)
	b.WriteString("- Be precise and technical\n")
	b.WriteString("- Use terminology from the material itself\n")
	b.WriteString("- For difficulty 3 and above, include subtle traps\n\n")
	b.WriteString("Return ONLY JSON (no markdown):\n")
	fmt.Fprintf(&b, `{
  "statement": "the statement to judge",
  "correctAnswer": true,
  "topicId": %d,
  "explanation": "detailed explanation",
  "keyConceptTested": "main concept"
}`, topic.ID)
	return b.String()
}

// generateQuestion asks the text-generation collaborator for one question
// and validates the structured response. A missing required field fails the
// operation rather than proceeding with partial data.
func (u Usecases) generateQuestion(ctx context.Context, sourceText string, topic domain.Topic, difficulty int, weakPoint bool) (generatedQuestion, error) {
	prompt := questionPrompt(sourceText, topic, difficulty, weakPoint, u.deps.Cfg.SourceTextLimit)

	raw, err := u.deps.AI.Generate(ctx, prompt, questionGenMaxTokens)
	if err != nil {
		return generatedQuestion{}, apierr.External("question_generation_unavailable", err)
	}

	var gen generatedQuestion
	if err := modeljson.Decode(raw, &gen); err != nil {
		return generatedQuestion{}, apierr.Validation("question_invalid_response", err)
	}
	if gen.Statement == nil || gen.CorrectAnswer == nil || gen.TopicID == nil ||
		gen.Explanation == nil || gen.KeyConcept == nil {
		return generatedQuestion{}, apierr.Validation("question_invalid_response",
			fmt.Errorf("generated question missing required fields"))
	}
	if strings.TrimSpace(*gen.Statement) == "" {
		return generatedQuestion{}, apierr.Validation("question_invalid_response",
			fmt.Errorf("generated question has empty statement"))
	}
	return gen, nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
