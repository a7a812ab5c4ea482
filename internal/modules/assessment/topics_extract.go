package assessment

import (
	"context"
	"fmt"
	"strings"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/apierr"
	"github.com/provaloop/studyloop-backend/internal/platform/modeljson"
)

const topicExtractMaxTokens = 2000

type extractedTopics struct {
	CoreTopics []domain.Topic `json:"coreTopics"`
}

func extractionPrompt(sourceText string, limit int) string {
	var b strings.Builder
	b.WriteString("You are an analysis agent specialized in identifying the 20% of content that drives 80% of results (Pareto principle).\n\n")
	b.WriteString("Analyze this study material and identify the ESSENTIAL topics:\n\n")
	b.WriteString(truncateRunes(sourceText, limit))
	b.WriteString("\n\nReturn ONLY JSON (no markdown, no commentary) with this structure:\n")
	b.WriteString(`{
  "coreTopics": [
    {
      "id": 1,
      "title": "Concise topic title",
      "importance": "Alta",
      "keyPoints": ["point 1", "point 2", "point 3"],
      "difficulty": 1
    }
  ]
}`)
	b.WriteString("\n\nIdentify 4-6 fundamental topics, no more than that. Rate difficulty from 1 (basic) to 5 (advanced).")
	return b.String()
}

// extractTopics distills the source text into the core topic list stored on
// the session. Every topic is validated before anything is persisted.
func (u Usecases) extractTopics(ctx context.Context, sourceText string) ([]domain.Topic, error) {
	prompt := extractionPrompt(sourceText, u.deps.Cfg.ExtractTextLimit)

	raw, err := u.deps.AI.Generate(ctx, prompt, topicExtractMaxTokens)
	if err != nil {
		return nil, apierr.External("topic_extraction_unavailable", err)
	}

	var out extractedTopics
	if err := modeljson.Decode(raw, &out); err != nil {
		return nil, apierr.Validation("topics_invalid_response", err)
	}
	if len(out.CoreTopics) == 0 {
		return nil, apierr.Validation("topics_invalid_response",
			fmt.Errorf("extraction returned no topics"))
	}

	encoded, err := domain.EncodeTopics(out.CoreTopics)
	if err != nil {
		return nil, apierr.Validation("topics_invalid_response", err)
	}
	// round-trip through ParseTopics to enforce id uniqueness
	topics, err := domain.ParseTopics(encoded)
	if err != nil {
		return nil, apierr.Validation("topics_invalid_response", err)
	}
	return topics, nil
}
