package assessment

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/apierr"
)

type fakeAI struct {
	resp       string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeAI) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.resp, nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	return ae.Status
}

func TestGenerateQuestionParsesFencedJSON(t *testing.T) {
	ai := &fakeAI{resp: "```json\n" + `{
		"statement": "The constitution allows X.",
		"correctAnswer": false,
		"topicId": 2,
		"explanation": "It does not.",
		"keyConceptTested": "constitutional limits"
	}` + "\n```"}
	u := New(UsecasesDeps{AI: ai})

	topic := domain.Topic{ID: 2, Title: "Limits", KeyPoints: []string{"a", "b"}, Difficulty: 2}
	gen, err := u.generateQuestion(context.Background(), "material", topic, 3, true)
	if err != nil {
		t.Fatal(err)
	}
	if *gen.Statement == "" || *gen.CorrectAnswer != false || *gen.TopicID != 2 {
		t.Fatalf("unexpected parse: %+v", gen)
	}
	if !strings.Contains(ai.lastPrompt, "weak point") {
		t.Fatal("weak-point directive missing from prompt")
	}
	if !strings.Contains(ai.lastPrompt, difficultyTiers[3]) {
		t.Fatal("difficulty tier missing from prompt")
	}
}

func TestGenerateQuestionMissingFieldFails(t *testing.T) {
	ai := &fakeAI{resp: `{"statement": "x", "correctAnswer": true}`}
	u := New(UsecasesDeps{AI: ai})

	_, err := u.generateQuestion(context.Background(), "material", domain.Topic{ID: 1}, 1, false)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := statusOf(t, err); got != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", got)
	}
}

func TestGenerateQuestionCollaboratorFailure(t *testing.T) {
	ai := &fakeAI{err: errors.New("connection refused")}
	u := New(UsecasesDeps{AI: ai})

	_, err := u.generateQuestion(context.Background(), "material", domain.Topic{ID: 1}, 1, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := statusOf(t, err); got != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", got)
	}
}

func TestGenerateQuestionTruncatesSource(t *testing.T) {
	ai := &fakeAI{resp: `{"statement":"s","correctAnswer":true,"topicId":1,"explanation":"e","keyConceptTested":"k"}`}
	u := New(UsecasesDeps{AI: ai, Cfg: Config{SourceTextLimit: 50}})

	long := strings.Repeat("x", 500)
	if _, err := u.generateQuestion(context.Background(), long, domain.Topic{ID: 1}, 1, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(ai.lastPrompt, strings.Repeat("x", 51)) {
		t.Fatal("source text not truncated in prompt")
	}
}
