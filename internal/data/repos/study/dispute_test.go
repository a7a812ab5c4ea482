package study

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/provaloop/studyloop-backend/internal/data/repos/testutil"
	"github.com/provaloop/studyloop-backend/internal/domain"
)

func TestDisputeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewDisputeRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "disputerepo@example.com")
	s := testutil.SeedSession(t, ctx, tx, u.ID)
	q := testutil.SeedQuestion(t, ctx, tx, s.ID, u.ID, 1, true)

	d := &domain.Dispute{
		ID:               uuid.New(),
		QuestionID:       q.ID,
		UserID:           u.ID,
		Argument:         "the statement conflicts with the statute text",
		PriorAnswer:      q.CorrectAnswer,
		PriorExplanation: q.Explanation,
		Decision:         domain.DisputePending,
	}
	if _, err := repo.Create(ctx, tx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err := repo.CountByQuestionID(ctx, tx, q.ID)
	if err != nil || count != 1 {
		t.Fatalf("CountByQuestionID: err=%v count=%d", err, count)
	}

	suggested := false
	if err := repo.Finalize(ctx, tx, d.ID, DisputeFinalization{
		Decision:           domain.DisputeAccepted,
		Confidence:         0.9,
		Analysis:           "the learner is right",
		Evidence:           datatypes.JSON([]byte(`{"sources":[]}`)),
		SuggestedAnswer:    &suggested,
		UpdatedExplanation: "corrected",
		CompletedAt:        time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	rows, err := repo.ListByQuestionID(ctx, tx, q.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByQuestionID: err=%v len=%d", err, len(rows))
	}
	got := rows[0]
	if got.Decision != domain.DisputeAccepted || got.Confidence != 0.9 {
		t.Fatalf("finalization not applied: %+v", got)
	}
	if got.SuggestedAnswer == nil || *got.SuggestedAnswer != false {
		t.Fatalf("suggested answer not stored: %+v", got)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed_at not stored")
	}
}
