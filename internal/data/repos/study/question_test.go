package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/provaloop/studyloop-backend/internal/data/repos/testutil"
)

func TestQuestionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "questionrepo@example.com")
	s := testutil.SeedSession(t, ctx, tx, u.ID)
	q := testutil.SeedQuestion(t, ctx, tx, s.ID, u.ID, 1, true)

	got, err := repo.GetByID(ctx, tx, q.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	if got.Answered() {
		t.Fatal("fresh question should not be answered")
	}

	if err := repo.SetAnswer(ctx, tx, q.ID, false, time.Now().UTC()); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, q.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID after answer: err=%v", err)
	}
	if !got.Answered() || *got.UserAnswer != false {
		t.Fatalf("answer not recorded: %+v", got)
	}

	answered, err := repo.ListAnswered(ctx, tx, u.ID, s.ID)
	if err != nil || len(answered) != 1 {
		t.Fatalf("ListAnswered: err=%v len=%d", err, len(answered))
	}

	if err := repo.UpdateAnswerKey(ctx, tx, q.ID, false, "corrected explanation"); err != nil {
		t.Fatalf("UpdateAnswerKey: %v", err)
	}
	got, _ = repo.GetByID(ctx, tx, q.ID)
	if got.CorrectAnswer != false || got.Explanation != "corrected explanation" {
		t.Fatalf("answer key not rewritten: %+v", got)
	}

	pairs, err := repo.ListAffectedByQuestion(ctx, tx, q.ID)
	if err != nil || len(pairs) != 1 {
		t.Fatalf("ListAffectedByQuestion: err=%v len=%d", err, len(pairs))
	}
	if pairs[0].UserID != u.ID || pairs[0].SessionID != s.ID {
		t.Fatalf("unexpected pair: %+v", pairs[0])
	}
}

func TestQuestionRepoSetAnswerFirstOneWins(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "questionrepo3@example.com")
	s := testutil.SeedSession(t, ctx, tx, u.ID)
	q := testutil.SeedQuestion(t, ctx, tx, s.ID, u.ID, 1, true)

	if err := repo.SetAnswer(ctx, tx, q.ID, true, time.Now().UTC()); err != nil {
		t.Fatalf("first SetAnswer: %v", err)
	}
	err := repo.SetAnswer(ctx, tx, q.ID, false, time.Now().UTC())
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second SetAnswer: got %v, want ErrAlreadyAnswered", err)
	}

	got, err := repo.GetByID(ctx, tx, q.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v", err)
	}
	if *got.UserAnswer != true {
		t.Fatalf("losing write mutated the row: %+v", got)
	}
}

func TestQuestionRepoAffectedExcludesUnanswered(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuestionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "questionrepo2@example.com")
	s := testutil.SeedSession(t, ctx, tx, u.ID)
	q := testutil.SeedQuestion(t, ctx, tx, s.ID, u.ID, 1, true)

	pairs, err := repo.ListAffectedByQuestion(ctx, tx, q.ID)
	if err != nil {
		t.Fatalf("ListAffectedByQuestion: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("unanswered question should affect nobody, got %d pairs", len(pairs))
	}
}
