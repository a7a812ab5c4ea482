package study

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/provaloop/studyloop-backend/internal/data/repos/testutil"
)

func TestProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProgressRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "progressrepo@example.com")
	s := testutil.SeedSession(t, ctx, tx, u.ID)
	p := testutil.SeedProgress(t, ctx, tx, s.ID, u.ID)

	got, err := repo.GetBySessionAndUser(ctx, tx, s.ID, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetBySessionAndUser: err=%v row=%v", err, got)
	}
	if got.DifficultyLevel != 1 || got.TotalCount != 0 {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	got.CorrectCount = 3
	got.TotalCount = 4
	got.DifficultyLevel = 2
	got.WeakTopicIDs = datatypes.JSON([]byte("[2]"))
	if err := repo.Update(ctx, tx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ = repo.GetBySessionAndUser(ctx, tx, s.ID, u.ID)
	if got.CorrectCount != 3 || got.DifficultyLevel != 2 {
		t.Fatalf("full update not applied: %+v", got)
	}

	if err := repo.UpdateCounters(ctx, tx, p.ID, 1, 4); err != nil {
		t.Fatalf("UpdateCounters: %v", err)
	}
	got, _ = repo.GetBySessionAndUser(ctx, tx, s.ID, u.ID)
	if got.CorrectCount != 1 || got.TotalCount != 4 {
		t.Fatalf("counters not rewritten: %+v", got)
	}
	if got.DifficultyLevel != 2 || string(got.WeakTopicIDs) != "[2]" {
		t.Fatalf("UpdateCounters touched non-counter state: %+v", got)
	}
}
