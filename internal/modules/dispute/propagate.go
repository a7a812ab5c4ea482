package dispute

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/provaloop/studyloop-backend/internal/data/repos"
	"github.com/provaloop/studyloop-backend/internal/modules/assessment"
)

// FailedPair records one (learner, session) whose counters could not be
// recomputed after an accepted correction. Surfaced for follow-up instead of
// aborting the sibling pairs.
type FailedPair struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	Reason    string    `json:"reason"`
}

// propagate re-derives progress counters for every learner whose record
// incorporated an answer to the corrected question. Pairs are deduplicated,
// recomputed concurrently, and isolated: one pair failing never stops the
// rest. Difficulty and weak topics are left untouched.
func (u Usecases) propagate(ctx context.Context, questionID uuid.UUID) ([]FailedPair, error) {
	affected, err := u.deps.Questions.ListAffectedByQuestion(ctx, nil, questionID)
	if err != nil {
		return nil, fmt.Errorf("list affected pairs: %w", err)
	}

	seen := make(map[string]bool, len(affected))
	pairs := make([]repos.AffectedPair, 0, len(affected))
	for _, p := range affected {
		key := p.UserID.String() + "/" + p.SessionID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, p)
	}

	failures := make([]FailedPair, len(pairs))
	var g errgroup.Group
	g.SetLimit(u.deps.Cfg.PropagationWorkers)

	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := u.recomputePair(ctx, pair.UserID, pair.SessionID); err != nil {
				u.deps.Log.Error("progress recompute failed",
					"question_id", questionID.String(),
					"user_id", pair.UserID.String(),
					"session_id", pair.SessionID.String(),
					"error", err.Error())
				failures[i] = FailedPair{UserID: pair.UserID, SessionID: pair.SessionID, Reason: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait()

	var failed []FailedPair
	for _, f := range failures {
		if f.Reason != "" {
			failed = append(failed, f)
		}
	}
	return failed, nil
}

// recomputePair rescans every answered question in the session and rewrites
// the pair's counters against the current answer keys.
func (u Usecases) recomputePair(ctx context.Context, userID, sessionID uuid.UUID) error {
	progress, err := u.deps.Progress.GetBySessionAndUser(ctx, nil, sessionID, userID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if progress == nil {
		return fmt.Errorf("progress record missing")
	}

	answered, err := u.deps.Questions.ListAnswered(ctx, nil, userID, sessionID)
	if err != nil {
		return fmt.Errorf("list answered: %w", err)
	}

	correct, total := assessment.RecomputeCounters(answered)
	if err := u.deps.Progress.UpdateCounters(ctx, nil, progress.ID, correct, total); err != nil {
		return fmt.Errorf("update counters: %w", err)
	}
	return nil
}
