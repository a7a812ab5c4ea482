package dispute

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/data/repos"
	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/anthropic"
	"github.com/provaloop/studyloop-backend/internal/platform/apierr"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
	"github.com/provaloop/studyloop-backend/internal/platform/tavily"
)

// Config tunes the dispute pipeline.
type Config struct {
	MaxDisputes        int     // per-question dispute cap
	AcceptConfidence   float64 // confidence gate threshold
	MinArgumentLen     int     // rune floor on the learner's argument
	SearchDepth        string
	SearchMaxResults   int
	PropagationWorkers int
}

func (c Config) withDefaults() Config {
	if c.MaxDisputes <= 0 {
		c.MaxDisputes = 3
	}
	if c.AcceptConfidence <= 0 || c.AcceptConfidence > 1 {
		c.AcceptConfidence = 0.7
	}
	if c.MinArgumentLen <= 0 {
		c.MinArgumentLen = 30
	}
	if c.SearchDepth == "" {
		c.SearchDepth = "basic"
	}
	if c.SearchMaxResults <= 0 {
		c.SearchMaxResults = 5
	}
	if c.PropagationWorkers <= 0 {
		c.PropagationWorkers = 4
	}
	return c
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	AI     anthropic.Client
	Search tavily.Client
	Locks  QuestionLocker

	Progress  repos.ProgressRepo
	Questions repos.QuestionRepo
	Disputes  repos.DisputeRepo

	Cfg Config
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	deps.Cfg = deps.Cfg.withDefaults()
	if deps.Locks == nil {
		deps.Locks = NewLocalLocker()
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type SubmitDisputeInput struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Argument   string
}

type SubmitDisputeOutput struct {
	DisputeID          uuid.UUID               `json:"dispute_id"`
	Decision           string                  `json:"decision"`
	Confidence         float64                 `json:"confidence"`
	Analysis           string                  `json:"analysis"`
	Evidence           domain.EvidenceSnapshot `json:"evidence"`
	UpdatedAnswer      *bool                   `json:"updated_answer,omitempty"`
	UpdatedExplanation string                  `json:"updated_explanation,omitempty"`
	FailedPairs        []FailedPair            `json:"failed_pairs,omitempty"`
}

// SubmitDispute runs the full challenge pipeline: admission, evidence
// gathering, adjudication, the confidence gate, and finalization. Accepted
// disputes additionally correct the answer key and propagate progress. Any
// stage failure after record creation leaves the dispute pending for manual
// inspection; nothing is partially applied.
func (u Usecases) SubmitDispute(ctx context.Context, in SubmitDisputeInput) (SubmitDisputeOutput, error) {
	if in.UserID == uuid.Nil {
		return SubmitDisputeOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if in.QuestionID == uuid.Nil {
		return SubmitDisputeOutput{}, apierr.New(http.StatusBadRequest, "missing_question_id", nil)
	}
	argument := strings.TrimSpace(in.Argument)
	if len([]rune(argument)) < u.deps.Cfg.MinArgumentLen {
		return SubmitDisputeOutput{}, apierr.Business("argument_too_short",
			fmt.Errorf("argument must have at least %d characters", u.deps.Cfg.MinArgumentLen))
	}

	question, err := u.deps.Questions.GetByID(ctx, nil, in.QuestionID)
	if err != nil {
		return SubmitDisputeOutput{}, apierr.New(http.StatusInternalServerError, "load_question_failed", err)
	}
	if question == nil || question.UserID != in.UserID {
		return SubmitDisputeOutput{}, apierr.New(http.StatusNotFound, "question_not_found", nil)
	}

	// Admission and record creation are serialized per question so the
	// count can never be checked against a stale value. Both happen before
	// any external call.
	row, err := u.admit(ctx, question, in.UserID, argument)
	if err != nil {
		return SubmitDisputeOutput{}, err
	}

	snap, err := u.gatherEvidence(ctx, question.Statement, argument)
	if err != nil {
		return SubmitDisputeOutput{}, err
	}

	v, err := u.adjudicate(ctx, question, argument, snap)
	if err != nil {
		return SubmitDisputeOutput{}, err
	}

	final, err := applyDecisionGate(v, u.deps.Cfg.AcceptConfidence)
	if err != nil {
		return SubmitDisputeOutput{}, err
	}

	evidence, err := marshalEvidence(snap)
	if err != nil {
		return SubmitDisputeOutput{}, apierr.New(http.StatusInternalServerError, "encode_evidence_failed", err)
	}
	if err := u.deps.Disputes.Finalize(ctx, nil, row.ID, repos.DisputeFinalization{
		Decision:           final.Decision,
		Confidence:         final.Confidence,
		Analysis:           final.Analysis,
		Evidence:           evidence,
		SuggestedAnswer:    final.SuggestedAnswer,
		UpdatedExplanation: final.UpdatedExplanation,
		CompletedAt:        time.Now().UTC(),
	}); err != nil {
		return SubmitDisputeOutput{}, apierr.New(http.StatusInternalServerError, "finalize_dispute_failed", err)
	}

	out := SubmitDisputeOutput{
		DisputeID:  row.ID,
		Decision:   final.Decision,
		Confidence: final.Confidence,
		Analysis:   final.Analysis,
		Evidence:   snap,
	}

	if final.Decision == domain.DisputeAccepted {
		if err := u.deps.Questions.UpdateAnswerKey(ctx, nil, question.ID, *final.SuggestedAnswer, final.UpdatedExplanation); err != nil {
			return SubmitDisputeOutput{}, apierr.New(http.StatusInternalServerError, "update_answer_key_failed", err)
		}
		out.UpdatedAnswer = final.SuggestedAnswer
		out.UpdatedExplanation = final.UpdatedExplanation

		failed, err := u.propagate(ctx, question.ID)
		if err != nil {
			return SubmitDisputeOutput{}, apierr.New(http.StatusInternalServerError, "propagation_failed", err)
		}
		out.FailedPairs = failed

		u.deps.Log.Info("dispute accepted",
			"dispute_id", row.ID.String(),
			"question_id", question.ID.String(),
			"confidence", final.Confidence,
			"failed_pairs", len(failed))
	} else {
		u.deps.Log.Info("dispute rejected",
			"dispute_id", row.ID.String(),
			"question_id", question.ID.String(),
			"confidence", final.Confidence)
	}

	return out, nil
}

// admit checks the per-question dispute cap and creates the pending record
// under the question lock, snapshotting the answer key as it stands.
func (u Usecases) admit(ctx context.Context, question *domain.Question, userID uuid.UUID, argument string) (*domain.Dispute, error) {
	release, err := u.deps.Locks.Acquire(ctx, question.ID)
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "dispute_lock_failed", err)
	}
	defer release()

	count, err := u.deps.Disputes.CountByQuestionID(ctx, nil, question.ID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "count_disputes_failed", err)
	}
	if count >= int64(u.deps.Cfg.MaxDisputes) {
		return nil, apierr.Business("dispute_limit_reached",
			fmt.Errorf("question already has %d disputes", count))
	}

	row := &domain.Dispute{
		ID:               uuid.New(),
		QuestionID:       question.ID,
		UserID:           userID,
		Argument:         argument,
		PriorAnswer:      question.CorrectAnswer,
		PriorExplanation: question.Explanation,
		Decision:         domain.DisputePending,
	}
	if _, err := u.deps.Disputes.Create(ctx, nil, row); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "create_dispute_failed", err)
	}
	return row, nil
}

type HistoryOutput struct {
	Disputes []*domain.Dispute `json:"disputes"`
}

// History lists every dispute raised against a question, newest first.
func (u Usecases) History(ctx context.Context, userID, questionID uuid.UUID) (HistoryOutput, error) {
	if userID == uuid.Nil {
		return HistoryOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if questionID == uuid.Nil {
		return HistoryOutput{}, apierr.New(http.StatusBadRequest, "missing_question_id", nil)
	}

	question, err := u.deps.Questions.GetByID(ctx, nil, questionID)
	if err != nil {
		return HistoryOutput{}, apierr.New(http.StatusInternalServerError, "load_question_failed", err)
	}
	if question == nil || question.UserID != userID {
		return HistoryOutput{}, apierr.New(http.StatusNotFound, "question_not_found", nil)
	}

	rows, err := u.deps.Disputes.ListByQuestionID(ctx, nil, questionID)
	if err != nil {
		return HistoryOutput{}, apierr.New(http.StatusInternalServerError, "list_disputes_failed", err)
	}
	return HistoryOutput{Disputes: rows}, nil
}
