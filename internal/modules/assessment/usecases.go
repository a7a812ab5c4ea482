package assessment

import (
	"context"
	"errors"
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
)

// Config tunes the adaptive engine. Zero values fall back to the defaults
// the engine was calibrated with.
type Config struct {
	WeakTopicBias    float64 // probability of drawing from the weak set
	SourceTextLimit  int     // rune cap on material sent for question generation
	ExtractTextLimit int     // rune cap on material sent for topic extraction
	SessionListLimit int
}

func (c Config) withDefaults() Config {
	if c.WeakTopicBias <= 0 || c.WeakTopicBias > 1 {
		c.WeakTopicBias = 0.7
	}
	if c.SourceTextLimit <= 0 {
		c.SourceTextLimit = 10000
	}
	if c.ExtractTextLimit <= 0 {
		c.ExtractTextLimit = 15000
	}
	if c.SessionListLimit <= 0 {
		c.SessionListLimit = 100
	}
	return c
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	AI anthropic.Client

	Sessions  repos.SessionRepo
	Progress  repos.ProgressRepo
	Questions repos.QuestionRepo

	Selector *TopicSelector
	Cfg      Config
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	deps.Cfg = deps.Cfg.withDefaults()
	if deps.Selector == nil {
		deps.Selector = NewTopicSelector(deps.Cfg.WeakTopicBias)
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type CreateSessionInput struct {
	UserID     uuid.UUID
	Title      string
	SourceText string
}

type CreateSessionOutput struct {
	Session *domain.StudySession `json:"session"`
	Topics  []domain.Topic       `json:"topics"`
}

// CreateSession ingests already-extracted study text: distills core topics,
// stores the session, and seeds a fresh progress record at difficulty 1.
func (u Usecases) CreateSession(ctx context.Context, in CreateSessionInput) (CreateSessionOutput, error) {
	if in.UserID == uuid.Nil {
		return CreateSessionOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return CreateSessionOutput{}, apierr.New(http.StatusBadRequest, "missing_title", nil)
	}
	if strings.TrimSpace(in.SourceText) == "" {
		return CreateSessionOutput{}, apierr.New(http.StatusBadRequest, "missing_source_text", nil)
	}

	topics, err := u.extractTopics(ctx, in.SourceText)
	if err != nil {
		return CreateSessionOutput{}, err
	}
	encoded, err := domain.EncodeTopics(topics)
	if err != nil {
		return CreateSessionOutput{}, apierr.New(http.StatusInternalServerError, "encode_topics_failed", err)
	}

	session := &domain.StudySession{
		ID:         uuid.New(),
		UserID:     in.UserID,
		Title:      title,
		SourceText: in.SourceText,
		Topics:     encoded,
	}

	err = u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := u.deps.Sessions.Create(ctx, tx, session); err != nil {
			return err
		}
		progress := &domain.Progress{
			ID:              uuid.New(),
			SessionID:       session.ID,
			UserID:          in.UserID,
			DifficultyLevel: 1,
		}
		if err := progress.SetWeakSet(domain.NewTopicSet()); err != nil {
			return err
		}
		_, err := u.deps.Progress.Create(ctx, tx, progress)
		return err
	})
	if err != nil {
		return CreateSessionOutput{}, apierr.New(http.StatusInternalServerError, "create_session_failed", err)
	}

	u.deps.Log.Info("session created",
		"session_id", session.ID.String(),
		"user_id", in.UserID.String(),
		"topics", len(topics))
	return CreateSessionOutput{Session: session, Topics: topics}, nil
}

type SessionSummary struct {
	Session         *domain.StudySession `json:"session"`
	CorrectCount    int                  `json:"correct_count"`
	TotalCount      int                  `json:"total_count"`
	DifficultyLevel int                  `json:"difficulty_level"`
	Band            string               `json:"band"`
}

type ListSessionsOutput struct {
	Critical  []SessionSummary `json:"critical"`
	Attention []SessionSummary `json:"attention"`
	Good      []SessionSummary `json:"good"`

	TotalSessions int     `json:"total_sessions"`
	TotalAnswered int     `json:"total_answered"`
	TotalCorrect  int     `json:"total_correct"`
	Accuracy      float64 `json:"accuracy"`
}

// DifficultyBand buckets a mastery level: 1-2 critical, 3 attention,
// 4-5 good.
func DifficultyBand(level int) string {
	switch {
	case level <= 2:
		return "critical"
	case level == 3:
		return "attention"
	default:
		return "good"
	}
}

func (u Usecases) ListSessions(ctx context.Context, userID uuid.UUID) (ListSessionsOutput, error) {
	if userID == uuid.Nil {
		return ListSessionsOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}

	sessions, err := u.deps.Sessions.ListByUserID(ctx, nil, userID, u.deps.Cfg.SessionListLimit)
	if err != nil {
		return ListSessionsOutput{}, apierr.New(http.StatusInternalServerError, "list_sessions_failed", err)
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	progressRows, err := u.deps.Progress.ListBySessionIDs(ctx, nil, ids)
	if err != nil {
		return ListSessionsOutput{}, apierr.New(http.StatusInternalServerError, "list_progress_failed", err)
	}
	byKey := make(map[string]*domain.Progress, len(progressRows))
	for _, p := range progressRows {
		byKey[p.SessionID.String()+"/"+p.UserID.String()] = p
	}

	var out ListSessionsOutput
	for _, s := range sessions {
		summary := SessionSummary{Session: s, DifficultyLevel: 1}
		if p, ok := byKey[s.ID.String()+"/"+userID.String()]; ok {
			summary.CorrectCount = p.CorrectCount
			summary.TotalCount = p.TotalCount
			summary.DifficultyLevel = p.DifficultyLevel
		}
		summary.Band = DifficultyBand(summary.DifficultyLevel)

		switch summary.Band {
		case "critical":
			out.Critical = append(out.Critical, summary)
		case "attention":
			out.Attention = append(out.Attention, summary)
		default:
			out.Good = append(out.Good, summary)
		}
		out.TotalAnswered += summary.TotalCount
		out.TotalCorrect += summary.CorrectCount
	}
	out.TotalSessions = len(sessions)
	if out.TotalAnswered > 0 {
		out.Accuracy = float64(out.TotalCorrect) / float64(out.TotalAnswered)
	}
	return out, nil
}

type GetSessionOutput struct {
	Session  *domain.StudySession `json:"session"`
	Topics   []domain.Topic       `json:"topics"`
	Progress *domain.Progress     `json:"progress"`
}

func (u Usecases) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (GetSessionOutput, error) {
	session, progress, err := u.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return GetSessionOutput{}, err
	}
	topics, err := session.ParseTopics()
	if err != nil {
		return GetSessionOutput{}, apierr.New(http.StatusInternalServerError, "session_topics_invalid", err)
	}
	return GetSessionOutput{Session: session, Topics: topics, Progress: progress}, nil
}

// DeleteSession removes the session and everything hanging off it:
// questions, their disputes, and the progress record.
func (u Usecases) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, _, err := u.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := u.deps.Sessions.FullDeleteByID(ctx, nil, session.ID); err != nil {
		return apierr.New(http.StatusInternalServerError, "delete_session_failed", err)
	}
	u.deps.Log.Info("session deleted",
		"session_id", sessionID.String(),
		"user_id", userID.String())
	return nil
}

type GenerateQuestionInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

type GenerateQuestionOutput struct {
	Question    *domain.Question `json:"question"`
	Topic       domain.Topic     `json:"topic"`
	IsWeakPoint bool             `json:"is_weak_point"`
}

// GenerateNextQuestion picks the next topic (biased toward weaknesses),
// requests one question at the learner's current difficulty, and persists it
// unanswered.
func (u Usecases) GenerateNextQuestion(ctx context.Context, in GenerateQuestionInput) (GenerateQuestionOutput, error) {
	session, progress, err := u.loadOwnedSession(ctx, in.UserID, in.SessionID)
	if err != nil {
		return GenerateQuestionOutput{}, err
	}

	topics, err := session.ParseTopics()
	if err != nil {
		return GenerateQuestionOutput{}, apierr.New(http.StatusInternalServerError, "session_topics_invalid", err)
	}
	weak, err := progress.WeakSet()
	if err != nil {
		return GenerateQuestionOutput{}, apierr.New(http.StatusInternalServerError, "weak_set_invalid", err)
	}

	topic, err := u.deps.Selector.Select(topics, weak)
	if err != nil {
		return GenerateQuestionOutput{}, apierr.New(http.StatusInternalServerError, "topic_selection_failed", err)
	}
	isWeak := weak.Contains(topic.ID)

	gen, err := u.generateQuestion(ctx, session.SourceText, topic, progress.DifficultyLevel, isWeak)
	if err != nil {
		return GenerateQuestionOutput{}, err
	}

	topicID := *gen.TopicID
	if !topicExists(topics, topicID) {
		// collaborator drifted off the requested topic; trust our selection
		topicID = topic.ID
	}

	question := &domain.Question{
		ID:            uuid.New(),
		SessionID:     session.ID,
		UserID:        in.UserID,
		Statement:     *gen.Statement,
		CorrectAnswer: *gen.CorrectAnswer,
		TopicID:       topicID,
		Explanation:   *gen.Explanation,
		KeyConcept:    *gen.KeyConcept,
		Difficulty:    progress.DifficultyLevel,
	}
	if _, err := u.deps.Questions.Create(ctx, nil, question); err != nil {
		return GenerateQuestionOutput{}, apierr.New(http.StatusInternalServerError, "save_question_failed", err)
	}
	if err := u.deps.Sessions.Touch(ctx, nil, session.ID); err != nil {
		u.deps.Log.Warn("session touch failed", "session_id", session.ID.String(), "error", err.Error())
	}

	return GenerateQuestionOutput{Question: question, Topic: topic, IsWeakPoint: isWeak}, nil
}

type SubmitAnswerInput struct {
	UserID     uuid.UUID
	QuestionID uuid.UUID
	Answer     bool
}

type SubmitAnswerOutput struct {
	IsCorrect       bool   `json:"is_correct"`
	CorrectAnswer   bool   `json:"correct_answer"`
	Explanation     string `json:"explanation"`
	KeyConcept      string `json:"key_concept"`
	DifficultyLevel int    `json:"difficulty_level"`
	CorrectCount    int    `json:"correct_count"`
	TotalCount      int    `json:"total_count"`
}

// SubmitAnswer records the learner's judgment, grades it against the current
// answer key, and applies the mastery rule in the same transaction.
func (u Usecases) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (SubmitAnswerOutput, error) {
	if in.UserID == uuid.Nil {
		return SubmitAnswerOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if in.QuestionID == uuid.Nil {
		return SubmitAnswerOutput{}, apierr.New(http.StatusBadRequest, "missing_question_id", nil)
	}

	question, err := u.deps.Questions.GetByID(ctx, nil, in.QuestionID)
	if err != nil {
		return SubmitAnswerOutput{}, apierr.New(http.StatusInternalServerError, "load_question_failed", err)
	}
	if question == nil || question.UserID != in.UserID {
		return SubmitAnswerOutput{}, apierr.New(http.StatusNotFound, "question_not_found", nil)
	}
	if question.Answered() {
		return SubmitAnswerOutput{}, apierr.Business("question_already_answered",
			fmt.Errorf("question %s already answered", question.ID))
	}

	isCorrect := in.Answer == question.CorrectAnswer

	var next MasteryState
	err = u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.deps.Questions.SetAnswer(ctx, tx, question.ID, in.Answer, time.Now().UTC()); err != nil {
			return err
		}
		progress, err := u.deps.Progress.GetBySessionAndUser(ctx, tx, question.SessionID, in.UserID)
		if err != nil {
			return err
		}
		if progress == nil {
			return fmt.Errorf("progress record missing for session %s", question.SessionID)
		}
		weak, err := progress.WeakSet()
		if err != nil {
			return err
		}

		next = ApplyAnswer(MasteryState{
			CorrectCount:    progress.CorrectCount,
			TotalCount:      progress.TotalCount,
			DifficultyLevel: progress.DifficultyLevel,
			WeakTopics:      weak,
		}, question.TopicID, isCorrect)

		progress.CorrectCount = next.CorrectCount
		progress.TotalCount = next.TotalCount
		progress.DifficultyLevel = next.DifficultyLevel
		if err := progress.SetWeakSet(next.WeakTopics); err != nil {
			return err
		}
		return u.deps.Progress.Update(ctx, tx, progress)
	})
	if err != nil {
		// a concurrent submission won the row between our read and the write
		if errors.Is(err, repos.ErrAlreadyAnswered) {
			return SubmitAnswerOutput{}, apierr.Business("question_already_answered", err)
		}
		return SubmitAnswerOutput{}, apierr.New(http.StatusInternalServerError, "record_answer_failed", err)
	}

	return SubmitAnswerOutput{
		IsCorrect:       isCorrect,
		CorrectAnswer:   question.CorrectAnswer,
		Explanation:     question.Explanation,
		KeyConcept:      question.KeyConcept,
		DifficultyLevel: next.DifficultyLevel,
		CorrectCount:    next.CorrectCount,
		TotalCount:      next.TotalCount,
	}, nil
}

type SessionReportOutput struct {
	Session         *domain.StudySession `json:"session"`
	CorrectCount    int                  `json:"correct_count"`
	TotalCount      int                  `json:"total_count"`
	Accuracy        float64              `json:"accuracy"`
	DifficultyLevel int                  `json:"difficulty_level"`
	Band            string               `json:"band"`
	WeakTopics      []domain.Topic       `json:"weak_topics"`
	Answered        []*domain.Question   `json:"answered"`
}

// SessionReport assembles the per-session report payload: counters,
// accuracy, mastery band, weak topics resolved to their titles, and the
// answered-question history. Data only; rendering belongs elsewhere.
func (u Usecases) SessionReport(ctx context.Context, userID, sessionID uuid.UUID) (SessionReportOutput, error) {
	session, progress, err := u.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return SessionReportOutput{}, err
	}
	topics, err := session.ParseTopics()
	if err != nil {
		return SessionReportOutput{}, apierr.New(http.StatusInternalServerError, "session_topics_invalid", err)
	}
	weak, err := progress.WeakSet()
	if err != nil {
		return SessionReportOutput{}, apierr.New(http.StatusInternalServerError, "weak_set_invalid", err)
	}
	answered, err := u.deps.Questions.ListAnswered(ctx, nil, userID, sessionID)
	if err != nil {
		return SessionReportOutput{}, apierr.New(http.StatusInternalServerError, "list_answered_failed", err)
	}

	out := SessionReportOutput{
		Session:         session,
		CorrectCount:    progress.CorrectCount,
		TotalCount:      progress.TotalCount,
		DifficultyLevel: progress.DifficultyLevel,
		Band:            DifficultyBand(progress.DifficultyLevel),
		Answered:        answered,
	}
	if out.TotalCount > 0 {
		out.Accuracy = float64(out.CorrectCount) / float64(out.TotalCount)
	}
	for _, t := range topics {
		if weak.Contains(t.ID) {
			out.WeakTopics = append(out.WeakTopics, t)
		}
	}
	return out, nil
}

func (u Usecases) loadOwnedSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, *domain.Progress, error) {
	if userID == uuid.Nil {
		return nil, nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if sessionID == uuid.Nil {
		return nil, nil, apierr.New(http.StatusBadRequest, "missing_session_id", nil)
	}

	session, err := u.deps.Sessions.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, nil, apierr.New(http.StatusInternalServerError, "load_session_failed", err)
	}
	if session == nil || session.UserID != userID {
		return nil, nil, apierr.New(http.StatusNotFound, "session_not_found", nil)
	}

	progress, err := u.deps.Progress.GetBySessionAndUser(ctx, nil, sessionID, userID)
	if err != nil {
		return nil, nil, apierr.New(http.StatusInternalServerError, "load_progress_failed", err)
	}
	if progress == nil {
		return nil, nil, apierr.New(http.StatusInternalServerError, "progress_missing", nil)
	}
	return session, progress, nil
}

func topicExists(topics []domain.Topic, id int) bool {
	for _, t := range topics {
		if t.ID == id {
			return true
		}
	}
	return false
}
