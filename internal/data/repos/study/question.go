package study

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

// ErrAlreadyAnswered is returned by SetAnswer when the row already carries
// an answer; concurrent submissions race to it and exactly one wins.
var ErrAlreadyAnswered = errors.New("question already answered")

// AffectedPair identifies one (learner, session) whose progress depends on
// answers to a given question.
type AffectedPair struct {
	UserID    uuid.UUID `gorm:"column:user_id"`
	SessionID uuid.UUID `gorm:"column:session_id"`
}

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Question) (*domain.Question, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Question, error)
	SetAnswer(ctx context.Context, tx *gorm.DB, id uuid.UUID, answer bool, answeredAt time.Time) error
	UpdateAnswerKey(ctx context.Context, tx *gorm.DB, id uuid.UUID, answer bool, explanation string) error
	ListAnswered(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) ([]*domain.Question, error)
	ListAffectedByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]AffectedPair, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Question) (*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row domain.Question
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// SetAnswer records the learner's judgment on an unanswered row. The
// user_answer IS NULL guard makes the write first-one-wins under concurrent
// submissions.
func (r *questionRepo) SetAnswer(ctx context.Context, tx *gorm.DB, id uuid.UUID, answer bool, answeredAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Question{}).
		Where("id = ? AND user_answer IS NULL", id).
		Updates(map[string]interface{}{
			"user_answer": answer,
			"answered_at": answeredAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyAnswered
	}
	return nil
}

// UpdateAnswerKey rewrites the answer key in place as a single atomic
// update; readers see either the old key or the new one, never a mix.
func (r *questionRepo) UpdateAnswerKey(ctx context.Context, tx *gorm.DB, id uuid.UUID, answer bool, explanation string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Question{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"correct_answer": answer,
			"explanation":    explanation,
		}).Error
}

func (r *questionRepo) ListAnswered(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) ([]*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Question
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND session_id = ? AND user_answer IS NOT NULL", userID, sessionID).
		Order("answered_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) ListAffectedByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]AffectedPair, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var pairs []AffectedPair
	if err := transaction.WithContext(ctx).
		Model(&domain.Question{}).
		Distinct("user_id", "session_id").
		Where("id = ? AND user_answer IS NOT NULL", questionID).
		Find(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}
