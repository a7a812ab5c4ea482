package study

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

// DisputeFinalization carries everything written when a pipeline run
// reaches a terminal decision. Applied exactly once per dispute.
type DisputeFinalization struct {
	Decision           string
	Confidence         float64
	Analysis           string
	Evidence           datatypes.JSON
	SuggestedAnswer    *bool
	UpdatedExplanation string
	CompletedAt        time.Time
}

type DisputeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Dispute) (*domain.Dispute, error)
	Finalize(ctx context.Context, tx *gorm.DB, id uuid.UUID, fin DisputeFinalization) error
	CountByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (int64, error)
	ListByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*domain.Dispute, error)
}

type disputeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDisputeRepo(db *gorm.DB, baseLog *logger.Logger) DisputeRepo {
	return &disputeRepo{db: db, log: baseLog.With("repo", "DisputeRepo")}
}

func (r *disputeRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Dispute) (*domain.Dispute, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *disputeRepo) Finalize(ctx context.Context, tx *gorm.DB, id uuid.UUID, fin DisputeFinalization) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Dispute{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"decision":            fin.Decision,
			"confidence":          fin.Confidence,
			"analysis":            fin.Analysis,
			"evidence":            fin.Evidence,
			"suggested_answer":    fin.SuggestedAnswer,
			"updated_explanation": fin.UpdatedExplanation,
			"completed_at":        fin.CompletedAt,
		}).Error
}

func (r *disputeRepo) CountByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Dispute{}).
		Where("question_id = ?", questionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *disputeRepo) ListByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*domain.Dispute, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Dispute
	if err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
