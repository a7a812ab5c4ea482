package study

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.StudySession) (*domain.StudySession, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.StudySession, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*domain.StudySession, error)
	Touch(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.StudySession) (*domain.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row domain.StudySession
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

func (r *sessionRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*domain.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.StudySession
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionRepo) Touch(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.StudySession{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

// FullDeleteByID removes the session and everything hanging off it. FK
// cascades are disabled during migration, so children are deleted explicitly.
func (r *sessionRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.
			Unscoped().
			Where("question_id IN (?)", inner.Model(&domain.Question{}).Select("id").Where("session_id = ?", id)).
			Delete(&domain.Dispute{}).Error; err != nil {
			return err
		}
		if err := inner.Unscoped().Where("session_id = ?", id).Delete(&domain.Question{}).Error; err != nil {
			return err
		}
		if err := inner.Unscoped().Where("session_id = ?", id).Delete(&domain.Progress{}).Error; err != nil {
			return err
		}
		return inner.Unscoped().Where("id = ?", id).Delete(&domain.StudySession{}).Error
	})
}
