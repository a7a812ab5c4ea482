package study

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type ProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Progress) (*domain.Progress, error)
	GetBySessionAndUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*domain.Progress, error)
	ListBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*domain.Progress, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.Progress) error
	UpdateCounters(ctx context.Context, tx *gorm.DB, id uuid.UUID, correct, total int) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Progress) (*domain.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *progressRepo) GetBySessionAndUser(ctx context.Context, tx *gorm.DB, sessionID, userID uuid.UUID) (*domain.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row domain.Progress
	if err := transaction.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *progressRepo) ListBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*domain.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Progress
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Update replaces the full mutable state of a progress row: counters,
// difficulty, and the weak-topic snapshot.
func (r *progressRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Progress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Progress{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"correct_count":    row.CorrectCount,
			"total_count":      row.TotalCount,
			"difficulty_level": row.DifficultyLevel,
			"weak_topic_ids":   row.WeakTopicIDs,
		}).Error
}

// UpdateCounters rewrites only the answer counters. Used by answer-key
// propagation, which must leave difficulty and weak topics untouched.
func (r *progressRepo) UpdateCounters(ctx context.Context, tx *gorm.DB, id uuid.UUID, correct, total int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&domain.Progress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"correct_count": correct,
			"total_count":   total,
		}).Error
}
