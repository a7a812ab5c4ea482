package repos

import (
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/data/repos/study"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type SessionRepo = study.SessionRepo
type ProgressRepo = study.ProgressRepo
type QuestionRepo = study.QuestionRepo
type DisputeRepo = study.DisputeRepo

type AffectedPair = study.AffectedPair
type DisputeFinalization = study.DisputeFinalization

var ErrAlreadyAnswered = study.ErrAlreadyAnswered

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return study.NewSessionRepo(db, baseLog)
}
func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return study.NewProgressRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return study.NewQuestionRepo(db, baseLog)
}
func NewDisputeRepo(db *gorm.DB, baseLog *logger.Logger) DisputeRepo {
	return study.NewDisputeRepo(db, baseLog)
}
