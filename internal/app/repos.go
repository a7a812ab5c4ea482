package app

import (
	"gorm.io/gorm"

	"github.com/provaloop/studyloop-backend/internal/data/repos"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

type Repos struct {
	Sessions  repos.SessionRepo
	Progress  repos.ProgressRepo
	Questions repos.QuestionRepo
	Disputes  repos.DisputeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Sessions:  repos.NewSessionRepo(db, log),
		Progress:  repos.NewProgressRepo(db, log),
		Questions: repos.NewQuestionRepo(db, log),
		Disputes:  repos.NewDisputeRepo(db, log),
	}
}
